package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"

	"smartcity-ml/internal/domain/entity"
)

type historyEnvelope struct {
	History []entity.EnergyReading `json:"history"`
}

// DecodeHistory разбирает историю потребления: массив [{"energy":...}]
// или объект {"history":[...]}.
func DecodeHistory(raw []byte) ([]entity.EnergyReading, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, entity.ErrEmptyInput
	}

	if raw[0] == '[' {
		var history []entity.EnergyReading
		if err := json.Unmarshal(raw, &history); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrSchema, err)
		}
		return history, nil
	}

	var env historyEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrSchema, err)
	}
	return env.History, nil
}
