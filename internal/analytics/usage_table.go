// Package analytics содержит статистические оценщики: поиск выбросов в журнале
// потребления и прогноз пика по линейному тренду.
package analytics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"smartcity-ml/internal/domain/entity"
)

// UsageColumn индекс колонки с потреблением (вторая колонка).
const UsageColumn = 1

// ParseUsageCSV читает CSV, первая строка — заголовок.
func ParseUsageCSV(r io.Reader) (*entity.UsageTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", entity.ErrEmptyInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrSchema, err)
	}
	if len(header) <= UsageColumn {
		return nil, fmt.Errorf("%w: expected at least %d columns, got %d", entity.ErrSchema, UsageColumn+1, len(header))
	}

	table := &entity.UsageTable{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrSchema, err)
		}
		if isBlank(record) {
			continue
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

// UsageValues извлекает числовые значения второй колонки.
func UsageValues(table *entity.UsageTable) ([]float64, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, entity.ErrEmptyInput
	}
	if len(table.Header) <= UsageColumn {
		return nil, fmt.Errorf("%w: expected at least %d columns, got %d", entity.ErrSchema, UsageColumn+1, len(table.Header))
	}

	values := make([]float64, 0, len(table.Rows))
	for i, row := range table.Rows {
		if len(row) <= UsageColumn {
			return nil, fmt.Errorf("%w: row %d has no usage column", entity.ErrSchema, i)
		}
		cell := strings.TrimSpace(row[UsageColumn])
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: row %d: %q is not a number", entity.ErrSchema, i, cell)
		}
		values = append(values, v)
	}
	return values, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
