//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"smartcity-ml/internal/domain/entity"
)

// ErrNoGoCV возвращается, если сборка без тега gocv.
var ErrNoGoCV = errors.New("gocv build tag is not enabled")

type HeuristicScorer struct {
	DarkLow    float64
	DarkHigh   float64
	KernelSize int
	MinArea    float64
	Thresholds entity.SeverityThresholds
}

// NewHeuristicScorer создаёт оценщик-заглушку (без OpenCV).
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{
		DarkLow:    0,
		DarkHigh:   85,
		KernelSize: 7,
		MinArea:    2500,
		Thresholds: entity.HeuristicThresholds,
	}
}

// Inspect возвращает ошибку, если сборка без тега gocv.
func (s *HeuristicScorer) Inspect(ctx context.Context, imageData []byte) (*entity.Inspection, error) {
	_ = ctx
	_ = imageData
	return nil, ErrNoGoCV
}

// Highlight возвращает ошибку, если сборка без тега gocv.
func (s *HeuristicScorer) Highlight(imageData []byte, regions []entity.Box) ([]byte, error) {
	_ = imageData
	_ = regions
	return nil, ErrNoGoCV
}
