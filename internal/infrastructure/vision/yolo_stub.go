//go:build !gocv
// +build !gocv

package vision

import (
	"context"

	"smartcity-ml/internal/domain/entity"
)

type YOLOConfig struct {
	ModelPath   string
	InputSize   int
	ScoreThresh float32
	NMSThresh   float32
}

type YOLODetector struct {
	cfg YOLOConfig
}

// NewYOLODetector без OpenCV модель загрузить нельзя.
func NewYOLODetector(cfg YOLOConfig) (*YOLODetector, error) {
	_ = cfg
	return nil, ErrNoGoCV
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *YOLODetector) Detect(ctx context.Context, imageData []byte) (*entity.Detection, error) {
	_ = ctx
	_ = imageData
	return nil, ErrNoGoCV
}

// Close ничего не делает.
func (d *YOLODetector) Close() error {
	return nil
}
