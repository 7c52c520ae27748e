package port

import (
	"context"

	"smartcity-ml/internal/domain/entity"
)

// DamageScorer оценивает повреждение дороги по закодированному изображению
type DamageScorer interface {
	// Inspect декодирует изображение и возвращает оценку с найденными областями
	Inspect(ctx context.Context, imageData []byte) (*entity.Inspection, error)
}

// BoxDetector прогоняет модель детекции по изображению
type BoxDetector interface {
	// Detect возвращает найденные рамки в пикселях исходного изображения
	Detect(ctx context.Context, imageData []byte) (*entity.Detection, error)
}

// Highlighter рисует найденные области поверх изображения
type Highlighter interface {
	// Highlight возвращает JPEG с рамками вокруг областей
	Highlight(imageData []byte, regions []entity.Box) ([]byte, error)
}
