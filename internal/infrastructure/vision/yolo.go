//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"smartcity-ml/internal/domain/entity"
)

// YOLOConfig параметры ONNX-модели семейства YOLOv8.
type YOLOConfig struct {
	ModelPath   string
	InputSize   int     // сторона квадратного входа сети
	ScoreThresh float32 // минимальная уверенность рамки
	NMSThresh   float32 // порог IoU для подавления дублей
}

// YOLODetector обёртка над сетью, загружается один раз при старте.
// Сеть OpenCV не потокобезопасна, поэтому forward выполняется под мьютексом.
type YOLODetector struct {
	cfg YOLOConfig
	mu  sync.Mutex
	net gocv.Net
}

// NewYOLODetector читает веса модели с диска.
func NewYOLODetector(cfg YOLOConfig) (*YOLODetector, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("model path is empty")
	}
	if cfg.InputSize <= 0 {
		cfg.InputSize = 640
	}
	if cfg.ScoreThresh <= 0 || cfg.ScoreThresh > 1 {
		cfg.ScoreThresh = 0.25
	}
	if cfg.NMSThresh <= 0 || cfg.NMSThresh > 1 {
		cfg.NMSThresh = 0.7
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		net.Close()
		return nil, fmt.Errorf("failed to load model %s", cfg.ModelPath)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &YOLODetector{cfg: cfg, net: net}, nil
}

// Detect прогоняет изображение через сеть и возвращает рамки в пикселях исходника.
func (d *YOLODetector) Detect(ctx context.Context, imageData []byte) (*entity.Detection, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	width, height := mat.Cols(), mat.Rows()
	size := image.Pt(d.cfg.InputSize, d.cfg.InputSize)

	blob := gocv.BlobFromImage(mat, 1.0/255.0, size, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	d.mu.Unlock()
	defer out.Close()

	boxes, err := d.decodeOutput(out, float64(width)/float64(d.cfg.InputSize), float64(height)/float64(d.cfg.InputSize))
	if err != nil {
		return nil, err
	}

	return &entity.Detection{
		ImageWidth:  width,
		ImageHeight: height,
		Boxes:       clampBoxes(boxes, width, height),
	}, nil
}

// decodeOutput разбирает выход вида [1, 4+classes, anchors]: cx, cy, w, h и оценки классов.
func (d *YOLODetector) decodeOutput(out gocv.Mat, scaleX, scaleY float64) ([]entity.Box, error) {
	dims := out.Size()
	if len(dims) != 3 || dims[1] <= 4 {
		return nil, fmt.Errorf("unexpected model output shape %v", dims)
	}
	attrs, anchors := dims[1], dims[2]

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read model output: %w", err)
	}

	rects := make([]image.Rectangle, 0)
	scores := make([]float32, 0)
	candidates := make([]entity.Box, 0)
	for i := 0; i < anchors; i++ {
		bestClass, bestScore := -1, float32(0)
		for c := 4; c < attrs; c++ {
			if s := data[c*anchors+i]; s > bestScore {
				bestClass, bestScore = c-4, s
			}
		}
		if bestScore < d.cfg.ScoreThresh {
			continue
		}

		cx := float64(data[i])
		cy := float64(data[anchors+i])
		w := float64(data[2*anchors+i])
		h := float64(data[3*anchors+i])

		box := entity.Box{
			X1:         (cx - w/2) * scaleX,
			Y1:         (cy - h/2) * scaleY,
			X2:         (cx + w/2) * scaleX,
			Y2:         (cy + h/2) * scaleY,
			Confidence: bestScore,
			Class:      bestClass,
		}
		candidates = append(candidates, box)
		rects = append(rects, image.Rect(int(box.X1), int(box.Y1), int(box.X2), int(box.Y2)))
		scores = append(scores, bestScore)
	}
	if len(candidates) == 0 {
		return candidates, nil
	}

	keep := gocv.NMSBoxes(rects, scores, d.cfg.ScoreThresh, d.cfg.NMSThresh)
	boxes := make([]entity.Box, 0, len(keep))
	for _, idx := range keep {
		boxes = append(boxes, candidates[idx])
	}
	return boxes, nil
}

// Close освобождает сеть.
func (d *YOLODetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
