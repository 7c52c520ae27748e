//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"gocv.io/x/gocv"

	"smartcity-ml/internal/domain/entity"
)

// HeuristicScorer ищет тёмные области асфальта: повреждение считается темнее покрытия.
type HeuristicScorer struct {
	DarkLow     float64 // нижняя граница яркости маски
	DarkHigh    float64 // верхняя граница яркости маски
	KernelSize  int     // размер ядра морфологического замыкания
	MinArea     float64 // контуры меньше этой площади считаются шумом
	Thresholds  entity.SeverityThresholds
	HighlightBy color.RGBA
}

// NewHeuristicScorer создаёт оценщик с эмпирическими порогами.
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{
		DarkLow:     0,
		DarkHigh:    85,
		KernelSize:  7,
		MinArea:     2500,
		Thresholds:  entity.HeuristicThresholds,
		HighlightBy: color.RGBA{R: 255, A: 255},
	}
}

// Inspect запускает анализ изображения и возвращает оценку повреждения.
func (s *HeuristicScorer) Inspect(ctx context.Context, imageData []byte) (*entity.Inspection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	width, height := mat.Cols(), mat.Rows()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	// Маска тёмных участков.
	mask := gocv.NewMat()
	defer mask.Close()
	lower := gocv.NewScalar(s.DarkLow, 0, 0, 0)
	upper := gocv.NewScalar(s.DarkHigh, 0, 0, 0)
	gocv.InRangeWithScalar(gray, lower, upper, &mask)

	// Замыкание склеивает соседние фрагменты и убирает мелкие точки.
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(s.KernelSize, s.KernelSize))
	defer kernel.Close()
	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(mask, &closed, gocv.MorphClose, kernel)

	contours := gocv.FindContours(closed, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var damageArea float64
	regions := make([]entity.Box, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		area := gocv.ContourArea(c)
		if area <= s.MinArea {
			continue
		}
		damageArea += area

		rect := gocv.BoundingRect(c)
		regions = append(regions, entity.Box{
			X1: float64(rect.Min.X),
			Y1: float64(rect.Min.Y),
			X2: float64(rect.Max.X),
			Y2: float64(rect.Max.Y),
		})
	}

	return &entity.Inspection{
		Result:      entity.NewDamageResult(damageArea, width*height, s.Thresholds),
		Regions:     regions,
		ImageWidth:  width,
		ImageHeight: height,
	}, nil
}

// Highlight рисует прямоугольники вокруг областей и возвращает новую картинку.
func (s *HeuristicScorer) Highlight(imageData []byte, regions []entity.Box) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	for _, r := range regions {
		rect := image.Rect(int(r.X1), int(r.Y1), int(r.X2), int(r.Y2))
		gocv.Rectangle(&mat, rect, s.HighlightBy, 2)
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
// При ошибке Mat не выделяется и закрывать его не нужно.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	if len(imageData) == 0 {
		return gocv.Mat{}, fmt.Errorf("%w: empty upload", entity.ErrDecode)
	}
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	mat.Close()
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("%w: %v", entity.ErrDecode, err)
	}
	return gocv.Mat{}, entity.ErrDecode
}
