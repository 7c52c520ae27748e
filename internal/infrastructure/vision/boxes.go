package vision

import "smartcity-ml/internal/domain/entity"

// clampBoxes обрезает рамки по границам изображения.
func clampBoxes(boxes []entity.Box, width, height int) []entity.Box {
	w, h := float64(width), float64(height)
	for i := range boxes {
		boxes[i].X1 = clamp(boxes[i].X1, 0, w)
		boxes[i].Y1 = clamp(boxes[i].Y1, 0, h)
		boxes[i].X2 = clamp(boxes[i].X2, 0, w)
		boxes[i].Y2 = clamp(boxes[i].Y2, 0, h)
	}
	return boxes
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
