//go:build gocv
// +build gocv

package vision

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// yoloOutput собирает выход сети [1, 4+classes, anchors].
func yoloOutput(t *testing.T, classes int, anchors [][]float32) gocv.Mat {
	t.Helper()

	attrs := 4 + classes
	out := gocv.NewMatWithSizes([]int{1, attrs, len(anchors)}, gocv.MatTypeCV32F)
	data, err := out.DataPtrFloat32()
	require.NoError(t, err)
	require.Len(t, data, attrs*len(anchors))

	for i, values := range anchors {
		require.Len(t, values, attrs)
		for a, v := range values {
			data[a*len(anchors)+i] = v
		}
	}
	return out
}

func testDetector() *YOLODetector {
	return &YOLODetector{cfg: YOLOConfig{InputSize: 640, ScoreThresh: 0.25, NMSThresh: 0.7}}
}

func TestYOLODecodeOutput(t *testing.T) {
	out := yoloOutput(t, 2, [][]float32{
		// cx, cy, w, h, class0, class1
		{100, 100, 40, 20, 0.1, 0.9},
		{101, 100, 40, 20, 0.6, 0.2}, // почти совпадает с первой, уходит в NMS
		{300, 300, 50, 50, 0.1, 0.2}, // ниже порога уверенности
		{400, 300, 100, 50, 0.5, 0.3},
	})
	defer out.Close()

	// исходник 1280x640: по X масштаб 2, по Y 1
	boxes, err := testDetector().decodeOutput(out, 2, 1)
	require.NoError(t, err)
	require.Len(t, boxes, 2)

	first := boxes[0]
	require.Equal(t, 1, first.Class)
	require.InDelta(t, 0.9, first.Confidence, 1e-6)
	require.InDelta(t, 160, first.X1, 1e-3)
	require.InDelta(t, 90, first.Y1, 1e-3)
	require.InDelta(t, 240, first.X2, 1e-3)
	require.InDelta(t, 110, first.Y2, 1e-3)

	second := boxes[1]
	require.Equal(t, 0, second.Class)
	require.InDelta(t, 0.5, second.Confidence, 1e-6)
	require.InDelta(t, 700, second.X1, 1e-3)
	require.InDelta(t, 275, second.Y1, 1e-3)
	require.InDelta(t, 900, second.X2, 1e-3)
	require.InDelta(t, 325, second.Y2, 1e-3)
}

func TestYOLODecodeOutputNothingAboveThreshold(t *testing.T) {
	out := yoloOutput(t, 1, [][]float32{
		{10, 10, 5, 5, 0.1},
		{20, 20, 5, 5, 0.24},
	})
	defer out.Close()

	boxes, err := testDetector().decodeOutput(out, 1, 1)
	require.NoError(t, err)
	require.Empty(t, boxes)
}

func TestYOLODecodeOutputRejectsShape(t *testing.T) {
	out := gocv.NewMatWithSizes([]int{1, 4, 3}, gocv.MatTypeCV32F)
	defer out.Close()

	_, err := testDetector().decodeOutput(out, 1, 1)
	require.Error(t, err)
}
