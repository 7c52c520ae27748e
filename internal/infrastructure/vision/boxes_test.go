package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"smartcity-ml/internal/domain/entity"
)

func TestClampBoxes(t *testing.T) {
	boxes := clampBoxes([]entity.Box{
		{X1: -5, Y1: -1, X2: 50, Y2: 120},
		{X1: 10, Y1: 10, X2: 20, Y2: 20},
	}, 100, 100)

	require.Equal(t, entity.Box{X1: 0, Y1: 0, X2: 50, Y2: 100}, boxes[0])
	require.Equal(t, entity.Box{X1: 10, Y1: 10, X2: 20, Y2: 20}, boxes[1])
}
