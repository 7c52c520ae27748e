package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"smartcity-ml/internal/domain/entity"
)

func readings(vals ...float64) []entity.EnergyReading {
	out := make([]entity.EnergyReading, len(vals))
	for i, v := range vals {
		out[i] = entity.EnergyReading{Energy: v}
	}
	return out
}

func TestForecast_Upward(t *testing.T) {
	res, err := Forecast(readings(10, 12, 14, 16))
	require.NoError(t, err)
	require.Equal(t, 24.0, res.ExpectedNextPeak)
	require.Equal(t, entity.TrendUpward, res.Trend)
	require.Equal(t, entity.ConfidenceMedium, res.Confidence)
	require.Equal(t, entity.RecommendLoadShifting, res.Recommendation)
}

func TestForecast_Flat(t *testing.T) {
	res, err := Forecast(readings(7.5, 7.5, 7.5, 7.5))
	require.NoError(t, err)
	require.InDelta(t, 7.5, res.ExpectedNextPeak, 1e-9)
	require.Equal(t, entity.TrendStable, res.Trend)
	require.Equal(t, entity.ConfidenceHigh, res.Confidence)
	require.Equal(t, entity.RecommendNoAction, res.Recommendation)
}

func TestForecast_DecliningPeakIsFirstStep(t *testing.T) {
	res, err := Forecast(readings(20, 18, 16))
	require.NoError(t, err)
	// slope=-2, прогнозы 14,12,10,8
	require.InDelta(t, 14.0, res.ExpectedNextPeak, 1e-9)
	require.Equal(t, entity.TrendStable, res.Trend)
	require.Equal(t, entity.ConfidenceHigh, res.Confidence)
}

func TestForecast_GentleSlope(t *testing.T) {
	// slope=0.25: UPWARD, MEDIUM, но без рекомендации
	res, err := Forecast(readings(1, 1.25, 1.5, 1.75))
	require.NoError(t, err)
	require.Equal(t, entity.TrendUpward, res.Trend)
	require.Equal(t, entity.ConfidenceMedium, res.Confidence)
	require.Equal(t, entity.RecommendNoAction, res.Recommendation)
	require.InDelta(t, 2.75, res.ExpectedNextPeak, 1e-9)
}

func TestForecast_RoundsPeak(t *testing.T) {
	res, err := Forecast(readings(0, 0.1234))
	require.NoError(t, err)
	// 0.1234 + 4*0.1234 = 0.617 -> 0.62
	require.Equal(t, 0.62, res.ExpectedNextPeak)
}

func TestForecast_InsufficientData(t *testing.T) {
	_, err := Forecast(readings(3))
	require.ErrorIs(t, err, entity.ErrInsufficientData)

	_, err = Forecast(nil)
	require.ErrorIs(t, err, entity.ErrInsufficientData)
}
