package analytics

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"smartcity-ml/internal/domain/entity"
)

const (
	// ForecastHorizon число интервалов вперёд (4 по 15 минут = час).
	ForecastHorizon = 4

	highConfidenceSlope = 0.2
	loadShiftingSlope   = 0.3
)

// Forecast экстраполирует линейный тренд истории на ForecastHorizon шагов.
func Forecast(history []entity.EnergyReading) (entity.ForecastResult, error) {
	if len(history) < 2 {
		return entity.ForecastResult{}, fmt.Errorf("%w: need at least 2 readings, got %d", entity.ErrInsufficientData, len(history))
	}

	xs := make([]float64, len(history))
	ys := make([]float64, len(history))
	for i, r := range history {
		if math.IsNaN(r.Energy) || math.IsInf(r.Energy, 0) {
			return entity.ForecastResult{}, fmt.Errorf("%w: reading %d is not a finite number", entity.ErrSchema, i)
		}
		xs[i] = float64(i)
		ys[i] = r.Energy
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	last := ys[len(ys)-1]

	peak := math.Inf(-1)
	for i := 1; i <= ForecastHorizon; i++ {
		peak = math.Max(peak, last+slope*float64(i))
	}
	peak, _ = decimal.NewFromFloat(peak).Round(2).Float64()

	result := entity.ForecastResult{
		ExpectedNextPeak: peak,
		Trend:            entity.TrendStable,
		Confidence:       entity.ConfidenceMedium,
		Recommendation:   entity.RecommendNoAction,
	}
	if slope > 0 {
		result.Trend = entity.TrendUpward
	}
	// HIGH при пологом или падающем тренде, независимо от Trend.
	if slope < highConfidenceSlope {
		result.Confidence = entity.ConfidenceHigh
	}
	if slope > loadShiftingSlope {
		result.Recommendation = entity.RecommendLoadShifting
	}

	return result, nil
}
