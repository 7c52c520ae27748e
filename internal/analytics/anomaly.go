package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"smartcity-ml/internal/domain/entity"
)

// SigmaFactor множитель стандартного отклонения для порога выброса.
const SigmaFactor = 2.0

// DetectAnomalies помечает значения строго выше mean + 2*std (std по генеральной совокупности).
func DetectAnomalies(values []float64) (entity.AnomalyResult, error) {
	if len(values) == 0 {
		return entity.AnomalyResult{}, entity.ErrEmptyInput
	}

	mean, variance := stat.PopMeanVariance(values, nil)
	threshold := mean + SigmaFactor*math.Sqrt(variance)

	indices := make([]int, 0)
	for i, v := range values {
		if v > threshold {
			indices = append(indices, i)
		}
	}

	return entity.AnomalyResult{
		MeanUsage:       mean,
		Threshold:       threshold,
		AnomalyDetected: len(indices) > 0,
		AnomalyIndices:  indices,
	}, nil
}

// DetectTableAnomalies извлекает вторую колонку таблицы и ищет выбросы.
func DetectTableAnomalies(table *entity.UsageTable) (entity.AnomalyResult, error) {
	values, err := UsageValues(table)
	if err != nil {
		return entity.AnomalyResult{}, err
	}
	return DetectAnomalies(values)
}
