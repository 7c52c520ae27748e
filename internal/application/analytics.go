package app

import (
	"context"
	"io"
	"time"

	"smartcity-ml/internal/analytics"
	"smartcity-ml/internal/domain/entity"
	"smartcity-ml/internal/domain/port"
)

// AnalyticsService поиск выбросов в журнале потребления и прогноз пика.
type AnalyticsService struct {
	obs port.Observability
}

func NewAnalyticsService(obs port.Observability) *AnalyticsService {
	if obs == nil {
		obs = port.NopObservability{}
	}
	return &AnalyticsService{obs: obs}
}

// DetectAnomaly разбирает CSV и применяет правило двух сигм ко второй колонке.
func (s *AnalyticsService) DetectAnomaly(ctx context.Context, csv io.Reader) (*entity.AnomalyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	table, err := analytics.ParseUsageCSV(csv)
	if err != nil {
		return nil, err
	}
	result, err := analytics.DetectTableAnomalies(table)
	if err != nil {
		return nil, err
	}

	s.obs.ObserveLatency(port.MetricScoringLatency, time.Since(start).Seconds(), "anomaly")
	s.obs.IncCounter(port.MetricAnomaliesFlagged, float64(len(result.AnomalyIndices)))
	return &result, nil
}

// Forecast прогнозирует следующий пик потребления.
func (s *AnalyticsService) Forecast(ctx context.Context, history []entity.EnergyReading) (*entity.ForecastResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := analytics.Forecast(history)
	if err != nil {
		return nil, err
	}
	s.obs.ObserveLatency(port.MetricScoringLatency, time.Since(start).Seconds(), "forecast")
	return &result, nil
}
