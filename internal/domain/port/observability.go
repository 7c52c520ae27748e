package port

// Имена метрик
const (
	MetricRequestsTotal      = "smartcity_requests_total"
	MetricScoringLatency     = "smartcity_scoring_latency_seconds"
	MetricDamageResultsTotal = "smartcity_damage_results_total"
	MetricAnomaliesFlagged   = "smartcity_anomalies_flagged_total"
	MetricModelLoaded        = "smartcity_model_loaded"
)

// Observability метрики сервиса.
type Observability interface {
	IncCounter(name string, v float64, labels ...string)
	ObserveLatency(name string, seconds float64, labels ...string)
	SetGauge(name string, v float64)
}

// NopObservability ничего не записывает. Используется в тестах и CLI.
type NopObservability struct{}

func (NopObservability) IncCounter(string, float64, ...string)     {}
func (NopObservability) ObserveLatency(string, float64, ...string) {}
func (NopObservability) SetGauge(string, float64)                  {}
