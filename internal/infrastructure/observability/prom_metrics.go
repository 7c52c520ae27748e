package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"smartcity-ml/internal/domain/port"
)

const (
	RequestsTotal      = port.MetricRequestsTotal
	ScoringLatency     = port.MetricScoringLatency
	DamageResultsTotal = port.MetricDamageResultsTotal
	AnomaliesFlagged   = port.MetricAnomaliesFlagged
	ModelLoaded        = port.MetricModelLoaded
)

type PromObs struct {
	counters map[string]*prometheus.CounterVec
	gauges   map[string]prometheus.Gauge
	histos   map[string]*prometheus.HistogramVec
}

// NewPromObs регистрирует метрики в reg.
func NewPromObs(reg prometheus.Registerer) *PromObs {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: RequestsTotal,
		Help: "Scoring requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    ScoringLatency,
		Help:    "Time spent inside a scorer.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	}, []string{"scorer"})
	damage := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: DamageResultsTotal,
		Help: "Damage results by scorer and damage type.",
	}, []string{"scorer", "damage_type"})
	anomalies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: AnomaliesFlagged,
		Help: "Rows flagged by the two-sigma rule.",
	}, nil)
	modelLoaded := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: ModelLoaded,
		Help: "1 when the detection model is loaded.",
	})

	reg.MustRegister(requests, latency, damage, anomalies, modelLoaded)

	return &PromObs{
		counters: map[string]*prometheus.CounterVec{
			RequestsTotal:      requests,
			DamageResultsTotal: damage,
			AnomaliesFlagged:   anomalies,
		},
		gauges: map[string]prometheus.Gauge{
			ModelLoaded: modelLoaded,
		},
		histos: map[string]*prometheus.HistogramVec{
			ScoringLatency: latency,
		},
	}
}

func (p *PromObs) IncCounter(name string, v float64, labels ...string) {
	c, ok := p.counters[name]
	if !ok {
		return
	}
	counter, err := c.GetMetricWithLabelValues(labels...)
	if err != nil {
		log.Error().Err(err).Str("metric", name).Msg("bad metric labels")
		return
	}
	counter.Add(v)
}

func (p *PromObs) ObserveLatency(name string, seconds float64, labels ...string) {
	h, ok := p.histos[name]
	if !ok {
		return
	}
	obs, err := h.GetMetricWithLabelValues(labels...)
	if err != nil {
		log.Error().Err(err).Str("metric", name).Msg("bad metric labels")
		return
	}
	obs.Observe(seconds)
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

var _ port.Observability = (*PromObs)(nil)
