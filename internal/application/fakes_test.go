package app

import (
	"context"
	"sync"

	"smartcity-ml/internal/domain/entity"
)

type fakeScorer struct {
	insp *entity.Inspection
	err  error
}

func (f *fakeScorer) Inspect(ctx context.Context, imageData []byte) (*entity.Inspection, error) {
	return f.insp, f.err
}

type fakeDetector struct {
	det   *entity.Detection
	err   error
	block chan struct{}
}

func (f *fakeDetector) Detect(ctx context.Context, imageData []byte) (*entity.Detection, error) {
	if f.block != nil {
		<-f.block
	}
	return f.det, f.err
}

type fakeHighlighter struct {
	calls int
}

func (f *fakeHighlighter) Highlight(imageData []byte, regions []entity.Box) ([]byte, error) {
	f.calls++
	return []byte("jpeg"), nil
}

type recordingObs struct {
	mu       sync.Mutex
	counters map[string]float64
	latency  []string
	gauges   map[string]float64
}

func newRecordingObs() *recordingObs {
	return &recordingObs{counters: map[string]float64{}, gauges: map[string]float64{}}
}

func (r *recordingObs) IncCounter(name string, v float64, labels ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := name
	for _, l := range labels {
		key += "|" + l
	}
	r.counters[key] += v
}

func (r *recordingObs) ObserveLatency(name string, seconds float64, labels ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latency = append(r.latency, labels...)
}

func (r *recordingObs) SetGauge(name string, v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gauges[name] = v
}
