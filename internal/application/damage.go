package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smartcity-ml/internal/domain/entity"
	"smartcity-ml/internal/domain/port"
)

// ScorerKind вариант оценки повреждения
type ScorerKind string

const (
	ScorerHeuristic ScorerKind = "heuristic"
	ScorerModel     ScorerKind = "model"
)

var (
	// ErrModelUnavailable модель детекции не загружена.
	ErrModelUnavailable = errors.New("detection model is not loaded")
	// ErrUnknownScorer неизвестный вариант оценки.
	ErrUnknownScorer = errors.New("unknown scorer")
)

// ParseScorerKind разбирает имя варианта. Для пустой строки возвращает "".
func ParseScorerKind(name string) (ScorerKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return "", nil
	case "heuristic", "opencv", "classic":
		return ScorerHeuristic, nil
	case "model", "yolo":
		return ScorerModel, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScorer, name)
	}
}

// DamageOptions настройки DamageService.
type DamageOptions struct {
	DefaultScorer ScorerKind
	ModelTimeout  time.Duration
}

type DamageService struct {
	heuristic   port.DamageScorer
	model       port.BoxDetector
	highlighter port.Highlighter
	obs         port.Observability
	opts        DamageOptions
}

// NewDamageService собирает сервис оценки дорог. model и highlighter могут быть nil.
func NewDamageService(heuristic port.DamageScorer, model port.BoxDetector, highlighter port.Highlighter, obs port.Observability, opts DamageOptions) *DamageService {
	if obs == nil {
		obs = port.NopObservability{}
	}
	if opts.DefaultScorer == "" {
		opts.DefaultScorer = ScorerHeuristic
	}
	if opts.ModelTimeout <= 0 {
		opts.ModelTimeout = 10 * time.Second
	}

	loaded := 0.0
	if model != nil {
		loaded = 1
	}
	obs.SetGauge(port.MetricModelLoaded, loaded)

	return &DamageService{
		heuristic:   heuristic,
		model:       model,
		highlighter: highlighter,
		obs:         obs,
		opts:        opts,
	}
}

// ModelLoaded сообщает, доступен ли вариант с моделью.
func (s *DamageService) ModelLoaded() bool {
	return s.model != nil
}

// Predict оценивает повреждение выбранным вариантом.
func (s *DamageService) Predict(ctx context.Context, imageData []byte, kind ScorerKind) (*entity.Inspection, error) {
	if kind == "" {
		kind = s.opts.DefaultScorer
	}

	start := time.Now()
	var (
		insp *entity.Inspection
		err  error
	)
	switch kind {
	case ScorerHeuristic:
		if s.heuristic == nil {
			return nil, errors.New("heuristic scorer is not configured")
		}
		insp, err = s.heuristic.Inspect(ctx, imageData)
	case ScorerModel:
		insp, err = s.predictModel(ctx, imageData)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScorer, kind)
	}
	if err != nil {
		return nil, err
	}

	s.obs.ObserveLatency(port.MetricScoringLatency, time.Since(start).Seconds(), string(kind))
	s.obs.IncCounter(port.MetricDamageResultsTotal, 1, string(kind), string(insp.Result.DamageType))
	return insp, nil
}

type detectOutcome struct {
	det *entity.Detection
	err error
}

// predictModel ограничивает инференс по времени. Forward нельзя прервать,
// поэтому по таймауту запрос завершается, а горутина дорабатывает в фоне.
func (s *DamageService) predictModel(ctx context.Context, imageData []byte) (*entity.Inspection, error) {
	if s.model == nil {
		return nil, ErrModelUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.ModelTimeout)
	defer cancel()

	done := make(chan detectOutcome, 1)
	go func() {
		det, err := s.model.Detect(ctx, imageData)
		done <- detectOutcome{det: det, err: err}
	}()

	var out detectOutcome
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("model inference: %w", ctx.Err())
	case out = <-done:
	}
	if out.err != nil {
		return nil, out.err
	}

	return ScoreDetection(out.det), nil
}

// ScoreDetection переводит рамки детектора в оценку. Пересекающиеся рамки
// суммируются без вычитания пересечений.
func ScoreDetection(det *entity.Detection) *entity.Inspection {
	result := entity.NewDamageResult(det.BoxArea(), det.TotalArea(), entity.ModelThresholds).
		WithBoxes(len(det.Boxes))

	return &entity.Inspection{
		Result:      result,
		Regions:     det.Boxes,
		ImageWidth:  det.ImageWidth,
		ImageHeight: det.ImageHeight,
	}
}

// Highlight возвращает изображение с подсвеченными областями или nil, если подсвечивать нечего.
func (s *DamageService) Highlight(imageData []byte, insp *entity.Inspection) ([]byte, error) {
	if s.highlighter == nil || !insp.HasRegions() {
		return nil, nil
	}
	return s.highlighter.Highlight(imageData, insp.Regions)
}
