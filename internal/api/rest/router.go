// Package rest HTTP-интерфейс сервиса: оценка дорожного покрытия,
// поиск выбросов в журнале потребления и прогноз пика нагрузки.
package rest

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	app "smartcity-ml/internal/application"
	"smartcity-ml/internal/domain/entity"
	"smartcity-ml/internal/domain/port"
)

// DamagePredictor оценка повреждений по изображению.
type DamagePredictor interface {
	Predict(ctx context.Context, imageData []byte, kind app.ScorerKind) (*entity.Inspection, error)
	ModelLoaded() bool
}

// UsageAnalyzer анализ журнала потребления.
type UsageAnalyzer interface {
	DetectAnomaly(ctx context.Context, csv io.Reader) (*entity.AnomalyResult, error)
	Forecast(ctx context.Context, history []entity.EnergyReading) (*entity.ForecastResult, error)
}

type Options struct {
	MaxUploadBytes int64
	// Metrics обработчик /metrics, по умолчанию promhttp.Handler().
	Metrics http.Handler
}

type Server struct {
	damage    DamagePredictor
	analytics UsageAnalyzer
	obs       port.Observability
	maxUpload int64
}

// NewRouter собирает chi-роутер со всеми маршрутами сервиса.
func NewRouter(damage DamagePredictor, analytics UsageAnalyzer, obs port.Observability, opts Options) http.Handler {
	if obs == nil {
		obs = port.NopObservability{}
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}
	if opts.Metrics == nil {
		opts.Metrics = promhttp.Handler()
	}

	s := &Server{
		damage:    damage,
		analytics: analytics,
		obs:       obs,
		maxUpload: opts.MaxUploadBytes,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", opts.Metrics)

	r.Post("/predict-damage", s.handlePredictDamage)
	r.Post("/detect-anomaly", s.handleDetectAnomaly)
	r.Post("/forecast-demand", s.handleForecast)

	return r
}

// accessLog пишет строку журнала на каждый запрос.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("http request")
		}()
		next.ServeHTTP(ww, r)
	})
}
