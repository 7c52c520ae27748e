package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"smartcity-ml/config"
	app "smartcity-ml/internal/application"
	"smartcity-ml/internal/container"
	"smartcity-ml/internal/domain/port"
	"smartcity-ml/internal/infrastructure/storage"
	"smartcity-ml/internal/infrastructure/vision"
)

func setupLogging(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Development() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// buildContainer собирает сервисы. Модель загружается один раз;
// если её нет, сервис работает только эвристикой.
func buildContainer(cfg *config.Config, obs port.Observability) (*container.Container, func(), error) {
	heuristic := vision.NewHeuristicScorer()
	scorers := container.Scorers{
		Heuristic:   heuristic,
		Highlighter: heuristic,
	}
	cleanup := func() {}

	if cfg.Model.Path != "" {
		detector, err := vision.NewYOLODetector(vision.YOLOConfig{
			ModelPath:   cfg.Model.Path,
			InputSize:   cfg.Model.InputSize,
			ScoreThresh: float32(cfg.Model.Confidence),
			NMSThresh:   float32(cfg.Model.NMS),
		})
		if err != nil {
			log.Error().Err(err).Str("path", cfg.Model.Path).Msg("detection model not loaded")
		} else {
			log.Info().Str("path", cfg.Model.Path).Msg("detection model loaded")
			scorers.Model = detector
			cleanup = func() {
				if err := detector.Close(); err != nil {
					log.Warn().Err(err).Msg("close detection model")
				}
			}
		}
	}

	kind, err := app.ParseScorerKind(cfg.Model.DefaultScorer)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	c := container.New(storage.NewMemoryUserRepository(), scorers, obs, app.DamageOptions{
		DefaultScorer: kind,
		ModelTimeout:  cfg.Model.Timeout,
	})
	return c, cleanup, nil
}
