package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"smartcity-ml/config"
	"smartcity-ml/internal/analytics"
	"smartcity-ml/internal/api/rest"
	"smartcity-ml/internal/api/telegram"
	app "smartcity-ml/internal/application"
	"smartcity-ml/internal/container"
	"smartcity-ml/internal/domain/port"
	"smartcity-ml/internal/infrastructure/observability"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API and, when TELEGRAM_TOKEN is set, the Telegram bot",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogging(cfg)

			obs := observability.NewPromObs(prometheus.DefaultRegisterer)
			services, cleanup, err := buildContainer(cfg, obs)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr: cfg.HTTP.Addr,
				Handler: rest.NewRouter(services.DamageService, services.AnalyticsService, obs, rest.Options{
					MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
				}),
				ReadTimeout:  cfg.HTTP.ReadTimeout,
				WriteTimeout: cfg.HTTP.WriteTimeout,
			}

			errCh := make(chan error, 2)
			go func() {
				log.Info().
					Str("addr", cfg.HTTP.Addr).
					Bool("model_loaded", services.DamageService.ModelLoaded()).
					Str("version", version).
					Msg("starting smartcity-ml")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			botDone := make(chan struct{})
			switch bot, err := newBot(cfg, services); {
			case err != nil:
				log.Error().Err(err).Msg("telegram bot disabled")
				close(botDone)
			case bot == nil:
				log.Info().Msg("TELEGRAM_TOKEN is not set, bot disabled")
				close(botDone)
			default:
				go func() {
					defer close(botDone)
					if err := bot.Run(ctx); err != nil {
						errCh <- err
					}
				}()
			}

			var runErr error
			select {
			case <-ctx.Done():
				log.Info().Msg("shutting down")
			case runErr = <-errCh:
				log.Error().Err(runErr).Msg("service failed")
				stop()
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("http shutdown")
			}

			select {
			case <-botDone:
			case <-shutdownCtx.Done():
				log.Warn().Msg("bot did not stop in time")
			}
			return runErr
		},
	}
}

func damageCommand() *cli.Command {
	return &cli.Command{
		Name:  "damage",
		Usage: "Score road damage on an image file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "image",
				Aliases:  []string{"i"},
				Usage:    "Path to the road photo",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "Scorer variant (heuristic, yolo)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := offlineConfig()
			if err != nil {
				return err
			}
			kind, err := app.ParseScorerKind(c.String("model"))
			if err != nil {
				return err
			}

			data, err := os.ReadFile(c.String("image"))
			if err != nil {
				return err
			}

			services, cleanup, err := buildContainer(cfg, port.NopObservability{})
			if err != nil {
				return err
			}
			defer cleanup()

			insp, err := services.DamageService.Predict(c.Context, data, kind)
			if err != nil {
				return err
			}
			return printJSON(insp.Result)
		},
	}
}

func anomalyCommand() *cli.Command {
	return &cli.Command{
		Name:  "anomaly",
		Usage: "Flag outliers in a usage log CSV (second column)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "csv",
				Usage:    "Path to the usage log",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			if _, err := offlineConfig(); err != nil {
				return err
			}

			f, err := os.Open(c.String("csv"))
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := app.NewAnalyticsService(nil).DetectAnomaly(c.Context, f)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func forecastCommand() *cli.Command {
	return &cli.Command{
		Name:  "forecast",
		Usage: "Forecast the next demand peak from a JSON history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "history",
				Usage:    `Path to JSON: [{"energy":1.2}, ...] or {"history":[...]}`,
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			if _, err := offlineConfig(); err != nil {
				return err
			}

			raw, err := os.ReadFile(c.String("history"))
			if err != nil {
				return err
			}
			history, err := analytics.DecodeHistory(raw)
			if err != nil {
				return err
			}

			result, err := app.NewAnalyticsService(nil).Forecast(c.Context, history)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func newBot(cfg *config.Config, services *container.Container) (*telegram.Bot, error) {
	if cfg.TelegramToken == "" {
		return nil, nil
	}
	return telegram.NewBot(cfg.TelegramToken, services.UserService, services.DamageService, services.AnalyticsService, cfg.HTTP.MaxUploadBytes)
}

// offlineConfig конфигурация для разовых команд: логи только в stderr.
func offlineConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg)
	return cfg, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
