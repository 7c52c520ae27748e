package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// ScorerNames допустимые значения DAMAGE_SCORER.
var ScorerNames = []string{"heuristic", "opencv", "classic", "model", "yolo"}

type Config struct {
	Env           string      `yaml:"env"`
	LogLevel      string      `yaml:"log_level"`
	TelegramToken string      `yaml:"telegram_token"`
	HTTP          HTTPConfig  `yaml:"http"`
	Model         ModelConfig `yaml:"model"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
}

type ModelConfig struct {
	// Путь к ONNX-весам. Без него работает только эвристика.
	Path          string        `yaml:"path"`
	InputSize     int           `yaml:"input_size"`
	Confidence    float64       `yaml:"confidence"`
	NMS           float64       `yaml:"nms"`
	Timeout       time.Duration `yaml:"timeout"`
	DefaultScorer string        `yaml:"default_scorer"`
}

// Load читает .env, затем YAML из CONFIG_FILE (если задан), затем переменные окружения.
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Env, "ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.TelegramToken, "TELEGRAM_TOKEN")
	setString(&c.HTTP.Addr, "HTTP_ADDR")
	setString(&c.Model.Path, "MODEL_PATH")
	setString(&c.Model.DefaultScorer, "DAMAGE_SCORER")

	durations := map[string]*time.Duration{
		"READ_TIMEOUT":     &c.HTTP.ReadTimeout,
		"WRITE_TIMEOUT":    &c.HTTP.WriteTimeout,
		"SHUTDOWN_TIMEOUT": &c.HTTP.ShutdownTimeout,
		"MODEL_TIMEOUT":    &c.Model.Timeout,
	}
	for key, dst := range durations {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			d, err := cast.ToDurationE(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}

	if v, ok := os.LookupEnv("MAX_UPLOAD_BYTES"); ok && v != "" {
		n, err := cast.ToInt64E(v)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
		}
		c.HTTP.MaxUploadBytes = n
	}
	if v, ok := os.LookupEnv("MODEL_INPUT_SIZE"); ok && v != "" {
		n, err := cast.ToIntE(v)
		if err != nil {
			return fmt.Errorf("MODEL_INPUT_SIZE: %w", err)
		}
		c.Model.InputSize = n
	}
	if v, ok := os.LookupEnv("MODEL_CONFIDENCE"); ok && v != "" {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return fmt.Errorf("MODEL_CONFIDENCE: %w", err)
		}
		c.Model.Confidence = f
	}
	if v, ok := os.LookupEnv("MODEL_NMS"); ok && v != "" {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return fmt.Errorf("MODEL_NMS: %w", err)
		}
		c.Model.NMS = f
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = "production"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8000"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 30 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 60 * time.Second
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = 15 * time.Second
	}
	if c.HTTP.MaxUploadBytes == 0 {
		c.HTTP.MaxUploadBytes = 20 << 20
	}
	if c.Model.InputSize == 0 {
		c.Model.InputSize = 640
	}
	if c.Model.Confidence == 0 {
		c.Model.Confidence = 0.25
	}
	if c.Model.NMS == 0 {
		c.Model.NMS = 0.7
	}
	if c.Model.Timeout == 0 {
		c.Model.Timeout = 10 * time.Second
	}
	if c.Model.DefaultScorer == "" {
		c.Model.DefaultScorer = "heuristic"
	}
}

func (c *Config) validate() error {
	if c.HTTP.MaxUploadBytes < 0 {
		return fmt.Errorf("http.max_upload_bytes must be positive")
	}
	if c.Model.InputSize < 32 {
		return fmt.Errorf("model.input_size must be at least 32, got %d", c.Model.InputSize)
	}
	if c.Model.Confidence < 0 || c.Model.Confidence > 1 {
		return fmt.Errorf("model.confidence must be within [0,1], got %v", c.Model.Confidence)
	}
	if c.Model.NMS < 0 || c.Model.NMS > 1 {
		return fmt.Errorf("model.nms must be within [0,1], got %v", c.Model.NMS)
	}
	if !slices.Contains(ScorerNames, strings.ToLower(strings.TrimSpace(c.Model.DefaultScorer))) {
		return fmt.Errorf("unknown default scorer %q, expected one of %v", c.Model.DefaultScorer, ScorerNames)
	}
	return nil
}

// Development включает человекочитаемые логи.
func (c *Config) Development() bool {
	return strings.EqualFold(c.Env, "development")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
