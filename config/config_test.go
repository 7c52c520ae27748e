package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE", "ENV", "LOG_LEVEL", "TELEGRAM_TOKEN", "HTTP_ADDR", "MODEL_PATH",
	"DAMAGE_SCORER", "READ_TIMEOUT", "WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT", "MODEL_TIMEOUT",
	"MAX_UPLOAD_BYTES", "MODEL_INPUT_SIZE", "MODEL_CONFIDENCE", "MODEL_NMS",
}

// clearEnv изолирует тест от окружения и .env в рабочем каталоге.
func clearEnv(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8000", cfg.HTTP.Addr)
	require.Equal(t, 10*time.Second, cfg.Model.Timeout)
	require.Equal(t, int64(20<<20), cfg.HTTP.MaxUploadBytes)
	require.Equal(t, 640, cfg.Model.InputSize)
	require.Equal(t, "heuristic", cfg.Model.DefaultScorer)
	require.Empty(t, cfg.Model.Path)
	require.False(t, cfg.Development())
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
env: development
http:
  addr: ":9000"
  read_timeout: 5s
model:
  path: /models/yolov8n.onnx
  timeout: 3s
  confidence: 0.4
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MODEL_TIMEOUT", "1500ms")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.Development())
	require.Equal(t, ":9000", cfg.HTTP.Addr)
	require.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	require.Equal(t, "/models/yolov8n.onnx", cfg.Model.Path)
	require.Equal(t, 1500*time.Millisecond, cfg.Model.Timeout)
	require.Equal(t, 0.4, cfg.Model.Confidence)
	require.Equal(t, int64(1024), cfg.HTTP.MaxUploadBytes)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODEL_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("MODEL_CONFIDENCE", "1.5")
	_, err = Load()
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("DAMAGE_SCORER", "magic")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)
}

func TestLoadAcceptsScorerAliases(t *testing.T) {
	for _, name := range append(slices.Clone(ScorerNames), "YOLO", " Classic ") {
		clearEnv(t)
		t.Setenv("DAMAGE_SCORER", name)

		cfg, err := Load()
		require.NoError(t, err, name)
		require.Equal(t, name, cfg.Model.DefaultScorer)
	}
}
