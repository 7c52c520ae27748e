package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"smartcity-ml/config"
	app "smartcity-ml/internal/application"
)

func TestConfigScorerNamesParse(t *testing.T) {
	for _, name := range config.ScorerNames {
		kind, err := app.ParseScorerKind(name)
		require.NoError(t, err, name)
		require.NotEmpty(t, kind, name)
	}
}
