package container

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	app "smartcity-ml/internal/application"
	"smartcity-ml/internal/domain/entity"
	"smartcity-ml/internal/domain/port"
	"smartcity-ml/internal/infrastructure/storage"
)

type staticScorer struct{}

func (staticScorer) Inspect(ctx context.Context, imageData []byte) (*entity.Inspection, error) {
	return &entity.Inspection{Result: entity.NewDamageResult(0, 1, entity.HeuristicThresholds)}, nil
}

func TestNewWiresServices(t *testing.T) {
	c := New(storage.NewMemoryUserRepository(), Scorers{Heuristic: staticScorer{}}, port.NopObservability{}, app.DamageOptions{})

	require.False(t, c.DamageService.ModelLoaded())

	insp, err := c.DamageService.Predict(context.Background(), []byte("img"), "")
	require.NoError(t, err)
	require.Equal(t, entity.DamageNormal, insp.Result.DamageType)

	_, err = c.DamageService.Predict(context.Background(), []byte("img"), app.ScorerModel)
	require.ErrorIs(t, err, app.ErrModelUnavailable)

	res, err := c.AnalyticsService.DetectAnomaly(context.Background(), strings.NewReader("ts,v\n1,1\n2,1\n"))
	require.NoError(t, err)
	require.False(t, res.AnomalyDetected)

	user, err := c.UserService.BeginDamageCheck(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingRoadPhoto, user.State)
}
