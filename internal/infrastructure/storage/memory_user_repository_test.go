package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"smartcity-ml/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreatesUser(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	u, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, u.State)

	// изменения копии не попадают в хранилище без Save
	u.SetState(entity.StateProcessing)
	again, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, again.State)

	require.NoError(t, repo.Save(ctx, u))
	again, err = repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, again.State)
}

func TestMemoryUserRepository_PurgeIdle(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	now := time.Now()
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.Save(ctx, &entity.User{ID: 1, ChatID: 1, LastSeen: now.Add(-2 * time.Hour)}))
	require.NoError(t, repo.Save(ctx, &entity.User{ID: 2, ChatID: 2, LastSeen: now.Add(-time.Minute)}))

	removed, err := repo.PurgeIdle(ctx, time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.Len(t, repo.users, 1)
	require.Contains(t, repo.users, int64(2))
}

func TestMemoryUserRepository_StartProcessing(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	u, err := repo.Get(ctx, 3, 30)
	require.NoError(t, err)
	u.SetState(entity.StateAwaitingRoadPhoto)
	require.NoError(t, repo.Save(ctx, u))

	prev, err := repo.StartProcessing(ctx, 3, 30)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingRoadPhoto, prev)

	_, err = repo.StartProcessing(ctx, 3, 30)
	require.ErrorIs(t, err, entity.ErrBusy)

	stored, err := repo.Get(ctx, 3, 30)
	require.NoError(t, err)
	require.True(t, stored.Busy())
}

func TestMemoryUserRepository_StartProcessingOnlyOnce(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		started atomic.Int32
		busy    atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.StartProcessing(ctx, 4, 40)
			switch {
			case err == nil:
				started.Add(1)
			case errors.Is(err, entity.ErrBusy):
				busy.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), started.Load())
	require.Equal(t, int32(49), busy.Load())
}
