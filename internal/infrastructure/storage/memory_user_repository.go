package storage

import (
	"context"
	"sync"
	"time"

	"smartcity-ml/internal/domain/entity"
	"smartcity-ml/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище пользователей бота
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]*entity.User
	now   func() time.Time
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]*entity.User),
		now:   time.Now,
	}
}

// Get возвращает копию пользователя по ID, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		user = entity.NewUser(userID, chatID)
		r.users[userID] = user
	}
	u := *user
	return &u, nil
}

// Save сохраняет состояние пользователя
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	u := *user
	r.mu.Lock()
	r.users[user.ID] = &u
	r.mu.Unlock()

	return nil
}

// StartProcessing переводит пользователя в обработку под блокировкой хранилища
func (r *MemoryUserRepository) StartProcessing(ctx context.Context, userID, chatID int64) (entity.UserState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[userID]
	if !exists {
		user = entity.NewUser(userID, chatID)
		r.users[userID] = user
	}
	if user.Busy() {
		return user.State, entity.ErrBusy
	}

	prev := user.State
	user.SetState(entity.StateProcessing)
	return prev, nil
}

// PurgeIdle удаляет пользователей, не менявших состояние дольше idle
func (r *MemoryUserRepository) PurgeIdle(ctx context.Context, idle time.Duration) (int, error) {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, user := range r.users {
		if user.LastSeen.Before(cutoff) {
			delete(r.users, id)
			removed++
		}
	}
	return removed, nil
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
