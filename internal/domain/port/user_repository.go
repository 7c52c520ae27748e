package port

import (
	"context"
	"time"

	"smartcity-ml/internal/domain/entity"
)

// UserRepository интерфейс хранилища пользователей бота
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет состояние пользователя
	Save(ctx context.Context, user *entity.User) error

	// StartProcessing атомарно переводит пользователя в StateProcessing и
	// возвращает предыдущее состояние. Если анализ уже идёт, возвращает entity.ErrBusy.
	StartProcessing(ctx context.Context, userID, chatID int64) (entity.UserState, error)

	// PurgeIdle удаляет пользователей без активности дольше idle и возвращает их число
	PurgeIdle(ctx context.Context, idle time.Duration) (int, error)
}
