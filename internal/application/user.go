package app

import (
	"context"
	"time"

	"smartcity-ml/internal/domain/entity"
	"smartcity-ml/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) BeginDamageCheck(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingRoadPhoto)
}

func (s *UserService) BeginUsageCheck(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingUsageLog)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// StartProcessing занимает пользователя под анализ. Второй параллельный запрос
// получает entity.ErrBusy.
func (s *UserService) StartProcessing(ctx context.Context, userID, chatID int64) (entity.UserState, error) {
	return s.repo.StartProcessing(ctx, userID, chatID)
}

// PurgeIdle забывает пользователей без активности дольше idle.
func (s *UserService) PurgeIdle(ctx context.Context, idle time.Duration) (int, error) {
	return s.repo.PurgeIdle(ctx, idle)
}
