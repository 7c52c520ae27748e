package entity

import (
	"errors"
	"time"
)

// ErrBusy по пользователю уже идёт анализ.
var ErrBusy = errors.New("user request is already being processed")

// UserState состояние пользователя в диалоге с ботом
type UserState string

const (
	StateMainMenu          UserState = "main_menu"           // В главном меню
	StateAwaitingRoadPhoto UserState = "awaiting_road_photo" // Ожидание фото дорожного покрытия
	StateAwaitingUsageLog  UserState = "awaiting_usage_log"  // Ожидание CSV с журналом потребления
	StateProcessing        UserState = "processing"          // Идёт анализ
)

// User представляет пользователя бота
type User struct {
	ID       int64     // Telegram User ID
	ChatID   int64     // Telegram Chat ID
	State    UserState // Текущее состояние пользователя
	LastSeen time.Time // Время последнего изменения состояния
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:       userID,
		ChatID:   chatID,
		State:    StateMainMenu,
		LastSeen: time.Now(),
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
	u.LastSeen = time.Now()
}

// Busy сообщает, что по пользователю уже идёт анализ
func (u *User) Busy() bool {
	return u.State == StateProcessing
}
