package model

import "time"

type User struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
}

// Session контекст вызывающего, передаётся в сервисы явно
type Session struct {
	UserID     int64
	TelegramID int64
	IsAdmin    bool
}

// SessionFor строит сессию для пользователя
func SessionFor(u *User) Session {
	return Session{UserID: u.ID, TelegramID: u.TelegramID, IsAdmin: u.IsAdmin}
}
