package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
	NotificationStatusSkipped NotificationStatus = "skipped"
)

// Notification запись о попытке уведомить пользователя
type Notification struct {
	ID        uuid.UUID          `json:"id"`
	BookingID int64              `json:"booking_id"`
	UserID    int64              `json:"user_id"`
	Channel   string             `json:"channel"`
	Status    NotificationStatus `json:"status"`
	Message   string             `json:"message"`
	CreatedAt time.Time          `json:"created_at"`
}
