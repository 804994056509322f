package model

import (
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusWaiting   BookingStatus = "waiting"   // Ожидает оплаты
	BookingStatusConfirmed BookingStatus = "confirmed" // Оплачено и подтверждено
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено (оплата не прошла или истекла)
)

// legacyConfirmed написание, встречающееся в старых записях
const legacyConfirmed = "conformed"

// ParseBookingStatus разбирает статус из БД, включая устаревшее написание
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(BookingStatusWaiting):
		return BookingStatusWaiting, nil
	case string(BookingStatusConfirmed), legacyConfirmed:
		return BookingStatusConfirmed, nil
	case string(BookingStatusCancelled), "canceled":
		return BookingStatusCancelled, nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

// IsTerminal confirmed и cancelled не имеют переходов
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCancelled
}

// CanTransitionTo проверяет допустимость перехода
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return s == BookingStatusWaiting &&
		(next == BookingStatusConfirmed || next == BookingStatusCancelled)
}

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "T"
)

// ParseGender разбирает код пола пассажира
func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToUpper(strings.TrimSpace(s)))
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	}
	return "", fmt.Errorf("%w: unknown gender %q", ErrValidation, s)
}

type Booking struct {
	ID          int64         `json:"id"`
	PNR         string        `json:"pnr"`
	UserID      int64         `json:"user_id"`
	TrainID     int64         `json:"train_id"`
	JourneyDate time.Time     `json:"journey_date"`
	FromStation string        `json:"from_station"`
	ToStation   string        `json:"to_station"`
	Class       FareClass     `json:"class"`
	Status      BookingStatus `json:"status"`
	TotalAmount int64         `json:"total_amount"` // в пайсах
	OrderID     string        `json:"order_id"`     // id заказа в платёжном шлюзе, пусто если не создан
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Дополнительные поля для удобства (не из таблицы bookings)
	Passengers []*Passenger `json:"passengers,omitempty"`
	Train      *Train       `json:"train,omitempty"`
}

type Passenger struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"booking_id"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Gender     Gender    `json:"gender"`
	CoachType  FareClass `json:"coach_type"`
	SeatNumber string    `json:"seat_number"`
}
