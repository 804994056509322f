package model

import "time"

// SeatAvailability количество свободных мест по классам
type SeatAvailability map[FareClass]int

// Clone возвращает независимую копию
func (s SeatAvailability) Clone() SeatAvailability {
	out := make(SeatAvailability, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Journey конкретный рейс поезда на дату
type Journey struct {
	ID        int64            `json:"id"`
	TrainID   int64            `json:"train_id"`
	Date      time.Time        `json:"date"`
	Seats     SeatAvailability `json:"seats"`
	Version   int64            `json:"version"` // для compare-and-swap при изменении мест
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// JourneyDate обрезает время до календарной даты в UTC
func JourneyDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
