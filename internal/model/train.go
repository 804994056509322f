package model

import "time"

type Train struct {
	ID        int64       `json:"id"`
	Number    string      `json:"number"` // номер поезда, например "12951"
	Name      string      `json:"name"`
	Classes   []FareClass `json:"classes"`
	CreatedAt time.Time   `json:"created_at"`
}

type Station struct {
	Code string `json:"code"` // код станции, например "NDLS"
	Name string `json:"name"`
}

// TrainStop остановка поезда на маршруте
type TrainStop struct {
	TrainID     int64   `json:"train_id"`
	StationCode string  `json:"station_code"`
	StopOrder   int     `json:"stop_order"`
	DistanceKm  float64 `json:"distance_km"` // накопленное расстояние от начальной станции
	Arrival     string  `json:"arrival"`     // "HH:MM", пусто для начальной станции
	Departure   string  `json:"departure"`   // "HH:MM", пусто для конечной станции
}

// TrainRoute поезд, проходящий через пару станций
type TrainRoute struct {
	Train *Train    `json:"train"`
	From  TrainStop `json:"from"`
	To    TrainStop `json:"to"`
}

// DistanceKm расстояние между станциями отправления и прибытия
func (r *TrainRoute) DistanceKm() float64 {
	return r.To.DistanceKm - r.From.DistanceKm
}

// HasClass проверяет что в поезде есть вагоны указанного класса
func (t *Train) HasClass(class FareClass) bool {
	for _, c := range t.Classes {
		if c == class {
			return true
		}
	}
	return false
}
