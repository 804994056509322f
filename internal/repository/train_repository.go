package repository

import (
	"context"
	"fmt"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TrainRepository struct {
	*base.Repository
}

func NewTrainRepository(pool *pgxpool.Pool) *TrainRepository {
	return &TrainRepository{Repository: base.NewRepository(pool)}
}

// GetByID получает поезд по ID
func (r *TrainRepository) GetByID(ctx context.Context, id int64) (*model.Train, error) {
	query := `
		SELECT id, number, name, classes, created_at
		FROM trains
		WHERE id = $1
	`

	train, err := scanTrain(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrTrainNotFound
		}
		return nil, fmt.Errorf("get train by id: %w", err)
	}

	return train, nil
}

// List получает все поезда
func (r *TrainRepository) List(ctx context.Context) ([]*model.Train, error) {
	query := `
		SELECT id, number, name, classes, created_at
		FROM trains
		ORDER BY number
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list trains: %w", err)
	}
	defer rows.Close()

	var trains []*model.Train
	for rows.Next() {
		train, err := scanTrain(rows)
		if err != nil {
			return nil, fmt.Errorf("scan train: %w", err)
		}
		trains = append(trains, train)
	}

	return trains, rows.Err()
}

// Search ищет поезда, которые проходят через from раньше чем через to
func (r *TrainRepository) Search(ctx context.Context, from, to string) ([]*model.TrainRoute, error) {
	query := `
		SELECT t.id, t.number, t.name, t.classes, t.created_at,
		       f.station_code, f.stop_order, f.distance_km, f.arrival, f.departure,
		       d.station_code, d.stop_order, d.distance_km, d.arrival, d.departure
		FROM trains t
		JOIN train_stops f ON f.train_id = t.id AND f.station_code = $1
		JOIN train_stops d ON d.train_id = t.id AND d.station_code = $2
		WHERE f.stop_order < d.stop_order
		ORDER BY f.departure, t.number
	`

	rows, err := r.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("search trains: %w", err)
	}
	defer rows.Close()

	var routes []*model.TrainRoute
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		routes = append(routes, route)
	}

	return routes, rows.Err()
}

// GetRoute получает участок маршрута поезда между двумя станциями
func (r *TrainRepository) GetRoute(ctx context.Context, trainID int64, from, to string) (*model.TrainRoute, error) {
	query := `
		SELECT t.id, t.number, t.name, t.classes, t.created_at,
		       f.station_code, f.stop_order, f.distance_km, f.arrival, f.departure,
		       d.station_code, d.stop_order, d.distance_km, d.arrival, d.departure
		FROM trains t
		JOIN train_stops f ON f.train_id = t.id AND f.station_code = $2
		JOIN train_stops d ON d.train_id = t.id AND d.station_code = $3
		WHERE t.id = $1 AND f.stop_order < d.stop_order
	`

	route, err := scanRoute(r.QueryRow(ctx, query, trainID, from, to))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrTrainNotFound
		}
		return nil, fmt.Errorf("get route: %w", err)
	}

	return route, nil
}

// GetStops получает все остановки поезда по порядку
func (r *TrainRepository) GetStops(ctx context.Context, trainID int64) ([]model.TrainStop, error) {
	query := `
		SELECT train_id, station_code, stop_order, distance_km, arrival, departure
		FROM train_stops
		WHERE train_id = $1
		ORDER BY stop_order
	`

	rows, err := r.Query(ctx, query, trainID)
	if err != nil {
		return nil, fmt.Errorf("get stops: %w", err)
	}
	defer rows.Close()

	var stops []model.TrainStop
	for rows.Next() {
		var s model.TrainStop
		if err := rows.Scan(&s.TrainID, &s.StationCode, &s.StopOrder, &s.DistanceKm, &s.Arrival, &s.Departure); err != nil {
			return nil, fmt.Errorf("scan stop: %w", err)
		}
		stops = append(stops, s)
	}

	return stops, rows.Err()
}

func scanTrain(row pgx.Row) (*model.Train, error) {
	var train model.Train
	var classes []string
	if err := row.Scan(&train.ID, &train.Number, &train.Name, &classes, &train.CreatedAt); err != nil {
		return nil, err
	}
	train.Classes = toFareClasses(classes)
	return &train, nil
}

func scanRoute(row pgx.Row) (*model.TrainRoute, error) {
	var train model.Train
	var classes []string
	route := &model.TrainRoute{Train: &train}

	err := row.Scan(
		&train.ID, &train.Number, &train.Name, &classes, &train.CreatedAt,
		&route.From.StationCode, &route.From.StopOrder, &route.From.DistanceKm, &route.From.Arrival, &route.From.Departure,
		&route.To.StationCode, &route.To.StopOrder, &route.To.DistanceKm, &route.To.Arrival, &route.To.Departure,
	)
	if err != nil {
		return nil, err
	}

	train.Classes = toFareClasses(classes)
	route.From.TrainID = train.ID
	route.To.TrainID = train.ID
	return route, nil
}

func toFareClasses(codes []string) []model.FareClass {
	classes := make([]model.FareClass, 0, len(codes))
	for _, code := range codes {
		classes = append(classes, model.FareClass(code))
	}
	return classes
}
