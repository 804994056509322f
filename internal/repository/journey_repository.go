package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type JourneyRepository struct {
	*base.Repository
}

func NewJourneyRepository(pool *pgxpool.Pool) *JourneyRepository {
	return &JourneyRepository{Repository: base.NewRepository(pool)}
}

// Get получает рейс поезда на дату
func (r *JourneyRepository) Get(ctx context.Context, trainID int64, date time.Time) (*model.Journey, error) {
	query := `
		SELECT id, train_id, journey_date, seat_availability, version, created_at, updated_at
		FROM journeys
		WHERE train_id = $1 AND journey_date = $2
	`

	journey, err := scanJourney(r.QueryRow(ctx, query, trainID, model.JourneyDate(date)))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrJourneyNotFound
		}
		return nil, fmt.Errorf("get journey: %w", err)
	}

	return journey, nil
}

// Create создаёт рейс; если рейс уже создан параллельно, возвращает существующий
func (r *JourneyRepository) Create(ctx context.Context, journey *model.Journey) (*model.Journey, error) {
	seats, err := json.Marshal(journey.Seats)
	if err != nil {
		return nil, fmt.Errorf("marshal seats: %w", err)
	}

	query := `
		INSERT INTO journeys (train_id, journey_date, seat_availability)
		VALUES ($1, $2, $3)
		ON CONFLICT (train_id, journey_date) DO NOTHING
	`

	if _, err := r.ExecAffected(ctx, query, journey.TrainID, model.JourneyDate(journey.Date), seats); err != nil {
		return nil, fmt.Errorf("create journey: %w", err)
	}

	return r.Get(ctx, journey.TrainID, journey.Date)
}

// CompareAndSwapSeats записывает новые остатки мест, только если версия не изменилась.
// Возвращает false, если рейс был изменён другим запросом.
func (r *JourneyRepository) CompareAndSwapSeats(ctx context.Context, id int64, seats model.SeatAvailability, version int64) (bool, error) {
	payload, err := json.Marshal(seats)
	if err != nil {
		return false, fmt.Errorf("marshal seats: %w", err)
	}

	query := `
		UPDATE journeys
		SET seat_availability = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
	`

	affected, err := r.ExecAffected(ctx, query, payload, id, version)
	if err != nil {
		return false, fmt.Errorf("update seats: %w", err)
	}

	return affected == 1, nil
}

func scanJourney(row pgx.Row) (*model.Journey, error) {
	var j model.Journey
	var seats []byte
	if err := row.Scan(&j.ID, &j.TrainID, &j.Date, &seats, &j.Version, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, err
	}

	j.Seats = make(model.SeatAvailability)
	if err := json.Unmarshal(seats, &j.Seats); err != nil {
		return nil, fmt.Errorf("unmarshal seats: %w", err)
	}
	return &j, nil
}
