package repository

import (
	"context"
	"fmt"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/fare"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FareRepository struct {
	*base.Repository
}

func NewFareRepository(pool *pgxpool.Pool) *FareRepository {
	return &FareRepository{Repository: base.NewRepository(pool)}
}

// LoadTable читает все записи тарифов в таблицу
func (r *FareRepository) LoadTable(ctx context.Context) (*fare.Table, error) {
	query := `SELECT class, distance_km, price FROM fare_entries ORDER BY class, distance_km`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load fares: %w", err)
	}
	defer rows.Close()

	table := fare.NewTable()
	for rows.Next() {
		var class string
		var km, price float64
		if err := rows.Scan(&class, &km, &price); err != nil {
			return nil, fmt.Errorf("scan fare: %w", err)
		}
		if err := table.Set(model.FareClass(class), km, price); err != nil {
			return nil, fmt.Errorf("fare %s/%v: %w", class, km, err)
		}
	}

	return table, rows.Err()
}

// Upsert добавляет или заменяет цену
func (r *FareRepository) Upsert(ctx context.Context, class model.FareClass, distanceKm, price float64) error {
	query := `
		INSERT INTO fare_entries (class, distance_km, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (class, distance_km) DO UPDATE SET price = EXCLUDED.price, updated_at = NOW()
	`

	if _, err := r.ExecAffected(ctx, query, class, distanceKm, price); err != nil {
		return fmt.Errorf("upsert fare: %w", err)
	}
	return nil
}
