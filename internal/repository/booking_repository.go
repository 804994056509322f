package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

const bookingColumns = `id, pnr, user_id, train_id, journey_date, from_station, to_station,
		class, status, total_amount, order_id, created_at, updated_at`

// CreateWithPassengers создаёт бронирование вместе с пассажирами в одной транзакции
func (r *BookingRepository) CreateWithPassengers(ctx context.Context, booking *model.Booking) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO bookings (pnr, user_id, train_id, journey_date, from_station, to_station,
			                      class, status, total_amount, order_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, created_at, updated_at
		`

		err := tx.QueryRow(
			ctx, query,
			booking.PNR,
			booking.UserID,
			booking.TrainID,
			model.JourneyDate(booking.JourneyDate),
			booking.FromStation,
			booking.ToStation,
			booking.Class,
			booking.Status,
			booking.TotalAmount,
			booking.OrderID,
		).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
		if err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		passengerQuery := `
			INSERT INTO passengers (booking_id, name, age, gender, coach_type, seat_number)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		for _, p := range booking.Passengers {
			p.BookingID = booking.ID
			err := tx.QueryRow(ctx, passengerQuery, p.BookingID, p.Name, p.Age, p.Gender, p.CoachType, p.SeatNumber).
				Scan(&p.ID)
			if err != nil {
				return fmt.Errorf("create passenger: %w", err)
			}
		}

		return nil
	})
}

// GetByID получает бронирование по ID вместе с пассажирами
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.getWithPassengers(ctx, query, id)
}

// GetByPNR получает бронирование по PNR вместе с пассажирами
func (r *BookingRepository) GetByPNR(ctx context.Context, pnr string) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE pnr = $1`
	return r.getWithPassengers(ctx, query, pnr)
}

// ListByUser получает все бронирования пользователя (без пассажиров)
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by user: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// SetOrderID сохраняет id заказа платёжного шлюза
func (r *BookingRepository) SetOrderID(ctx context.Context, id int64, orderID string) error {
	query := `UPDATE bookings SET order_id = $1, updated_at = NOW() WHERE id = $2`

	affected, err := r.ExecAffected(ctx, query, orderID, id)
	if err != nil {
		return fmt.Errorf("set order id: %w", err)
	}
	if affected == 0 {
		return model.ErrBookingNotFound
	}
	return nil
}

// TransitionStatus меняет статус, только если текущий равен from.
// Возвращает false, если статус уже другой.
func (r *BookingRepository) TransitionStatus(ctx context.Context, id int64, from, to model.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	affected, err := r.ExecAffected(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}
	return affected == 1, nil
}

// CancelWaitingBefore отменяет неоплаченные бронирования, созданные раньше cutoff
func (r *BookingRepository) CancelWaitingBefore(ctx context.Context, cutoff time.Time) ([]*model.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND created_at < $3
		RETURNING ` + bookingColumns

	rows, err := r.Query(ctx, query, model.BookingStatusCancelled, model.BookingStatusWaiting, cutoff)
	if err != nil {
		return nil, fmt.Errorf("cancel waiting bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *BookingRepository) getWithPassengers(ctx context.Context, query string, arg interface{}) (*model.Booking, error) {
	booking, err := scanBooking(r.QueryRow(ctx, query, arg))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}

	passengers, err := r.getPassengers(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	booking.Passengers = passengers

	return booking, nil
}

func (r *BookingRepository) getPassengers(ctx context.Context, bookingID int64) ([]*model.Passenger, error) {
	query := `
		SELECT id, booking_id, name, age, gender, coach_type, seat_number
		FROM passengers
		WHERE booking_id = $1
		ORDER BY id
	`

	rows, err := r.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get passengers: %w", err)
	}
	defer rows.Close()

	var passengers []*model.Passenger
	for rows.Next() {
		var p model.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Name, &p.Age, &p.Gender, &p.CoachType, &p.SeatNumber); err != nil {
			return nil, fmt.Errorf("scan passenger: %w", err)
		}
		passengers = append(passengers, &p)
	}

	return passengers, rows.Err()
}

func collectBookings(rows pgx.Rows) ([]*model.Booking, error) {
	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	var status string
	err := row.Scan(
		&b.ID,
		&b.PNR,
		&b.UserID,
		&b.TrainID,
		&b.JourneyDate,
		&b.FromStation,
		&b.ToStation,
		&b.Class,
		&status,
		&b.TotalAmount,
		&b.OrderID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if b.Status, err = model.ParseBookingStatus(status); err != nil {
		return nil, err
	}
	return &b, nil
}
