package repository

import (
	"context"
	"fmt"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	*base.Repository
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{Repository: base.NewRepository(pool)}
}

// Create сохраняет запись об оплате
func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	query := `
		INSERT INTO payments (booking_id, transaction_id, order_id, amount, currency, status, method, provider, failure_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		p.BookingID,
		p.TransactionID,
		p.OrderID,
		p.Amount,
		p.Currency,
		p.Status,
		p.Method,
		p.Provider,
		p.FailureReason,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}

	return nil
}

// GetLatestByBookingID получает последнюю запись об оплате бронирования
func (r *PaymentRepository) GetLatestByBookingID(ctx context.Context, bookingID int64) (*model.Payment, error) {
	query := `
		SELECT id, booking_id, transaction_id, order_id, amount, currency, status, method, provider, failure_reason, created_at
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var p model.Payment
	err := r.QueryRow(ctx, query, bookingID).Scan(
		&p.ID,
		&p.BookingID,
		&p.TransactionID,
		&p.OrderID,
		&p.Amount,
		&p.Currency,
		&p.Status,
		&p.Method,
		&p.Provider,
		&p.FailureReason,
		&p.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment by booking: %w", err)
	}

	return &p, nil
}
