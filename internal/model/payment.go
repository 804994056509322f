package model

import "time"

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment запись об оплате для аудита
type Payment struct {
	ID            int64         `json:"id"`
	BookingID     int64         `json:"booking_id"`
	TransactionID string        `json:"transaction_id"` // payment id шлюза
	OrderID       string        `json:"order_id"`
	Amount        int64         `json:"amount"` // копируется из бронирования, в пайсах
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	Method        string        `json:"method"`
	Provider      string        `json:"provider"`
	FailureReason string        `json:"failure_reason,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// PaymentOrder заказ, созданный в платёжном шлюзе
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // в пайсах
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}
