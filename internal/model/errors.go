package model

import "errors"

var (
	ErrTrainNotFound   = errors.New("train not found")
	ErrJourneyNotFound = errors.New("journey not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")
)

var (
	ErrValidation        = errors.New("validation error")
	ErrUnknownClass      = errors.New("unknown fare class")
	ErrInsufficientSeats = errors.New("insufficient seats")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrFareMismatch      = errors.New("total amount does not match fare")
	ErrForbidden         = errors.New("operation not permitted")
)

var (
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrPaymentGateway   = errors.New("payment gateway error")
	ErrConcurrentUpdate = errors.New("concurrent update, retries exhausted")
)

// ErrNotificationSkipped канал уведомлений отключён или у пользователя нет адреса
var ErrNotificationSkipped = errors.New("notification skipped")
