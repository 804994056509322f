package formatting

import (
	"errors"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
)

// ErrorText текст ошибки для пользователя. internal=true для неожиданных ошибок.
func ErrorText(err error) (text string, internal bool) {
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrUnknownClass):
		return "❌ " + err.Error(), false
	case errors.Is(err, model.ErrTrainNotFound):
		return "🔍 Train not found or it does not run between these stations.", false
	case errors.Is(err, model.ErrUserNotFound):
		return "❌ You are not registered yet. Send /start first.", false
	case errors.Is(err, model.ErrBookingNotFound):
		return "🔍 Booking not found.", false
	case errors.Is(err, model.ErrJourneyNotFound):
		return "🔍 Journey not found.", false
	case errors.Is(err, model.ErrInsufficientSeats):
		return "😔 Not enough seats left in this class.", false
	case errors.Is(err, model.ErrInvalidTransition):
		return "⚠️ " + err.Error(), false
	case errors.Is(err, model.ErrFareMismatch):
		return "💸 The total does not match the fare. Check it with /fare.", false
	case errors.Is(err, model.ErrInvalidSignature):
		return "🔐 Payment could not be verified.", false
	case errors.Is(err, model.ErrForbidden):
		return "⛔ You cannot access this booking.", false
	case errors.Is(err, model.ErrPaymentGateway):
		return "💳 Payment service is unavailable, please try again later.", true
	case errors.Is(err, model.ErrConcurrentUpdate):
		return "⏳ Too many requests for this train right now, please retry.", true
	default:
		return "❌ Something went wrong. Please try again later.", true
	}
}
