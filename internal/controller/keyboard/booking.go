package keyboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"github.com/go-telegram/bot/models"
)

// Форматы callback data
const (
	CancelBooking = "cancel_booking:" // cancel_booking:booking_id
	ConfirmCancel = "confirm_cancel:" // confirm_cancel:booking_id
	KeepBooking   = "keep_booking:"   // keep_booking:booking_id
	ShowTicket    = "ticket:"         // ticket:PNR
)

// BookingActions кнопки под карточкой бронирования, nil если действий нет
func BookingActions(booking *model.Booking) *models.InlineKeyboardMarkup {
	if booking == nil {
		return nil
	}

	switch booking.Status {
	case model.BookingStatusWaiting:
		return NewBuilder().
			Row(Button("❌ Cancel booking", CancelBooking+strconv.FormatInt(booking.ID, 10))).
			Build()
	case model.BookingStatusConfirmed:
		return NewBuilder().
			Row(Button("🎫 Ticket", ShowTicket+booking.PNR)).
			Build()
	default:
		return nil
	}
}

// ConfirmCancelKeyboard подтверждение отмены
func ConfirmCancelKeyboard(bookingID int64) *models.InlineKeyboardMarkup {
	id := strconv.FormatInt(bookingID, 10)
	return NewBuilder().
		Row(
			Button("✅ Yes, cancel", ConfirmCancel+id),
			Button("↩️ Keep it", KeepBooking+id),
		).
		Build()
}

// ParseID извлекает ID из callback data
// Например: "cancel_booking:123" -> 123
func ParseID(data string) (int64, error) {
	_, raw, ok := strings.Cut(data, ":")
	if !ok {
		return 0, fmt.Errorf("invalid callback data format: %q", data)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid callback id: %q", data)
	}
	return id, nil
}

// ParseValue значение после префикса
func ParseValue(data, prefix string) (string, bool) {
	value, ok := strings.CutPrefix(data, prefix)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
