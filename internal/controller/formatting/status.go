package formatting

import "github.com/Kavy522/TrainTicketBooking-sub002/internal/model"

// BookingStatusDisplay представляет отображение статуса бронирования
type BookingStatusDisplay struct {
	Emoji string
	Text  string
}

// GetBookingStatusDisplay возвращает emoji и текст для статуса бронирования
func GetBookingStatusDisplay(status model.BookingStatus) BookingStatusDisplay {
	displays := map[model.BookingStatus]BookingStatusDisplay{
		model.BookingStatusWaiting:   {"⏳", "Awaiting payment"},
		model.BookingStatusConfirmed: {"✅", "Confirmed"},
		model.BookingStatusCancelled: {"❌", "Cancelled"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return BookingStatusDisplay{"❓", "Unknown"}
}
