package formatting

import (
	"fmt"
	"strings"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
)

// FormatBooking форматирует бронирование для отображения
func FormatBooking(booking *model.Booking) string {
	display := GetBookingStatusDisplay(booking.Status)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s PNR %s (#%d)\n", display.Emoji, booking.PNR, booking.ID)
	fmt.Fprintf(&sb, "🚆 Train #%d, %s → %s\n", booking.TrainID, booking.FromStation, booking.ToStation)
	fmt.Fprintf(&sb, "📅 %s, class %s\n", FormatDateWithWeekday(booking.JourneyDate), booking.Class)
	for _, p := range booking.Passengers {
		fmt.Fprintf(&sb, "👤 %s (%d, %s) seat %s\n", p.Name, p.Age, p.Gender, p.SeatNumber)
	}
	fmt.Fprintf(&sb, "💰 %s\n", FormatPrice(booking.TotalAmount))
	fmt.Fprintf(&sb, "📊 Status: %s", display.Text)
	return sb.String()
}

// FormatBookingShort одна строка для списка
func FormatBookingShort(booking *model.Booking) string {
	display := GetBookingStatusDisplay(booking.Status)
	return fmt.Sprintf("%s %s  #%d  %s→%s  %s  %s  %s",
		display.Emoji,
		booking.PNR,
		booking.ID,
		booking.FromStation,
		booking.ToStation,
		FormatDate(booking.JourneyDate),
		booking.Class,
		FormatPrice(booking.TotalAmount),
	)
}
