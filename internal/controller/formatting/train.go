package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/fare"
	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
)

// FormatRoutes список поездов между станциями
func FormatRoutes(from, to string, routes []*model.TrainRoute) string {
	if len(routes) == 0 {
		return fmt.Sprintf("🚫 No trains from %s to %s.", from, to)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🚆 Trains %s → %s\n", from, to)
	for _, r := range routes {
		fmt.Fprintf(&sb, "\n#%d  %s %s\n", r.Train.ID, r.Train.Number, r.Train.Name)
		fmt.Fprintf(&sb, "   dep %s, arr %s, %.0f km\n", orDash(r.From.Departure), orDash(r.To.Arrival), r.DistanceKm())
		fmt.Fprintf(&sb, "   classes: %s\n", joinClasses(r.Train.Classes))
	}
	return sb.String()
}

// FormatAvailability остатки мест по классам
func FormatAvailability(trainID int64, date time.Time, seats model.SeatAvailability) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💺 Train #%d on %s\n", trainID, FormatDateWithWeekday(date))
	for _, class := range model.FareClasses {
		count, ok := seats[class]
		if !ok {
			continue
		}
		marker := "🟢"
		if count == 0 {
			marker = "🔴"
		}
		fmt.Fprintf(&sb, "%s %s: %d\n", marker, class, count)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatQuote базовая цена и расширенный расчёт
func FormatQuote(q fare.Quote) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🎫 %s, %.0f km\n", q.Class, q.DistanceKm)
	fmt.Fprintf(&sb, "Base fare: %s\n", FormatFare(q.Base))
	if q.Discount > 0 {
		fmt.Fprintf(&sb, "Distance discount: %s\n", FormatPercent(q.Discount))
	}
	fmt.Fprintf(&sb, "Time of travel: %s ×%.2f\n", q.Bucket, q.TimeMultiplier)
	if q.Premium > 0 {
		fmt.Fprintf(&sb, "Class premium: %s\n", FormatPercent(q.Premium))
	}
	fmt.Fprintf(&sb, "Total per passenger: %s", FormatFare(q.Total))
	return sb.String()
}

func joinClasses(classes []model.FareClass) string {
	parts := make([]string, len(classes))
	for i, c := range classes {
		parts[i] = string(c)
	}
	return strings.Join(parts, " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
