package formatting

import (
	"fmt"
	"math"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
)

// FormatPrice форматирует сумму в пайсах
func FormatPrice(paise int64) string {
	return model.FormatRupees(paise)
}

// FormatFare форматирует цену тарифа в рупиях
func FormatFare(rupees float64) string {
	return model.FormatRupees(model.RupeesToPaise(rupees))
}

// FormatPercent 0.05 -> "5%"
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%g%%", math.Round(fraction*10000)/100)
}
