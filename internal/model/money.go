package model

import (
	"fmt"
	"math"
)

// RupeesToPaise округляет сумму до 2 знаков и переводит в пайсы
func RupeesToPaise(rupees float64) int64 {
	return int64(math.Round(rupees * 100))
}

// PaiseToRupees переводит пайсы в рупии
func PaiseToRupees(paise int64) float64 {
	return float64(paise) / 100
}

// FormatRupees форматирует сумму в пайсах как "₹1,234.50"
func FormatRupees(paise int64) string {
	return formatAmount(paise, "₹")
}

// FormatAmountASCII то же без символа рупии, для растровых шрифтов
func FormatAmountASCII(paise int64) string {
	return formatAmount(paise, "Rs. ")
}

func formatAmount(paise int64, symbol string) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	whole := paise / 100
	frac := paise % 100

	digits := fmt.Sprintf("%d", whole)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, d)
	}
	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, grouped, frac)
}
