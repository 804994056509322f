package model

import (
	"fmt"
	"strings"
)

// FareClass код класса обслуживания (SL, 3A, 2A, 1A)
type FareClass string

const (
	ClassSL FareClass = "SL" // Sleeper
	Class3A FareClass = "3A" // AC 3 Tier
	Class2A FareClass = "2A" // AC 2 Tier
	Class1A FareClass = "1A" // AC First Class
)

// FareClasses все известные классы в порядке возрастания комфорта
var FareClasses = []FareClass{ClassSL, Class3A, Class2A, Class1A}

// ParseFareClass разбирает код класса без учёта регистра
func ParseFareClass(s string) (FareClass, error) {
	c := FareClass(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownClass, s)
	}
	return c, nil
}

// Valid проверяет что класс известен
func (c FareClass) Valid() bool {
	for _, known := range FareClasses {
		if c == known {
			return true
		}
	}
	return false
}

// SeatPrefix буква вагона, с которой начинается номер места
func (c FareClass) SeatPrefix() string {
	switch c {
	case Class1A:
		return "H"
	case Class2A:
		return "B"
	case Class3A:
		return "A"
	case ClassSL:
		return "S"
	default:
		return "G"
	}
}

// SeatNumber номер места для i-го пассажира (с нуля)
func (c FareClass) SeatNumber(i int) string {
	return fmt.Sprintf("%s%d", c.SeatPrefix(), i+1)
}
