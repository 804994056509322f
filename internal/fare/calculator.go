package fare

import (
	"fmt"
	"math"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
)

// Tier ступень скидки за расстояние: от MinKm включительно
type Tier struct {
	MinKm    float64
	Discount float64 // доля, 0.05 = 5%
}

// Calculator считает стоимость билета по таблице цен
type Calculator struct {
	Table *Table

	// Для классов без записей в таблице
	FlatRatePerKm   float64
	ClassMultiplier map[model.FareClass]float64

	// Для расширенного расчёта (Quote)
	DistanceTiers []Tier // по возрастанию MinKm
	ClassPremium  map[model.FareClass]float64
}

// NewCalculator создаёт калькулятор со стандартными коэффициентами
func NewCalculator(table *Table) *Calculator {
	if table == nil {
		table = NewTable()
	}
	return &Calculator{
		Table:         table,
		FlatRatePerKm: 1.0,
		ClassMultiplier: map[model.FareClass]float64{
			model.ClassSL: 1.0,
			model.Class3A: 2.5,
			model.Class2A: 3.5,
			model.Class1A: 6.0,
		},
		DistanceTiers: []Tier{
			{MinKm: 0, Discount: 0},
			{MinKm: 500, Discount: 0.05},
			{MinKm: 1000, Discount: 0.10},
			{MinKm: 2000, Discount: 0.15},
		},
		ClassPremium: map[model.FareClass]float64{
			model.ClassSL: 0,
			model.Class3A: 0.05,
			model.Class2A: 0.10,
			model.Class1A: 0.20,
		},
	}
}

// PriceFor базовая цена билета для класса и расстояния.
// Точная запись, иначе линейная интерполяция между соседями, иначе
// пропорциональная экстраполяция от единственного соседа, иначе тариф за км.
func (c *Calculator) PriceFor(class model.FareClass, distanceKm float64) (float64, error) {
	if !class.Valid() {
		return 0, fmt.Errorf("%w: %q", model.ErrUnknownClass, class)
	}
	if distanceKm <= 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return 0, fmt.Errorf("%w: distance must be positive", model.ErrValidation)
	}

	exact, lower, upper := c.Table.neighbours(class, distanceKm)
	switch {
	case exact != nil:
		return exact.Price, nil
	case lower != nil && upper != nil:
		ratio := (distanceKm - lower.DistanceKm) / (upper.DistanceKm - lower.DistanceKm)
		return round2(lower.Price + ratio*(upper.Price-lower.Price)), nil
	case lower != nil:
		return round2(lower.Price * distanceKm / lower.DistanceKm), nil
	case upper != nil:
		return round2(upper.Price * distanceKm / upper.DistanceKm), nil
	}

	multiplier, ok := c.ClassMultiplier[class]
	if !ok {
		multiplier = 1
	}
	return round2(c.FlatRatePerKm * distanceKm * multiplier), nil
}

// Quote расширенный расчёт с разбивкой по составляющим
type Quote struct {
	Class          model.FareClass `json:"class"`
	DistanceKm     float64         `json:"distance_km"`
	Base           float64         `json:"base"`
	Discount       float64         `json:"discount"`
	Bucket         Bucket          `json:"bucket"`
	TimeMultiplier float64         `json:"time_multiplier"`
	Premium        float64         `json:"premium"`
	Total          float64         `json:"total"` // кратно 5
}

// Quote цена с учётом скидки за расстояние, времени отправления и надбавки класса
func (c *Calculator) Quote(class model.FareClass, distanceKm float64, at time.Time) (Quote, error) {
	base, err := c.PriceFor(class, distanceKm)
	if err != nil {
		return Quote{}, err
	}

	bucket, timeMult := TimeMultiplier(at)
	q := Quote{
		Class:          class,
		DistanceKm:     distanceKm,
		Base:           base,
		Discount:       c.discountFor(distanceKm),
		Bucket:         bucket,
		TimeMultiplier: timeMult,
		Premium:        c.ClassPremium[class],
	}
	q.Total = roundTo5(base * (1 - q.Discount) * q.TimeMultiplier * (1 + q.Premium))
	return q, nil
}

// discountFor ищет ступень скидки снизу (floor)
func (c *Calculator) discountFor(distanceKm float64) float64 {
	discount := 0.0
	for _, tier := range c.DistanceTiers {
		if distanceKm < tier.MinKm {
			break
		}
		discount = tier.Discount
	}
	return discount
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundTo5(v float64) float64 {
	return math.Round(v/5) * 5
}
