package fare

import (
	"fmt"
	"sort"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
)

// Entry известная цена билета на расстояние
type Entry struct {
	DistanceKm float64 `json:"distance_km"`
	Price      float64 `json:"price"` // в рупиях
}

// Table таблица известных цен: по каждому классу отсортированный список расстояний.
// Не потокобезопасна, синхронизацию обеспечивает владелец.
type Table struct {
	entries map[model.FareClass][]Entry
}

// NewTable создаёт пустую таблицу
func NewTable() *Table {
	return &Table{entries: make(map[model.FareClass][]Entry)}
}

// Set добавляет или заменяет цену для расстояния
func (t *Table) Set(class model.FareClass, distanceKm, price float64) error {
	if !class.Valid() {
		return fmt.Errorf("%w: %q", model.ErrUnknownClass, class)
	}
	if distanceKm <= 0 {
		return fmt.Errorf("%w: distance must be positive", model.ErrValidation)
	}
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", model.ErrValidation)
	}

	list := t.entries[class]
	i := sort.Search(len(list), func(i int) bool { return list[i].DistanceKm >= distanceKm })
	if i < len(list) && list[i].DistanceKm == distanceKm {
		list[i].Price = price
		return nil
	}

	list = append(list, Entry{})
	copy(list[i+1:], list[i:])
	list[i] = Entry{DistanceKm: distanceKm, Price: price}
	t.entries[class] = list
	return nil
}

// Entries возвращает копию записей класса в порядке возрастания расстояния
func (t *Table) Entries(class model.FareClass) []Entry {
	list := t.entries[class]
	out := make([]Entry, len(list))
	copy(out, list)
	return out
}

// Len количество записей класса
func (t *Table) Len(class model.FareClass) int {
	return len(t.entries[class])
}

// Clone возвращает глубокую копию таблицы
func (t *Table) Clone() *Table {
	out := NewTable()
	for class, list := range t.entries {
		cp := make([]Entry, len(list))
		copy(cp, list)
		out.entries[class] = cp
	}
	return out
}

// neighbours находит точное совпадение или ближайшие записи снизу и сверху
func (t *Table) neighbours(class model.FareClass, distanceKm float64) (exact, lower, upper *Entry) {
	list := t.entries[class]
	i := sort.Search(len(list), func(i int) bool { return list[i].DistanceKm >= distanceKm })

	if i < len(list) && list[i].DistanceKm == distanceKm {
		return &list[i], nil, nil
	}
	if i > 0 {
		lower = &list[i-1]
	}
	if i < len(list) {
		upper = &list[i]
	}
	return nil, lower, upper
}

// SampleTable таблица с примерными ценами, совпадает с сидами миграций
func SampleTable() *Table {
	t := NewTable()
	seed := map[model.FareClass][]Entry{
		model.ClassSL: {{50, 90}, {100, 150}, {500, 550}, {1000, 900}, {2000, 1500}},
		model.Class3A: {{100, 450}, {500, 1200}, {1000, 2000}, {2000, 3300}},
		model.Class2A: {{100, 700}, {500, 1700}, {1000, 2800}, {2000, 4600}},
		model.Class1A: {{100, 1200}, {500, 2900}, {1000, 4700}, {2000, 7800}},
	}
	for class, list := range seed {
		for _, e := range list {
			// значения сидов заведомо корректны
			_ = t.Set(class, e.DistanceKm, e.Price)
		}
	}
	return t
}
