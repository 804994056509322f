package formatting

import "time"

// DateLayout формат даты в командах бота
const DateLayout = time.DateOnly

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("02 Jan 2006 15:04")
}

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateWithWeekday форматирует дату с днём недели
func FormatDateWithWeekday(t time.Time) string {
	return t.Format("Mon, 02 Jan 2006")
}
