// Package civil — UTC epoch в секундах и разложение на календарные поля (пролептический григорианский календарь, без leap seconds).
package civil

import "time"

// Epoch — секунды от 1970-01-01T00:00:00Z.
type Epoch int64

// Unsynced — зарезервированное значение «синхронизация не удалась».
// Потребители не рисуют его как 1970-01-01.
const Unsynced Epoch = 0

const (
	SecondsPerMinute = 60
	SecondsPerHour   = 60 * SecondsPerMinute
	SecondsPerDay    = 24 * SecondsPerHour
)

// Components — поля локального времени, полученные разложением Epoch.
type Components struct {
	Year    int
	Month   int // 1-12
	Day     int // 1-31
	Hour    int // 0-23
	Minute  int // 0-59
	Second  int // 0-59
	Weekday int // 0 = воскресенье
}

// FromTime переводит time.Time в Epoch (дробные секунды отбрасываются).
func FromTime(t time.Time) Epoch {
	return Epoch(t.Unix())
}

// Time возвращает момент в UTC.
func (e Epoch) Time() time.Time {
	return time.Unix(int64(e), 0).UTC()
}

// IsSynced — false только для сентинела Unsynced.
func (e Epoch) IsSynced() bool {
	return e != Unsynced
}

// AddHours сдвигает epoch на целое число часов (64-битная арифметика).
func (e Epoch) AddHours(h int) Epoch {
	return e + Epoch(int64(h)*SecondsPerHour)
}

// Decompose раскладывает epoch на календарные поля.
func Decompose(e Epoch) Components {
	t := e.Time()
	return Components{
		Year:    t.Year(),
		Month:   int(t.Month()),
		Day:     t.Day(),
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Second:  t.Second(),
		Weekday: int(t.Weekday()),
	}
}

// Compose — обратная операция к Decompose; Weekday игнорируется.
func Compose(c Components) Epoch {
	return FromTime(time.Date(c.Year, time.Month(c.Month), c.Day, c.Hour, c.Minute, c.Second, 0, time.UTC))
}

// DaysIn возвращает число дней в месяце.
func DaysIn(year, month int) int {
	// день 0 следующего месяца = последний день текущего
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeekdayOf возвращает день недели даты (0 = воскресенье).
func WeekdayOf(year, month, day int) int {
	return int(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday())
}
