// Package display — цикл отображения городов: форматирование кадра и вывод на 7-сегментный и символьный дисплеи.
package display

import (
	"fmt"
	"strings"

	"github.com/shiwa/tc-clock/internal/civil"
	"github.com/shiwa/tc-clock/internal/tz"
)

var (
	months   = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
)

// UnsyncedLine — строка вместо даты, пока нет ответа NTP.
const UnsyncedLine = "Waiting for NTP"

// Frame — готовый к выводу кадр одной зоны.
type Frame struct {
	Zone      string      `json:"zone"`
	Synced    bool        `json:"synced"`
	Local     civil.Epoch `json:"local"`
	DSTActive bool        `json:"dst_active"`
	Abbr      string      `json:"abbr"`
	HHMM      int         `json:"hhmm"`
	Date      string      `json:"date"`
	DST       string      `json:"dst"`
	DayAbbr   string      `json:"day_abbr"`
}

// Render строит кадр зоны из одного UTC отсчёта. Для civil.Unsynced заполняется только имя города.
func Render(utc civil.Epoch, z tz.Zone) Frame {
	f := Frame{Zone: z.Name}
	if !utc.IsSynced() {
		return f
	}
	local, dst := tz.Localize(utc, z)
	c := civil.Decompose(local)
	f.Synced = true
	f.Local = local
	f.DSTActive = dst
	f.Abbr = z.Abbr(dst)
	f.HHMM = c.Hour*100 + c.Minute
	f.Date = fmt.Sprintf("%02d %s %04d", c.Day, months[c.Month-1], c.Year)
	if dst {
		f.DST = "DST: Active"
	} else {
		f.DST = "DST: Inactive"
	}
	f.DayAbbr = weekdays[c.Weekday] + " " + f.Abbr
	return f
}

// Clock возвращает время кадра как "HH:MM" (пусто без синхронизации).
func (f Frame) Clock() string {
	if !f.Synced {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", f.HHMM/100, f.HHMM%100)
}

// Lines раскладывает кадр на строки символьного дисплея шириной cols.
// Статус (задержка пробы) выравнивается вправо в первой строке.
func (f Frame) Lines(status string, cols int) []string {
	if !f.Synced {
		return []string{headerLine(f.Zone, status, cols), fit(UnsyncedLine, cols)}
	}
	return []string{
		headerLine(f.Zone, status, cols),
		fit(f.Date, cols),
		fit(f.DST, cols),
		fit(f.DayAbbr, cols),
	}
}

func headerLine(name, status string, cols int) string {
	if status == "" {
		return fit(name, cols)
	}
	room := cols - len(status) - 1
	if room < 1 {
		return fit(name, cols)
	}
	if len(name) > room {
		name = name[:room]
	}
	return name + strings.Repeat(" ", cols-len(name)-len(status)) + status
}

func fit(s string, cols int) string {
	if cols > 0 && len(s) > cols {
		return s[:cols]
	}
	return s
}
