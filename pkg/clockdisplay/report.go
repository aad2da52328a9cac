package clockdisplay

import "time"

// Report — итог одного внешнего цикла. Только примитивные поля: уходит в статус, лог и Beat.
type Report struct {
	CycleID         string       `json:"cycle_id"`
	Started         time.Time    `json:"started"`
	Server          string       `json:"server"`
	Synced          bool         `json:"synced"`
	UTC             int64        `json:"utc"`
	CorrectionHours int          `json:"correction_hours,omitempty"`
	ClockAction     string       `json:"clock_action,omitempty"`
	ClockOffsetMs   int64        `json:"clock_offset_ms,omitempty"`
	Zones           []ZoneReport `json:"zones"`
	Probe           *ProbeReport `json:"probe,omitempty"`
	DurationMs      int64        `json:"duration_ms"`
}

// ZoneReport — показанный кадр одной зоны.
type ZoneReport struct {
	Name string `json:"name"`
	Time string `json:"time,omitempty"`
	Date string `json:"date,omitempty"`
	Abbr string `json:"abbr,omitempty"`
	DST  bool   `json:"dst"`
}

// ProbeReport — результат пробы сети.
type ProbeReport struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	OK        bool   `json:"ok"`
	LatencyMs int64  `json:"latency_ms"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// Reporter получает Report после каждого цикла. Вызывается из цикла часов: не блокировать.
type Reporter interface {
	Report(r Report)
}

// ReporterFunc — адаптер функции к Reporter.
type ReporterFunc func(r Report)

// Report вызывает f(r).
func (f ReporterFunc) Report(r Report) {
	f(r)
}
