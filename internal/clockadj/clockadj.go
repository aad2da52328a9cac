// Package clockadj — подстройка системных часов по NTP отсчёту (опционально, adjust_clock).
package clockadj

import (
	"time"

	"github.com/shiwa/tc-clock/internal/civil"
)

// Action — что сделано с системными часами.
type Action int

const (
	None Action = iota
	Slewed
	Stepped
)

func (a Action) String() string {
	switch a {
	case Slewed:
		return "slew"
	case Stepped:
		return "step"
	default:
		return "none"
	}
}

// Offset — расхождение NTP отсчёта (секундная точность) и локальных часов.
// Положительное значение — локальные часы отстают.
func Offset(ref civil.Epoch, local time.Time) time.Duration {
	return ref.Time().Sub(local.Truncate(time.Second))
}

// Decide выбирает действие: меньше секунды не трогаем (точность ответа — секунда),
// до limit — slew, дальше — step.
func Decide(offset, limit time.Duration) Action {
	abs := offset
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < time.Second:
		return None
	case abs <= limit:
		return Slewed
	default:
		return Stepped
	}
}

// Correct применяет решение Decide к системным часам. Требует CAP_SYS_TIME или root.
func Correct(ref civil.Epoch, local time.Time, limit time.Duration) (Action, time.Duration, error) {
	if !ref.IsSynced() {
		return None, 0, nil
	}
	offset := Offset(ref, local)
	switch a := Decide(offset, limit); a {
	case Slewed:
		return a, offset, Slew(offset.Nanoseconds())
	case Stepped:
		return a, offset, Step(ref.Time())
	default:
		return a, offset, nil
	}
}
