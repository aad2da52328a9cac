// Package tz — локальное время городов: базовое смещение + правило летнего времени (Europe / America).
package tz

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/shiwa/tc-clock/internal/civil"
)

// Family — семейство правил летнего времени.
type Family int

const (
	FamilyNone Family = iota
	FamilyEurope
	FamilyAmerica
)

// ErrUnknownFamily — в конфиге указано неизвестное семейство DST.
var ErrUnknownFamily = errors.New("unknown dst family")

func (f Family) String() string {
	switch f {
	case FamilyNone:
		return "none"
	case FamilyEurope:
		return "europe"
	case FamilyAmerica:
		return "america"
	default:
		return "unknown"
	}
}

// ParseFamily разбирает имя семейства из конфига (регистр не важен, пусто = none).
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return FamilyNone, nil
	case "europe", "eu":
		return FamilyEurope, nil
	case "america", "us":
		return FamilyAmerica, nil
	default:
		return FamilyNone, errors.Wrapf(ErrUnknownFamily, "%q", s)
	}
}

// Zone — описание отображаемого города. BaseOffsetHours — только стандартное смещение, DST добавляется отдельно.
type Zone struct {
	Name            string
	BaseOffsetHours int
	Family          Family
	StdAbbr         string
	DstAbbr         string
}

// Abbr возвращает аббревиатуру зоны для текущего состояния DST.
func (z Zone) Abbr(dst bool) string {
	if dst {
		return z.DstAbbr
	}
	return z.StdAbbr
}

// Localize переводит UTC в локальное время зоны. Решение DST принимается по дате
// в рамке стандартного времени, результат сдвигается на +1 час при активном DST.
func Localize(utc civil.Epoch, z Zone) (civil.Epoch, bool) {
	local := utc.AddHours(z.BaseOffsetHours)
	dst := IsDSTActive(civil.Decompose(local), z.Family)
	if dst {
		local = local.AddHours(1)
	}
	return local, dst
}

// ErrMalformedZone — дефект конфигурации зоны; отвергается при старте, а не в цикле.
var ErrMalformedZone = errors.New("malformed zone config")

// Validate проверяет описание зоны.
func (z Zone) Validate() error {
	switch {
	case strings.TrimSpace(z.Name) == "":
		return errors.Wrap(ErrMalformedZone, "empty name")
	case z.Family < FamilyNone || z.Family > FamilyAmerica:
		return errors.Wrapf(ErrMalformedZone, "zone %q: %v", z.Name, ErrUnknownFamily)
	case z.StdAbbr == "" || z.DstAbbr == "":
		return errors.Wrapf(ErrMalformedZone, "zone %q: missing abbreviation", z.Name)
	case z.BaseOffsetHours < -12 || z.BaseOffsetHours > 14:
		return errors.Wrapf(ErrMalformedZone, "zone %q: offset %d out of range", z.Name, z.BaseOffsetHours)
	}
	return nil
}
