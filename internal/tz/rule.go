package tz

import "github.com/shiwa/tc-clock/internal/civil"

// Last — номер недели «последнее воскресенье месяца».
const Last = -1

// Transition — момент перехода: N-е (или последнее) воскресенье месяца, час в рамке стандартного времени.
type Transition struct {
	Month int
	Week  int // 1..4 или Last
	Hour  int
}

// Rule — правило летнего времени: начало и конец внутри одного года (Start.Month < End.Month).
type Rule struct {
	Start Transition
	End   Transition
}

// rules — семейства DST как строки таблицы, а не отдельные ветки кода.
var rules = map[Family]Rule{
	FamilyEurope: {
		Start: Transition{Month: 3, Week: Last, Hour: 2},
		End:   Transition{Month: 10, Week: Last, Hour: 3},
	},
	FamilyAmerica: {
		Start: Transition{Month: 3, Week: 2, Hour: 2},
		End:   Transition{Month: 11, Week: 1, Hour: 2},
	},
}

// RuleFor возвращает правило семейства; для FamilyNone — (Rule{}, false).
func RuleFor(f Family) (Rule, bool) {
	r, ok := rules[f]
	return r, ok
}

// Sunday возвращает число месяца, на которое приходится воскресенье перехода в данном году.
func (t Transition) Sunday(year int) int {
	if t.Week == Last {
		last := civil.DaysIn(year, t.Month)
		return last - civil.WeekdayOf(year, t.Month, last)
	}
	first := 1 + (7-civil.WeekdayOf(year, t.Month, 1))%7
	return first + 7*(t.Week-1)
}

// reached — true, если момент перехода в месяце Month уже наступил.
func (t Transition) reached(c civil.Components) bool {
	d := t.Sunday(c.Year)
	return c.Day > d || (c.Day == d && c.Hour >= t.Hour)
}

// Active решает, действует ли летнее время для полей в рамке стандартного времени.
func (r Rule) Active(c civil.Components) bool {
	switch {
	case c.Month < r.Start.Month || c.Month > r.End.Month:
		return false
	case c.Month > r.Start.Month && c.Month < r.End.Month:
		return true
	case c.Month == r.Start.Month:
		return r.Start.reached(c)
	default:
		return !r.End.reached(c)
	}
}

// IsDSTActive — решение DST для семейства. FamilyNone и неизвестные семейства — всегда false.
func IsDSTActive(c civil.Components, f Family) bool {
	r, ok := rules[f]
	if !ok {
		return false
	}
	return r.Active(c)
}
