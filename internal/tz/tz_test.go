package tz

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiwa/tc-clock/internal/civil"
)

func at(year, month, day, hour, min int) civil.Components {
	return civil.Components{Year: year, Month: month, Day: day, Hour: hour, Minute: min,
		Weekday: civil.WeekdayOf(year, month, day)}
}

func utc(year, month, day, hour, min int) civil.Epoch {
	return civil.FromTime(time.Date(year, time.Month(month), day, hour, min, 0, 0, time.UTC))
}

func TestTransition_Sunday(t *testing.T) {
	eu, _ := RuleFor(FamilyEurope)
	us, _ := RuleFor(FamilyAmerica)
	tests := []struct {
		name string
		tr   Transition
		year int
		want int
	}{
		{"eu start 2024", eu.Start, 2024, 31},
		{"eu start 2025", eu.Start, 2025, 30},
		{"eu start 2026", eu.Start, 2026, 29},
		{"eu end 2024", eu.End, 2024, 27},
		{"eu end 2025", eu.End, 2025, 26},
		{"us start 2024", us.Start, 2024, 10},
		{"us start 2025", us.Start, 2025, 9},
		{"us start 2026", us.Start, 2026, 8},
		{"us end 2024", us.End, 2024, 3},
		{"us end 2025", us.End, 2025, 2},
		{"us end 2026", us.End, 2026, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tr.Sunday(tt.year))
		})
	}
}

func TestIsDSTActive_Europe(t *testing.T) {
	tests := []struct {
		name string
		c    civil.Components
		want bool
	}{
		{"january", at(2025, 1, 15, 12, 0), false},
		{"december", at(2025, 12, 1, 12, 0), false},
		{"november", at(2025, 11, 1, 12, 0), false},
		{"july", at(2025, 7, 15, 12, 0), true},
		{"april first", at(2025, 4, 1, 0, 0), true},
		{"march before last sunday", at(2025, 3, 29, 23, 59), false},
		{"last sunday of march 01:59", at(2025, 3, 30, 1, 59), false},
		{"last sunday of march 02:00", at(2025, 3, 30, 2, 0), true},
		{"march after last sunday", at(2025, 3, 31, 0, 0), true},
		{"october before last sunday", at(2025, 10, 25, 23, 59), true},
		{"last sunday of october 02:59", at(2025, 10, 26, 2, 59), true},
		{"last sunday of october 03:00", at(2025, 10, 26, 3, 0), false},
		{"october after last sunday", at(2025, 10, 27, 0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDSTActive(tt.c, FamilyEurope))
		})
	}
}

func TestIsDSTActive_America(t *testing.T) {
	tests := []struct {
		name string
		c    civil.Components
		want bool
	}{
		{"february", at(2025, 2, 28, 12, 0), false},
		{"december", at(2025, 12, 24, 12, 0), false},
		{"october", at(2025, 10, 31, 23, 0), true},
		{"march first sunday", at(2025, 3, 2, 12, 0), false},
		{"second sunday of march 01:59", at(2025, 3, 9, 1, 59), false},
		{"second sunday of march 02:00", at(2025, 3, 9, 2, 0), true},
		{"march after second sunday", at(2025, 3, 10, 0, 0), true},
		{"november first day", at(2025, 11, 1, 23, 59), true},
		{"first sunday of november 01:59", at(2025, 11, 2, 1, 59), true},
		{"first sunday of november 02:00", at(2025, 11, 2, 2, 0), false},
		{"november later", at(2025, 11, 20, 12, 0), false},
		{"november sunday on the 1st", at(2026, 11, 1, 2, 0), false},
		{"november sunday on the 1st 01:59", at(2026, 11, 1, 1, 59), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDSTActive(tt.c, FamilyAmerica))
		})
	}
}

func TestIsDSTActive_None(t *testing.T) {
	assert.False(t, IsDSTActive(at(2025, 7, 15, 12, 0), FamilyNone))
	assert.False(t, IsDSTActive(at(2025, 7, 15, 12, 0), Family(42)))
}

func TestLocalize_NoneFamily(t *testing.T) {
	for _, h := range []int{-12, -6, 0, 1, 5, 14} {
		z := Zone{Name: "X", BaseOffsetHours: h, Family: FamilyNone, StdAbbr: "X", DstAbbr: "X"}
		for _, u := range []civil.Epoch{1, utc(2025, 3, 30, 1, 0), utc(2025, 7, 15, 12, 0), utc(2038, 1, 19, 3, 14)} {
			local, dst := Localize(u, z)
			assert.Equal(t, u+civil.Epoch(3600*h), local)
			assert.False(t, dst)
		}
	}
}

func TestLocalize_Scenarios(t *testing.T) {
	u := utc(2025, 7, 15, 12, 0)

	bern, ok := Lookup("bern")
	require.True(t, ok)
	local, dst := Localize(u, bern)
	assert.True(t, dst)
	assert.Equal(t, utc(2025, 7, 15, 14, 0), local)
	assert.Equal(t, "CEST", bern.Abbr(dst))

	chicago, ok := Lookup("CHICAGO")
	require.True(t, ok)
	local, dst = Localize(u, chicago)
	assert.True(t, dst)
	assert.Equal(t, utc(2025, 7, 15, 7, 0), local)
	assert.Equal(t, "CDT", chicago.Abbr(dst))
}

func TestLocalize_Boundaries(t *testing.T) {
	bern, _ := Lookup("BERN")
	chicago, _ := Lookup("CHICAGO")

	// BERN: 00:59Z = 01:59 CET, 01:00Z = 02:00 CET → 03:00 CEST
	local, dst := Localize(utc(2025, 3, 30, 0, 59), bern)
	assert.False(t, dst)
	assert.Equal(t, utc(2025, 3, 30, 1, 59), local)
	local, dst = Localize(utc(2025, 3, 30, 1, 0), bern)
	assert.True(t, dst)
	assert.Equal(t, utc(2025, 3, 30, 3, 0), local)

	// CHICAGO: 07:59Z = 01:59 CST, 08:00Z = 02:00 CST → 03:00 CDT
	_, dst = Localize(utc(2025, 3, 9, 7, 59), chicago)
	assert.False(t, dst)
	local, dst = Localize(utc(2025, 3, 9, 8, 0), chicago)
	assert.True(t, dst)
	assert.Equal(t, utc(2025, 3, 9, 3, 0), local)

	_, dst = Localize(utc(2025, 11, 2, 7, 59), chicago)
	assert.True(t, dst)
	_, dst = Localize(utc(2025, 11, 2, 8, 0), chicago)
	assert.False(t, dst)
}

func TestLocalize_Idempotent(t *testing.T) {
	for _, name := range DefaultCities {
		z, _ := Lookup(name)
		u := utc(2025, 10, 26, 1, 30)
		l1, d1 := Localize(u, z)
		l2, d2 := Localize(u, z)
		assert.Equal(t, l1, l2, name)
		assert.Equal(t, d1, d2, name)
	}
}

func TestParseFamily(t *testing.T) {
	tests := []struct {
		in      string
		want    Family
		wantErr bool
	}{
		{"", FamilyNone, false},
		{"None", FamilyNone, false},
		{"europe", FamilyEurope, false},
		{"EU", FamilyEurope, false},
		{" America ", FamilyAmerica, false},
		{"us", FamilyAmerica, false},
		{"asia", FamilyNone, true},
	}
	for _, tt := range tests {
		got, err := ParseFamily(tt.in)
		if tt.wantErr {
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnknownFamily))
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestZone_Validate(t *testing.T) {
	ok := Zone{Name: "BERN", BaseOffsetHours: 1, Family: FamilyEurope, StdAbbr: "CET", DstAbbr: "CEST"}
	require.NoError(t, ok.Validate())

	bad := []Zone{
		{Name: "", BaseOffsetHours: 1, Family: FamilyEurope, StdAbbr: "CET", DstAbbr: "CEST"},
		{Name: "X", BaseOffsetHours: 1, Family: Family(7), StdAbbr: "CET", DstAbbr: "CEST"},
		{Name: "X", BaseOffsetHours: 1, Family: FamilyEurope, StdAbbr: "CET"},
		{Name: "X", BaseOffsetHours: 15, Family: FamilyNone, StdAbbr: "A", DstAbbr: "A"},
	}
	for _, z := range bad {
		err := z.Validate()
		require.Error(t, err, "%+v", z)
		assert.True(t, errors.Is(err, ErrMalformedZone))
	}
}

func TestDefaults(t *testing.T) {
	zones := Defaults()
	require.Len(t, zones, 5)
	assert.Equal(t, "BERN", zones[0].Name)
	assert.Equal(t, "LONDON", zones[4].Name)
	for _, z := range zones {
		assert.NoError(t, z.Validate())
	}
	_, ok := Lookup("ATLANTIS")
	assert.False(t, ok)
}
