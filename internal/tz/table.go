package tz

import "strings"

// entry — строка встроенной таблицы городов.
type entry struct {
	offset  int
	family  Family
	stdAbbr string
	dstAbbr string
}

// builtin — города, известные без явного описания в конфиге. Ключ — имя в верхнем регистре.
var builtin = map[string]entry{
	"BERN":      {offset: 1, family: FamilyEurope, stdAbbr: "CET", dstAbbr: "CEST"},
	"BUCHAREST": {offset: 2, family: FamilyEurope, stdAbbr: "EET", dstAbbr: "EEST"},
	"CHICAGO":   {offset: -6, family: FamilyAmerica, stdAbbr: "CST", dstAbbr: "CDT"},
	"BOSTON":    {offset: -5, family: FamilyAmerica, stdAbbr: "EST", dstAbbr: "EDT"},
	"LONDON":    {offset: 0, family: FamilyEurope, stdAbbr: "GMT", dstAbbr: "BST"},
	"IOWA":      {offset: -6, family: FamilyAmerica, stdAbbr: "CST", dstAbbr: "CDT"},
}

// DefaultCities — порядок городов по умолчанию.
var DefaultCities = []string{"BERN", "BUCHAREST", "CHICAGO", "BOSTON", "LONDON"}

// Lookup ищет город во встроенной таблице.
func Lookup(name string) (Zone, bool) {
	key := strings.ToUpper(strings.TrimSpace(name))
	e, ok := builtin[key]
	if !ok {
		return Zone{}, false
	}
	return Zone{
		Name:            key,
		BaseOffsetHours: e.offset,
		Family:          e.family,
		StdAbbr:         e.stdAbbr,
		DstAbbr:         e.dstAbbr,
	}, true
}

// Defaults возвращает зоны DefaultCities.
func Defaults() []Zone {
	zones := make([]Zone, 0, len(DefaultCities))
	for _, name := range DefaultCities {
		z, _ := Lookup(name)
		zones = append(zones, z)
	}
	return zones
}
