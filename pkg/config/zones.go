package config

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/shiwa/tc-clock/internal/tz"
)

// ResolveZones разрешает описания городов: сначала встроенная таблица, затем явные поля конфига.
// Пустой список — города по умолчанию. Ошибка оборачивает tz.ErrMalformedZone.
func (c *Config) ResolveZones() ([]tz.Zone, error) {
	if len(c.Zones) == 0 {
		return tz.Defaults(), nil
	}
	zones := make([]tz.Zone, 0, len(c.Zones))
	seen := make(map[string]bool, len(c.Zones))
	for i, zc := range c.Zones {
		z, err := resolveZone(zc)
		if err != nil {
			return nil, errors.Wrapf(err, "zones[%d]", i)
		}
		if seen[z.Name] {
			return nil, errors.Wrapf(tz.ErrMalformedZone, "zones[%d]: duplicate %q", i, z.Name)
		}
		seen[z.Name] = true
		zones = append(zones, z)
	}
	return zones, nil
}

func resolveZone(zc ZoneConfig) (tz.Zone, error) {
	z, known := tz.Lookup(zc.Name)
	if !known {
		z = tz.Zone{Name: strings.ToUpper(strings.TrimSpace(zc.Name))}
		if zc.Offset == nil {
			return tz.Zone{}, errors.Wrapf(tz.ErrMalformedZone, "zone %q: offset required", zc.Name)
		}
	}
	if zc.Offset != nil {
		z.BaseOffsetHours = *zc.Offset
	}
	if zc.DST != "" {
		f, err := tz.ParseFamily(zc.DST)
		if err != nil {
			return tz.Zone{}, errors.Wrapf(tz.ErrMalformedZone, "zone %q: %v", zc.Name, err)
		}
		z.Family = f
	}
	if zc.StdAbbr != "" {
		z.StdAbbr = zc.StdAbbr
	}
	if zc.DstAbbr != "" {
		z.DstAbbr = zc.DstAbbr
	}
	// без DST обе аббревиатуры совпадают
	if z.Family == tz.FamilyNone && z.DstAbbr == "" {
		z.DstAbbr = z.StdAbbr
	}
	if err := z.Validate(); err != nil {
		return tz.Zone{}, err
	}
	return z, nil
}

// Validate проверяет конфиг целиком: теги validator и описания зон. Ошибки конфигурации
// отвергаются при старте.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	if c.StepLimit() < MinStepLimit {
		return errors.Newf("clock.step_limit %s is below %s", c.Clock.StepLimit, MinStepLimit)
	}
	if _, err := c.ResolveZones(); err != nil {
		return err
	}
	return nil
}
