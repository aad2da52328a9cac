// Package config — конфигурация tc-clock: NTP, проба сети, цикл отображения, дисплеи, зоны.
// Используется из cmd/tc-clock и из Beat (секция tc_clock передаётся через Parse).
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config — конфигурация tc-clock.
type Config struct {
	NTP    NTPConfig    `yaml:"ntp" toml:"ntp"`
	Probe  ProbeConfig  `yaml:"probe" toml:"probe"`
	Cycle  CycleConfig  `yaml:"cycle" toml:"cycle"`
	Sink   SinkConfig   `yaml:"sink" toml:"sink"`
	Clock  ClockConfig  `yaml:"clock" toml:"clock"`
	Status StatusConfig `yaml:"status" toml:"status"`
	Zones  []ZoneConfig `yaml:"zones" toml:"zones" validate:"dive"`
}

// NTPConfig — сервер времени; первый в списке — primary, остальные по кругу при сбоях.
type NTPConfig struct {
	Servers []string `yaml:"servers" toml:"servers" validate:"required,min=1,dive,required"`
	Port    int      `yaml:"port" toml:"port" validate:"min=0,max=65535"`
	Timeout string   `yaml:"timeout" toml:"timeout"` // например "1s"
}

// ProbeConfig — цель проверки доступности сети.
type ProbeConfig struct {
	Disable bool   `yaml:"disable" toml:"disable"`
	Host    string `yaml:"host" toml:"host" validate:"required_unless=Disable true"`
	Port    int    `yaml:"port" toml:"port" validate:"min=0,max=65535"`
	Timeout string `yaml:"timeout" toml:"timeout"`
}

// CycleConfig — период внешнего цикла и выдержка на зону.
type CycleConfig struct {
	Period          string `yaml:"period" toml:"period"`
	Dwell           string `yaml:"dwell" toml:"dwell"`
	CorrectionHours int    `yaml:"correction_hours" toml:"correction_hours" validate:"min=-12,max=14"`
	ShowNetworkInfo bool   `yaml:"show_network_info" toml:"show_network_info"`
}

// SinkConfig — куда выводить: hardware (I2C LCD + TM1637), serial (SerLCD + TM1637), console.
type SinkConfig struct {
	Type    string        `yaml:"type" toml:"type" validate:"oneof=hardware serial console"`
	LCD     LCDConfig     `yaml:"lcd" toml:"lcd"`
	Serial  SerialConfig  `yaml:"serial" toml:"serial"`
	Segment SegmentConfig `yaml:"segment" toml:"segment"`
}

// LCDConfig — символьный дисплей на I2C (PCF8574).
type LCDConfig struct {
	Bus  string `yaml:"bus" toml:"bus"` // пусто — первая шина
	Addr uint16 `yaml:"addr" toml:"addr"`
	Cols int    `yaml:"cols" toml:"cols" validate:"min=0,max=40"`
	Rows int    `yaml:"rows" toml:"rows" validate:"min=0,max=4"`
}

// SerialConfig — последовательный символьный дисплей.
type SerialConfig struct {
	Port string `yaml:"port" toml:"port"`
	Baud int    `yaml:"baud" toml:"baud"`
}

// SegmentConfig — TM1637 на GPIO. Disable — без числового дисплея.
type SegmentConfig struct {
	Disable    bool   `yaml:"disable" toml:"disable"`
	CLK        string `yaml:"clk" toml:"clk"`
	DIO        string `yaml:"dio" toml:"dio"`
	Brightness *int   `yaml:"brightness" toml:"brightness" validate:"omitempty,min=0,max=7"` // нет ключа — 7
}

// ClockConfig — опционально ставить системные часы по NTP (adjust_clock).
type ClockConfig struct {
	AdjustClock bool   `yaml:"adjust_clock" toml:"adjust_clock"`
	StepLimit   string `yaml:"step_limit" toml:"step_limit"` // порог step, не меньше 1s
}

// StatusConfig — HTTP статус и websocket зеркало кадров; пустой Listen — выключено.
type StatusConfig struct {
	Listen string `yaml:"listen" toml:"listen"`
	MDNS   bool   `yaml:"mdns" toml:"mdns"`
	Name   string `yaml:"name" toml:"name"`
}

// ZoneConfig — город. Для городов из встроенной таблицы достаточно name.
type ZoneConfig struct {
	Name    string `yaml:"name" toml:"name" validate:"required"`
	Offset  *int   `yaml:"offset" toml:"offset"`
	DST     string `yaml:"dst" toml:"dst"`
	StdAbbr string `yaml:"std_abbr" toml:"std_abbr"`
	DstAbbr string `yaml:"dst_abbr" toml:"dst_abbr"`
}

// Default возвращает конфиг по умолчанию (time.nist.gov, пять городов, 3 s на город).
func Default() *Config {
	return &Config{
		NTP: NTPConfig{
			Servers: []string{"129.6.15.28"},
			Port:    123,
			Timeout: "1s",
		},
		Probe: ProbeConfig{
			Host:    "www.kcrg.com",
			Port:    80,
			Timeout: "2s",
		},
		Cycle: CycleConfig{
			Period: "1s",
			Dwell:  "3s",
		},
		Sink: SinkConfig{
			Type: "console",
			LCD:  LCDConfig{Addr: 0x27, Cols: 20, Rows: 4},
			Serial: SerialConfig{
				Port: "/dev/ttyUSB0",
				Baud: 9600,
			},
			Segment: SegmentConfig{CLK: "GPIO6", DIO: "GPIO7", Brightness: intPtr(7)},
		},
		Clock:  ClockConfig{StepLimit: "30s"},
		Status: StatusConfig{Name: "tc-clock"},
	}
}

// Load читает конфиг из YAML или TOML (по расширению .toml) и подставляет умолчания.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = FormatTOML
	}
	c, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return c, nil
}

// Форматы Parse.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Parse разбирает конфиг из памяти и подставляет умолчания.
func Parse(data []byte, format string) (*Config, error) {
	var c Config
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &c)
	case FormatYAML, "":
		err = yaml.Unmarshal(data, &c)
	default:
		return nil, errors.Newf("unknown config format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	applyDefaults(&c)
	return &c, nil
}

func applyDefaults(c *Config) {
	d := Default()
	if len(c.NTP.Servers) == 0 {
		c.NTP.Servers = d.NTP.Servers
	}
	if c.NTP.Port == 0 {
		c.NTP.Port = d.NTP.Port
	}
	if c.NTP.Timeout == "" {
		c.NTP.Timeout = d.NTP.Timeout
	}
	if c.Probe.Host == "" && !c.Probe.Disable {
		c.Probe.Host = d.Probe.Host
	}
	if c.Probe.Port == 0 {
		c.Probe.Port = d.Probe.Port
	}
	if c.Probe.Timeout == "" {
		c.Probe.Timeout = d.Probe.Timeout
	}
	if c.Cycle.Period == "" {
		c.Cycle.Period = d.Cycle.Period
	}
	if c.Cycle.Dwell == "" {
		c.Cycle.Dwell = d.Cycle.Dwell
	}
	if c.Sink.Type == "" {
		c.Sink.Type = d.Sink.Type
	}
	if c.Sink.LCD.Addr == 0 {
		c.Sink.LCD.Addr = d.Sink.LCD.Addr
	}
	if c.Sink.LCD.Cols == 0 {
		c.Sink.LCD.Cols = d.Sink.LCD.Cols
	}
	if c.Sink.LCD.Rows == 0 {
		c.Sink.LCD.Rows = d.Sink.LCD.Rows
	}
	if c.Sink.Serial.Port == "" {
		c.Sink.Serial.Port = d.Sink.Serial.Port
	}
	if c.Sink.Serial.Baud == 0 {
		c.Sink.Serial.Baud = d.Sink.Serial.Baud
	}
	if c.Sink.Segment.CLK == "" {
		c.Sink.Segment.CLK = d.Sink.Segment.CLK
	}
	if c.Sink.Segment.DIO == "" {
		c.Sink.Segment.DIO = d.Sink.Segment.DIO
	}
	if c.Sink.Segment.Brightness == nil {
		c.Sink.Segment.Brightness = d.Sink.Segment.Brightness
	}
	if c.Clock.StepLimit == "" {
		c.Clock.StepLimit = d.Clock.StepLimit
	}
	if c.Status.Name == "" {
		c.Status.Name = d.Status.Name
	}
}

// NTPTimeout — таймаут ожидания ответа NTP.
func (c *Config) NTPTimeout() time.Duration {
	return parseDuration(c.NTP.Timeout, time.Second)
}

// ProbeTimeout — таймаут подключения и чтения пробы.
func (c *Config) ProbeTimeout() time.Duration {
	return parseDuration(c.Probe.Timeout, 2*time.Second)
}

// Period — пауза между внешними циклами.
func (c *Config) Period() time.Duration {
	return parseDuration(c.Cycle.Period, time.Second)
}

// Dwell — выдержка на одной зоне.
func (c *Config) Dwell() time.Duration {
	return parseDuration(c.Cycle.Dwell, 3*time.Second)
}

// MinStepLimit — нижняя граница step_limit: NTP отсчёт имеет секундную точность,
// расхождение меньше секунды не корректируется.
const MinStepLimit = time.Second

// StepLimit — порог расхождения системных часов, выше которого делается step, ниже — slew.
func (c *Config) StepLimit() time.Duration {
	return parseDuration(c.Clock.StepLimit, 30*time.Second)
}

// Level — яркость TM1637 0..7 (без значения — 7).
func (s SegmentConfig) Level() int {
	if s.Brightness == nil {
		return 7
	}
	return *s.Brightness
}

func intPtr(v int) *int {
	return &v
}

func parseDuration(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}
