// Package sinks собирает дисплеи из конфига: I2C LCD + TM1637, SerLCD + TM1637 или консоль.
package sinks

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/shiwa/tc-clock/internal/console"
	"github.com/shiwa/tc-clock/internal/display"
	"github.com/shiwa/tc-clock/internal/lcd"
	"github.com/shiwa/tc-clock/internal/logger"
	"github.com/shiwa/tc-clock/internal/segment"
	"github.com/shiwa/tc-clock/pkg/config"
)

// ErrUnknownSink — неизвестный sink.type.
var ErrUnknownSink = errors.New("unknown sink type")

// Set — открытые дисплеи. Segment или Text могут быть nil.
type Set struct {
	Segment display.Segment
	Text    display.Text
	Cols    int

	closers []io.Closer
}

// Close закрывает все открытые устройства; возвращает первую ошибку.
func (s *Set) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}

// Open создаёт дисплеи по sink.type. out — вывод консольного режима; plain — без очистки экрана.
func Open(c config.SinkConfig, out io.Writer, plain bool) (*Set, error) {
	cols, rows := c.LCD.Cols, c.LCD.Rows
	switch c.Type {
	case "console", "":
		d := console.New(out, cols, rows, plain)
		return &Set{Segment: d, Text: d, Cols: cols}, nil
	case "hardware":
		text, err := lcd.OpenI2C(c.LCD.Bus, c.LCD.Addr, cols, rows)
		if err != nil {
			return nil, errors.Wrap(err, "lcd")
		}
		if err := text.SetBacklight(true); err != nil {
			logger.Warn("lcd backlight: %v", err)
		}
		s := &Set{Text: text, Cols: cols, closers: []io.Closer{text}}
		s.openSegment(c.Segment)
		return s, nil
	case "serial":
		text, err := lcd.OpenSerial(c.Serial.Port, c.Serial.Baud, cols, rows)
		if err != nil {
			return nil, errors.Wrap(err, "serial lcd")
		}
		s := &Set{Text: text, Cols: cols, closers: []io.Closer{text}}
		s.openSegment(c.Segment)
		return s, nil
	default:
		return nil, errors.Wrapf(ErrUnknownSink, "%q", c.Type)
	}
}

// openSegment подключает TM1637; при ошибке работаем только с символьным дисплеем.
func (s *Set) openSegment(c config.SegmentConfig) {
	if c.Disable {
		return
	}
	seg, err := segment.Open(c.CLK, c.DIO, c.Level())
	if err != nil {
		logger.Warn("segment %s/%s: %v", c.CLK, c.DIO, err)
		return
	}
	s.Segment = seg
	s.closers = append(s.closers, seg)
}
