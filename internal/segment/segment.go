// Package segment — 4-разрядный 7-сегментный дисплей TM1637 (часы HH:MM).
package segment

import (
	"io"

	"github.com/cockroachdb/errors"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/tm1637"
	"periph.io/x/host/v3"

	"github.com/shiwa/tc-clock/internal/logger"
)

// MaxBrightness — уровень 7 (setBrightness 0x0f в исходной прошивке).
const MaxBrightness = 7

// Encode раскладывает HHMM на сегменты с ведущими нулями (tm1637.Clock, двоеточие — точка
// второго разряда).
func Encode(hhmm int, colon bool) []byte {
	if hhmm < 0 {
		hhmm = 0
	}
	hhmm %= 10000
	return tm1637.Clock(hhmm/100, hhmm%100, colon)
}

// Display — числовой дисплей поверх любого writer сегментов.
type Display struct {
	w      io.Writer
	closer func() error
}

// New создаёт дисплей поверх writer (например *tm1637.Dev).
func New(w io.Writer) *Display {
	return &Display{w: w}
}

// Open находит выводы CLK/DIO по имени (например GPIO6, GPIO7) и включает TM1637.
func Open(clkName, dioName string, brightness int) (*Display, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	clk := gpioreg.ByName(clkName)
	if clk == nil {
		return nil, errors.Newf("gpio %q not found", clkName)
	}
	dio := gpioreg.ByName(dioName)
	if dio == nil {
		return nil, errors.Newf("gpio %q not found", dioName)
	}
	dev, err := tm1637.New(clk, dio)
	if err != nil {
		return nil, errors.Wrap(err, "tm1637")
	}
	if brightness < 0 || brightness > MaxBrightness {
		brightness = MaxBrightness
	}
	if err := dev.SetBrightness(tm1637.Brightness(0x88 + brightness)); err != nil {
		return nil, errors.Wrap(err, "tm1637 brightness")
	}
	logger.Info("segment: tm1637 clk=%s dio=%s brightness=%d", clkName, dioName, brightness)
	d := New(dev)
	d.closer = dev.Halt
	return d, nil
}

// ShowTime выводит HHMM; colon включает двоеточие.
func (d *Display) ShowTime(hhmm int, colon bool) error {
	_, err := d.w.Write(Encode(hhmm, colon))
	return err
}

// Close выключает дисплей.
func (d *Display) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer()
}
