// Package lcd — символьные дисплеи HD44780: I2C рюкзак PCF8574 (periph) и последовательный SerLCD.
package lcd

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Биты PCF8574 → выводы HD44780.
const (
	bitRS        = 0x01
	bitEnable    = 0x04
	bitBacklight = 0x08
)

// Команды HD44780.
const (
	cmdClear       = 0x01
	cmdEntryMode   = 0x06 // инкремент, без сдвига
	cmdDisplayOn   = 0x0C // дисплей вкл, курсор выкл
	cmdFunction4x2 = 0x28 // 4 бита, 2+ строки, 5x8
	cmdSetDDRAM    = 0x80
)

// rowOffsets — адреса DDRAM начала строк для 20x4 (и 16x2: первые два).
var rowOffsets = [4]byte{0x00, 0x40, 0x14, 0x54}

// Bus — транзакция I2C (совпадает с periph i2c.Dev.Tx).
type Bus interface {
	Tx(w, r []byte) error
}

// HD44780 — дисплей на рюкзаке PCF8574 (адрес обычно 0x27).
type HD44780 struct {
	bus       Bus
	cols      int
	rows      int
	backlight byte
	sleep     func(time.Duration)
	closer    func() error
}

// NewHD44780 создаёт драйвер поверх готовой шины и выполняет инициализацию 4-битного режима.
func NewHD44780(bus Bus, cols, rows int) (*HD44780, error) {
	return newHD44780(bus, cols, rows, time.Sleep)
}

func newHD44780(bus Bus, cols, rows int, sleep func(time.Duration)) (*HD44780, error) {
	if cols <= 0 {
		cols = 20
	}
	if rows <= 0 || rows > len(rowOffsets) {
		rows = 4
	}
	d := &HD44780{bus: bus, cols: cols, rows: rows, backlight: bitBacklight, sleep: sleep}
	if err := d.init(); err != nil {
		return nil, errors.Wrap(err, "hd44780 init")
	}
	return d, nil
}

// init — последовательность из даташита: три раза 0x3, затем 0x2 (переход в 4 бита).
func (d *HD44780) init() error {
	d.sleep(50 * time.Millisecond)
	for _, wait := range []time.Duration{4500 * time.Microsecond, 4500 * time.Microsecond, 150 * time.Microsecond} {
		if err := d.writeNibble(0x30, 0); err != nil {
			return err
		}
		d.sleep(wait)
	}
	if err := d.writeNibble(0x20, 0); err != nil {
		return err
	}
	for _, cmd := range []byte{cmdFunction4x2, cmdDisplayOn, cmdClear, cmdEntryMode} {
		if err := d.command(cmd); err != nil {
			return err
		}
	}
	d.sleep(2 * time.Millisecond)
	return nil
}

// Clear очищает дисплей.
func (d *HD44780) Clear() error {
	if err := d.command(cmdClear); err != nil {
		return err
	}
	d.sleep(2 * time.Millisecond)
	return nil
}

// Print выводит текст с позиции (row, col); хвост за шириной дисплея отбрасывается.
func (d *HD44780) Print(row, col int, text string) error {
	if row < 0 || row >= d.rows || col < 0 || col >= d.cols {
		return errors.Newf("position %d,%d out of %dx%d", row, col, d.cols, d.rows)
	}
	if err := d.command(cmdSetDDRAM | (rowOffsets[row] + byte(col))); err != nil {
		return err
	}
	if n := d.cols - col; len(text) > n {
		text = text[:n]
	}
	for i := 0; i < len(text); i++ {
		if err := d.write(text[i], bitRS); err != nil {
			return err
		}
	}
	return nil
}

// SetBacklight включает или выключает подсветку.
func (d *HD44780) SetBacklight(on bool) error {
	d.backlight = 0
	if on {
		d.backlight = bitBacklight
	}
	return d.bus.Tx([]byte{d.backlight}, nil)
}

// Close гасит подсветку и освобождает шину.
func (d *HD44780) Close() error {
	err := d.SetBacklight(false)
	if d.closer != nil {
		if cerr := d.closer(); err == nil {
			err = cerr
		}
	}
	return err
}

func (d *HD44780) command(b byte) error {
	return d.write(b, 0)
}

func (d *HD44780) write(b, mode byte) error {
	if err := d.writeNibble(b&0xF0, mode); err != nil {
		return err
	}
	return d.writeNibble((b<<4)&0xF0, mode)
}

// writeNibble выставляет старшую тетраду и стробирует Enable.
func (d *HD44780) writeNibble(nibble, mode byte) error {
	v := nibble | mode | d.backlight
	return d.bus.Tx([]byte{v | bitEnable, v}, nil)
}
