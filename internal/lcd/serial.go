package lcd

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/tarm/serial"

	"github.com/shiwa/tc-clock/internal/logger"
)

// Команды SerLCD (SparkFun, совместимый режим).
const (
	serCommand       = 0xFE
	serSetting       = 0x7C
	serBacklightFull = 0x9D
)

// SerialLCD — символьный дисплей с последовательным контроллером.
type SerialLCD struct {
	port io.ReadWriteCloser
	cols int
	rows int
}

// NewSerialLCD создаёт драйвер поверх открытого порта.
func NewSerialLCD(port io.ReadWriteCloser, cols, rows int) *SerialLCD {
	if cols <= 0 {
		cols = 20
	}
	if rows <= 0 || rows > len(rowOffsets) {
		rows = 4
	}
	return &SerialLCD{port: port, cols: cols, rows: rows}
}

// OpenSerial открывает последовательный порт и включает подсветку.
func OpenSerial(device string, baud, cols, rows int) (*SerialLCD, error) {
	if baud == 0 {
		baud = 9600
	}
	p, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		return nil, errors.Wrapf(err, "serial open %s", device)
	}
	d := NewSerialLCD(p, cols, rows)
	if _, err := p.Write([]byte{serSetting, serBacklightFull}); err != nil {
		_ = p.Close()
		return nil, errors.Wrap(err, "serlcd backlight")
	}
	logger.Info("lcd: serial %s %d baud %dx%d", device, baud, d.cols, d.rows)
	return d, nil
}

// Clear очищает дисплей.
func (d *SerialLCD) Clear() error {
	_, err := d.port.Write([]byte{serCommand, cmdClear})
	return err
}

// Print выводит текст с позиции (row, col).
func (d *SerialLCD) Print(row, col int, text string) error {
	if row < 0 || row >= d.rows || col < 0 || col >= d.cols {
		return errors.Newf("position %d,%d out of %dx%d", row, col, d.cols, d.rows)
	}
	if n := d.cols - col; len(text) > n {
		text = text[:n]
	}
	buf := make([]byte, 0, 2+len(text))
	buf = append(buf, serCommand, cmdSetDDRAM|(rowOffsets[row]+byte(col)))
	buf = append(buf, text...)
	_, err := d.port.Write(buf)
	return err
}

// Close закрывает порт.
func (d *SerialLCD) Close() error {
	return d.port.Close()
}
