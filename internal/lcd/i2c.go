package lcd

import (
	"github.com/cockroachdb/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/shiwa/tc-clock/internal/logger"
)

// DefaultAddr — типовой адрес рюкзака PCF8574.
const DefaultAddr = 0x27

// OpenI2C открывает шину (пустое имя — первая доступная) и инициализирует дисплей.
func OpenI2C(busName string, addr uint16, cols, rows int) (*HD44780, error) {
	if addr == 0 {
		addr = DefaultAddr
	}
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, errors.Wrapf(err, "i2creg.Open %q", busName)
	}
	dev := &i2c.Dev{Addr: addr, Bus: bus}
	d, err := NewHD44780(dev, cols, rows)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	d.closer = bus.Close
	logger.Info("lcd: %s addr=0x%02x %dx%d", bus, addr, d.cols, d.rows)
	return d, nil
}
