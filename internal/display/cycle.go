package display

import (
	"context"
	"time"

	"github.com/shiwa/tc-clock/internal/civil"
	"github.com/shiwa/tc-clock/internal/logger"
	"github.com/shiwa/tc-clock/internal/tz"
)

// DefaultDwell — время показа одной зоны.
const DefaultDwell = 3 * time.Second

// Segment — 4-разрядный числовой дисплей (HHMM + двоеточие).
type Segment interface {
	ShowTime(hhmm int, colon bool) error
}

// Text — символьный дисплей (строка, колонка).
type Text interface {
	Clear() error
	Print(row, col int, text string) error
}

// Flusher — опционально: синк, которому нужен явный сигнал «кадр готов» (консоль).
type Flusher interface {
	Flush() error
}

// Mirror получает копию каждого показанного кадра (статус по HTTP, websocket).
type Mirror interface {
	Publish(f Frame)
}

// Cycle — обход зон с выдержкой dwell на каждой.
type Cycle struct {
	seg     Segment
	text    Text
	dwell   time.Duration
	cols    int
	status  string
	mirrors []Mirror
}

// NewCycle создаёт цикл. seg или text могут быть nil, если дисплей не подключён.
func NewCycle(seg Segment, text Text, dwell time.Duration, cols int) *Cycle {
	if dwell < 0 {
		dwell = DefaultDwell
	}
	if cols <= 0 {
		cols = 20
	}
	return &Cycle{seg: seg, text: text, dwell: dwell, cols: cols}
}

// AddMirror подключает получателя копий кадров.
func (c *Cycle) AddMirror(m Mirror) {
	c.mirrors = append(c.mirrors, m)
}

// SetStatus задаёт строку статуса (результат пробы) для следующих кадров.
func (c *Cycle) SetStatus(s string) {
	c.status = s
}

// Status возвращает текущую строку статуса.
func (c *Cycle) Status() string {
	return c.status
}

// Run показывает все зоны по очереди по одному UTC отсчёту. Без синхронизации числовой
// дисплей не обновляется, на символьном остаётся имя города. Возвращает показанные кадры;
// ошибка — только отмена ctx во время выдержки.
func (c *Cycle) Run(ctx context.Context, utc civil.Epoch, zones []tz.Zone) ([]Frame, error) {
	frames := make([]Frame, 0, len(zones))
	for _, z := range zones {
		f := Render(utc, z)
		c.Show(f)
		frames = append(frames, f)
		if err := Wait(ctx, c.dwell); err != nil {
			return frames, err
		}
	}
	return frames, nil
}

// Show выводит один кадр на оба дисплея и зеркала.
func (c *Cycle) Show(f Frame) {
	if f.Synced && c.seg != nil {
		if err := c.seg.ShowTime(f.HHMM, true); err != nil {
			logger.Debug("segment: %v", err)
		}
	}
	c.print(f.Lines(c.status, c.cols))
	for _, m := range c.mirrors {
		m.Publish(f)
	}
}

// ShowNetworkInfo — страница сети: локальный адрес и результат пробы.
func (c *Cycle) ShowNetworkInfo(ctx context.Context, ip, status string) error {
	if ip == "" {
		ip = "-"
	}
	if status == "" {
		status = "-"
	}
	c.print([]string{"IP Address:", fit(ip, c.cols), "Ping:", fit(status, c.cols)})
	return Wait(ctx, c.dwell)
}

func (c *Cycle) print(lines []string) {
	if c.text == nil {
		return
	}
	if err := c.text.Clear(); err != nil {
		logger.Debug("lcd clear: %v", err)
	}
	for row, line := range lines {
		if err := c.text.Print(row, 0, line); err != nil {
			logger.Debug("lcd print row %d: %v", row, err)
		}
	}
	if fl, ok := c.text.(Flusher); ok {
		if err := fl.Flush(); err != nil {
			logger.Debug("lcd flush: %v", err)
		}
	}
}

// Wait блокируется на d или до отмены ctx.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
