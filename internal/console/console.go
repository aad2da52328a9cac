// Package console — оба дисплея в терминале (lipgloss), для запуска без железа.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const clearScreen = "\x1b[H\x1b[2J"

// Display — эмуляция 7-сегментного и символьного дисплеев. Реализует display.Segment,
// display.Text и display.Flusher: кадр перерисовывается целиком на Flush.
type Display struct {
	out   io.Writer
	cols  int
	rows  []string
	clock string
	plain bool

	clockStyle lipgloss.Style
	lcdStyle   lipgloss.Style
}

// New создаёт консольный дисплей cols x rows. plain — без ANSI очистки экрана (лог, пайп).
func New(out io.Writer, cols, rows int, plain bool) *Display {
	if cols <= 0 {
		cols = 20
	}
	if rows <= 0 {
		rows = 4
	}
	return &Display{
		out:   out,
		cols:  cols,
		rows:  make([]string, rows),
		clock: "--:--",
		plain: plain,
		clockStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF3B30")).
			Background(lipgloss.Color("#1C1C1E")).
			Padding(0, 2),
		lcdStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0A2A12")).
			Background(lipgloss.Color("#9BD770")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4A7A2C")),
	}
}

// ShowTime запоминает HHMM.
func (d *Display) ShowTime(hhmm int, colon bool) error {
	sep := " "
	if colon {
		sep = ":"
	}
	d.clock = fmt.Sprintf("%02d%s%02d", hhmm/100, sep, hhmm%100)
	return nil
}

// Clear очищает строки.
func (d *Display) Clear() error {
	for i := range d.rows {
		d.rows[i] = ""
	}
	return nil
}

// Print пишет текст в строку row с колонки col.
func (d *Display) Print(row, col int, text string) error {
	if row < 0 || row >= len(d.rows) || col < 0 || col >= d.cols {
		return fmt.Errorf("position %d,%d out of %dx%d", row, col, d.cols, len(d.rows))
	}
	line := []rune(pad(d.rows[row], d.cols))
	pos := col
	for _, r := range text {
		if pos >= d.cols {
			break
		}
		line[pos] = r
		pos++
	}
	d.rows[row] = strings.TrimRight(string(line), " ")
	return nil
}

// Flush перерисовывает оба дисплея.
func (d *Display) Flush() error {
	var sb strings.Builder
	if !d.plain {
		sb.WriteString(clearScreen)
	}
	sb.WriteString(d.View())
	sb.WriteString("\n")
	_, err := io.WriteString(d.out, sb.String())
	return err
}

// View возвращает отрисовку без управляющих последовательностей экрана.
func (d *Display) View() string {
	lines := make([]string, len(d.rows))
	for i, r := range d.rows {
		lines[i] = pad(r, d.cols)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		d.clockStyle.Render(d.clock),
		d.lcdStyle.Render(strings.Join(lines, "\n")),
	)
}

// Rows возвращает текущие строки (без хвостовых пробелов).
func (d *Display) Rows() []string {
	return append([]string(nil), d.rows...)
}

func pad(s string, n int) string {
	if l := len([]rune(s)); l < n {
		return s + strings.Repeat(" ", n-l)
	}
	return s
}
