package display

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shiwa/tc-clock/internal/civil"
	"github.com/shiwa/tc-clock/internal/tz"
)

// mockSegment — testify mock числового дисплея.
type mockSegment struct {
	mock.Mock
}

func (m *mockSegment) ShowTime(hhmm int, colon bool) error {
	return m.Called(hhmm, colon).Error(0)
}

// textRecorder запоминает содержимое символьного дисплея.
type textRecorder struct {
	rows    map[int]string
	clears  int
	flushes int
}

func newTextRecorder() *textRecorder {
	return &textRecorder{rows: map[int]string{}}
}

func (r *textRecorder) Clear() error {
	r.rows = map[int]string{}
	r.clears++
	return nil
}

func (r *textRecorder) Print(row, col int, text string) error {
	r.rows[row] = strings.Repeat(" ", col) + text
	return nil
}

func (r *textRecorder) Flush() error {
	r.flushes++
	return nil
}

type mirrorRecorder struct {
	frames []Frame
}

func (m *mirrorRecorder) Publish(f Frame) { m.frames = append(m.frames, f) }

func zone(t *testing.T, name string) tz.Zone {
	t.Helper()
	z, ok := tz.Lookup(name)
	require.True(t, ok)
	return z
}

var july15 = civil.FromTime(time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC))

func TestRender(t *testing.T) {
	f := Render(july15, zone(t, "BERN"))
	assert.True(t, f.Synced)
	assert.Equal(t, 1400, f.HHMM)
	assert.Equal(t, "14:00", f.Clock())
	assert.Equal(t, "15 Jul 2025", f.Date)
	assert.Equal(t, "DST: Active", f.DST)
	assert.Equal(t, "Tue CEST", f.DayAbbr)

	f = Render(july15, zone(t, "CHICAGO"))
	assert.Equal(t, 700, f.HHMM)
	assert.Equal(t, "07:00", f.Clock())
	assert.Equal(t, "Tue CDT", f.DayAbbr)

	jan := civil.FromTime(time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC))
	f = Render(jan, zone(t, "CHICAGO"))
	assert.Equal(t, 1805, f.HHMM)
	assert.Equal(t, "31 Dec 2024", f.Date, "дата сдвигается через полночь")
	assert.Equal(t, "DST: Inactive", f.DST)
	assert.Equal(t, "Tue CST", f.DayAbbr)
}

func TestRender_Unsynced(t *testing.T) {
	f := Render(civil.Unsynced, zone(t, "LONDON"))
	assert.False(t, f.Synced)
	assert.Equal(t, "LONDON", f.Zone)
	assert.Empty(t, f.Clock())
	lines := f.Lines("", 20)
	require.Len(t, lines, 2)
	assert.Equal(t, "LONDON", lines[0])
	assert.Equal(t, UnsyncedLine, lines[1])
}

func TestFrame_LinesStatus(t *testing.T) {
	f := Render(july15, zone(t, "BUCHAREST"))
	lines := f.Lines("23 ms", 20)
	require.Len(t, lines, 4)
	assert.Equal(t, "BUCHAREST      23 ms", lines[0])
	assert.Len(t, lines[0], 20)
	assert.Equal(t, "BUCHAREST     Failed", f.Lines("Failed", 20)[0])
	assert.Equal(t, "Tue EEST", lines[3])

	long := Frame{Zone: "A VERY LONG CITY NAME", Synced: true}
	assert.Len(t, long.Lines("Failed", 20)[0], 20)
}

func TestCycle_Run(t *testing.T) {
	seg := &mockSegment{}
	seg.On("ShowTime", 1400, true).Return(nil).Once()
	seg.On("ShowTime", 700, true).Return(nil).Once()
	text := newTextRecorder()
	mirror := &mirrorRecorder{}

	c := NewCycle(seg, text, 0, 20)
	c.AddMirror(mirror)
	frames, err := c.Run(context.Background(), july15, []tz.Zone{zone(t, "BERN"), zone(t, "CHICAGO")})
	require.NoError(t, err)
	require.Len(t, frames, 2)
	seg.AssertExpectations(t)

	// на дисплее остался последний город
	assert.Equal(t, "CHICAGO", text.rows[0])
	assert.Equal(t, "15 Jul 2025", text.rows[1])
	assert.Equal(t, "DST: Active", text.rows[2])
	assert.Equal(t, "Tue CDT", text.rows[3])
	assert.Equal(t, 2, text.clears)
	assert.Equal(t, 2, text.flushes)
	assert.Len(t, mirror.frames, 2)
}

func TestCycle_RunUnsynced(t *testing.T) {
	seg := &mockSegment{}
	text := newTextRecorder()

	c := NewCycle(seg, text, 0, 20)
	c.SetStatus("Failed")
	_, err := c.Run(context.Background(), civil.Unsynced, tz.Defaults())
	require.NoError(t, err)

	seg.AssertNotCalled(t, "ShowTime", mock.Anything, mock.Anything)
	assert.Equal(t, "LONDON", strings.TrimSpace(strings.TrimSuffix(text.rows[0], "Failed")))
	assert.Equal(t, UnsyncedLine, text.rows[1])
	for _, row := range text.rows {
		for _, r := range strings.TrimSuffix(row, "Failed") {
			assert.False(t, unicode.IsDigit(r), "цифр времени быть не должно: %q", row)
		}
	}
}

func TestCycle_NilSinks(t *testing.T) {
	c := NewCycle(nil, nil, 0, 0)
	frames, err := c.Run(context.Background(), july15, tz.Defaults())
	require.NoError(t, err)
	assert.Len(t, frames, 5)
}

func TestCycle_DwellCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewCycle(nil, newTextRecorder(), time.Hour, 20)
	frames, err := c.Run(ctx, july15, tz.Defaults())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, frames, 1, "отмена прерывает выдержку после первой зоны")
}

func TestCycle_ShowNetworkInfo(t *testing.T) {
	text := newTextRecorder()
	c := NewCycle(nil, text, 0, 20)
	require.NoError(t, c.ShowNetworkInfo(context.Background(), "192.168.1.180", "17 ms"))
	assert.Equal(t, "IP Address:", text.rows[0])
	assert.Equal(t, "192.168.1.180", text.rows[1])
	assert.Equal(t, "Ping:", text.rows[2])
	assert.Equal(t, "17 ms", text.rows[3])

	require.NoError(t, c.ShowNetworkInfo(context.Background(), "", ""))
	assert.Equal(t, "-", text.rows[1])
	assert.Equal(t, "-", text.rows[3])
}

func TestWait(t *testing.T) {
	start := time.Now()
	require.NoError(t, Wait(context.Background(), 10*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}
