package segment

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/devices/v3/tm1637"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		hhmm  int
		colon bool
		want  []byte
	}{
		{1400, true, []byte{0x06, 0x66 | 0x80, 0x3F, 0x3F}},
		{700, true, []byte{0x3F, 0x07 | 0x80, 0x3F, 0x3F}},
		{5, false, []byte{0x3F, 0x3F, 0x3F, 0x6D}},
		{2359, false, []byte{0x5B, 0x4F, 0x6D, 0x6F}},
		{-1, false, []byte{0x3F, 0x3F, 0x3F, 0x3F}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Encode(tt.hhmm, tt.colon), "%04d", tt.hhmm)
	}
}

func TestEncode_MatchesDriverClock(t *testing.T) {
	for _, hhmm := range []int{0, 105, 959, 1200, 2359} {
		assert.Equal(t, tm1637.Clock(hhmm/100, hhmm%100, true), Encode(hhmm, true), "%04d", hhmm)
	}
}

func TestDisplay_ShowTime(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)
	require.NoError(t, d.ShowTime(1234, true))
	assert.Equal(t, []byte{0x06, 0x5B | 0x80, 0x4F, 0x66}, buf.Bytes())
	assert.NoError(t, d.Close())
}
