package clockadj

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shiwa/tc-clock/internal/civil"
	"github.com/shiwa/tc-clock/pkg/config"
)

func TestOffset(t *testing.T) {
	ref := civil.Epoch(1_700_000_000)
	local := time.Unix(1_699_999_990, 400_000_000)
	assert.Equal(t, 10*time.Second, Offset(ref, local))
	assert.Equal(t, -5*time.Second, Offset(ref, time.Unix(1_700_000_005, 0)))
}

func TestDecide(t *testing.T) {
	limit := 30 * time.Second
	tests := []struct {
		offset time.Duration
		want   Action
	}{
		{0, None},
		{999 * time.Millisecond, None},
		{-time.Second, Slewed},
		{30 * time.Second, Slewed},
		{31 * time.Second, Stepped},
		{-time.Hour, Stepped},
	}
	for _, tt := range tests {
		t.Run(tt.offset.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.offset, limit))
		})
	}
}

func TestDecide_DefaultLimit(t *testing.T) {
	limit := config.Default().StepLimit()
	assert.Equal(t, None, Decide(500*time.Millisecond, limit))
	assert.Equal(t, Slewed, Decide(2*time.Second, limit))
	assert.Equal(t, Slewed, Decide(-10*time.Second, limit))
	assert.Equal(t, Stepped, Decide(time.Minute, limit))
}

func TestCorrect_Unsynced(t *testing.T) {
	a, off, err := Correct(civil.Unsynced, time.Now(), time.Second)
	assert.NoError(t, err)
	assert.Equal(t, None, a)
	assert.Zero(t, off)
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "slew", Slewed.String())
	assert.Equal(t, "step", Stepped.String())
}
