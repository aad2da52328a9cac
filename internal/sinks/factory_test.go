package sinks

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiwa/tc-clock/internal/console"
	"github.com/shiwa/tc-clock/pkg/config"
)

func TestOpen_Console(t *testing.T) {
	var out bytes.Buffer
	c := config.Default().Sink
	s, err := Open(c, &out, true)
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &console.Display{}, s.Text)
	assert.Same(t, s.Text, s.Segment)
	assert.Equal(t, 20, s.Cols)
	assert.NoError(t, s.Close())
}

func TestOpen_Unknown(t *testing.T) {
	c := config.Default().Sink
	c.Type = "hologram"
	_, err := Open(c, &bytes.Buffer{}, true)
	assert.True(t, errors.Is(err, ErrUnknownSink))
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestSet_CloseOrder(t *testing.T) {
	var order []int
	boom := errors.New("boom")
	s := &Set{closers: []io.Closer{
		closerFunc(func() error { order = append(order, 1); return nil }),
		closerFunc(func() error { order = append(order, 2); return boom }),
	}}
	assert.ErrorIs(t, s.Close(), boom)
	assert.Equal(t, []int{2, 1}, order)
	assert.NoError(t, s.Close(), "повторный Close")
}
