package session

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingReader never produces a line until unblocked.
type blockingReader struct {
	unblock chan struct{}
}

func (b *blockingReader) ReadLine() (string, error) {
	<-b.unblock
	return "", ErrInputClosed
}

func TestLineReaderReadsUntilEOF(t *testing.T) {
	r := NewLineReader(strings.NewReader("one\ntwo\n"))

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "one", line)

	line, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "two", line)

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestSignalReaderDeliversLinesAndEOF(t *testing.T) {
	sigs := make(chan os.Signal, 1)
	r := NewSignalReader(&scriptedReader{lines: []string{"hello"}}, sigs)
	defer func() { _ = r.Close() }()

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "hello", line)

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestSignalReaderSurfacesInterrupt(t *testing.T) {
	inner := &blockingReader{unblock: make(chan struct{})}
	t.Cleanup(func() { close(inner.unblock) })

	sigs := make(chan os.Signal, 1)
	r := NewSignalReader(inner, sigs)
	defer func() { _ = r.Close() }()

	sigs <- os.Interrupt
	_, err := r.ReadLine()
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestSignalReaderCloseEndsReads(t *testing.T) {
	inner := &blockingReader{unblock: make(chan struct{})}
	t.Cleanup(func() { close(inner.unblock) })

	sigs := make(chan os.Signal, 1)
	r := NewSignalReader(inner, sigs)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close(), "close is idempotent")

	_, err := r.ReadLine()
	assert.ErrorIs(t, err, ErrInputClosed)
}
