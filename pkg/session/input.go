package session

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"
)

// ErrInputClosed is returned by a LineReader when the input stream ends.
var ErrInputClosed = errors.New("input stream closed")

// ErrInterrupted is returned by a LineReader when the read was interrupted,
// typically by SIGINT.
var ErrInterrupted = errors.New("input interrupted")

// LineReader supplies the session loop with one line of input at a time.
type LineReader interface {
	ReadLine() (string, error)
}

type streamReader struct {
	scanner *bufio.Scanner
}

// NewLineReader wraps an io.Reader as a LineReader.
func NewLineReader(r io.Reader) LineReader {
	return &streamReader{scanner: bufio.NewScanner(r)}
}

func (s *streamReader) ReadLine() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", ErrInputClosed
	}
	return s.scanner.Text(), nil
}

// SignalReader wraps a LineReader so that a signal delivery surfaces as
// ErrInterrupted instead of blocking until the next line.
type SignalReader struct {
	inner LineReader
	sigs  <-chan os.Signal
	lines chan readResult
	done  chan struct{}
	once  sync.Once
}

type readResult struct {
	line string
	err  error
}

// NewSignalReader starts a background goroutine reading from inner. A line
// arriving after an interrupt is delivered on the following call. Close
// releases the goroutine when the session ends.
func NewSignalReader(inner LineReader, sigs <-chan os.Signal) *SignalReader {
	r := &SignalReader{
		inner: inner,
		sigs:  sigs,
		lines: make(chan readResult, 1),
		done:  make(chan struct{}),
	}
	go r.pump()
	return r
}

func (r *SignalReader) pump() {
	for {
		line, err := r.inner.ReadLine()
		select {
		case r.lines <- readResult{line: line, err: err}:
		case <-r.done:
			return
		}
		if err != nil {
			return
		}
	}
}

func (r *SignalReader) ReadLine() (string, error) {
	select {
	case res := <-r.lines:
		return res.line, res.err
	case <-r.sigs:
		return "", ErrInterrupted
	case <-r.done:
		return "", ErrInputClosed
	}
}

// Close releases the background goroutine. The inner reader is not closed;
// a read blocked inside it ends when its stream does.
func (r *SignalReader) Close() error {
	r.once.Do(func() { close(r.done) })
	return nil
}
