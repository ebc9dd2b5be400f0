//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type hostHAL struct {
	logger *hostLogger
	mem    Memory
}

// New returns a host HAL implementation.
func New() HAL {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter returns a host HAL that logs to w.
func NewWithWriter(w io.Writer) HAL {
	return &hostHAL{
		logger: &hostLogger{w: w},
		mem:    newHostMemory(),
	}
}

func (h *hostHAL) Logger() Logger { return h.logger }
func (h *hostHAL) Memory() Memory { return h.mem }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
