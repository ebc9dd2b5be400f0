//go:build tinygo && !baremetal

package hal

type tinyGoHostHAL struct {
	logger printLogger
	mem    Memory
}

// New returns a TinyGo HAL for hosted targets (wasm, linux).
func New() HAL {
	return &tinyGoHostHAL{mem: NewHeapMemory(4096)}
}

func (h *tinyGoHostHAL) Logger() Logger { return h.logger }
func (h *tinyGoHostHAL) Memory() Memory { return h.mem }

type printLogger struct{}

func (printLogger) WriteLineString(s string) { println(s) }
func (printLogger) WriteLineBytes(b []byte)  { println(string(b)) }
