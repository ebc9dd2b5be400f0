package kernel

import (
	"fmt"
	"sync/atomic"
)

// PanicInfo describes a fatal stop of a kernel.
//
// Kernel.Run re-panics with a *PanicInfo after tearing the kernel down, so
// the process aborts unless the caller of Run recovers it.
type PanicInfo struct {
	// ContextID is the context that failed, or 0 for the main context.
	ContextID ID
	Value     any
	Stack     []byte
}

func (p *PanicInfo) Error() string {
	if p.ContextID == 0 {
		return fmt.Sprintf("kernel panic: main: %v", p.Value)
	}
	return fmt.Sprintf("kernel panic: context %x: %v", p.ContextID, p.Value)
}

// Unwrap exposes Value when it is an error, so errors.Is(p, ErrDeadlock) works.
func (p *PanicInfo) Unwrap() error {
	err, _ := p.Value.(error)
	return err
}

var panicHandler atomic.Value // func(PanicInfo)

// SetPanicHandler installs a process-wide hook called for every fatal stop,
// before the panic is raised in the caller of Run. It must not panic.
func SetPanicHandler(fn func(PanicInfo)) {
	panicHandler.Store(fn)
}

func notifyPanic(info *PanicInfo) {
	if v := panicHandler.Load(); v != nil {
		if fn, ok := v.(func(PanicInfo)); ok && fn != nil {
			fn(*info)
		}
	}
}

// abort reports info and panics with it on the calling goroutine.
func abort(info *PanicInfo) {
	notifyPanic(info)
	panic(info)
}
