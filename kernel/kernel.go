package kernel

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"green/hal"
)

// ID addresses a context. 0 is the main context and is never assigned to a
// spawned one.
type ID uint64

// Entry is the body of a context. It receives the handle the context uses to
// talk to its kernel; when it returns the context terminates.
type Entry func(*Context)

// DefaultStackSize is used when a spawn asks for a stack size <= 0.
const DefaultStackSize = 64 << 10

var (
	ErrAlreadyBooted = errors.New("kernel: bootstrap called twice")
	ErrDeadlock      = errors.New("kernel: deadlock")
	ErrNoRunnable    = errors.New("kernel: no runnable context and no main context")
	ErrNotRunning    = errors.New("kernel: context used while not running")

	errGoexit = errors.New("kernel: context left via runtime.Goexit")
)

// Config tunes a Kernel. The zero value is usable.
type Config struct {
	// Memory provides stack regions. Defaults to the platform HAL memory.
	Memory hal.Memory
	// Logger receives trace lines when Trace is set.
	Logger hal.Logger
	Trace  bool
	// StackSize applies to spawns that pass a size <= 0.
	StackSize int
	// IDs is the raw id source. Draws that collide with a live id, or are 0,
	// are discarded. Defaults to math/rand.Uint64.
	IDs func() uint64
}

// Stats is a snapshot of kernel bookkeeping.
type Stats struct {
	Ready       int
	Waiting     int
	Mailboxes   int
	Queued      int
	Live        int
	PendingFree int
	PendingPeak int

	Spawned   uint64
	Reclaimed uint64
	Switches  uint64
}

// Kernel is a cooperative scheduler plus mailbox router multiplexing many
// contexts onto one logical thread of control. The zero value is ready to
// Run with a default Config.
//
// None of its state is locked: exactly one context runs at a time and every
// mutation happens between one context yielding and the next resuming.
type Kernel struct {
	cfg    Config
	booted atomic.Bool

	main    *regs
	fault   *PanicInfo
	halted  bool
	unwound chan struct{}
	threads sync.WaitGroup

	ready   queue[*task]
	waiting map[ID]*task
	mail    mailbox
	ids     idRegistry

	pending     []hal.Region
	pendingPeak int

	spawned   uint64
	reclaimed uint64
	switches  uint64
}

// New creates a kernel instance.
func New(cfg Config) *Kernel {
	return &Kernel{cfg: cfg.withDefaults()}
}

func (c Config) withDefaults() Config {
	if c.Memory == nil {
		c.Memory = hal.New().Memory()
	}
	if c.StackSize <= 0 {
		c.StackSize = DefaultStackSize
	}
	if c.IDs == nil {
		c.IDs = rand.Uint64
	}
	return c
}

// Run turns the calling goroutine into the main context, starts entry as the
// first context and blocks until every context has terminated. The kernel is
// then torn down and Stats reports empty collections.
//
// A Kernel boots once: a second call is fatal. Fatal errors raised inside the
// kernel are re-raised here as a *PanicInfo.
func (k *Kernel) Run(entry Entry, stackSize int) {
	if !k.booted.CompareAndSwap(false, true) {
		abort(&PanicInfo{Value: ErrAlreadyBooted, Stack: captureStack()})
	}

	k.cfg = k.cfg.withDefaults()
	k.main = newMainRegs()
	k.unwound = make(chan struct{})
	k.waiting = make(map[ID]*task)
	k.mail.init()
	k.ids.init()
	k.logf("kernel: boot")

	t, err := k.newTask(entry, stackSize)
	if err != nil {
		k.teardown()
		abort(&PanicInfo{Value: fmt.Errorf("kernel: spawn: %w", err)})
	}
	k.ready.pushBack(t)
	k.swap(k.main, &t.regs)
	k.reclaim()

	fault := k.fault
	k.teardown()
	k.logf("kernel: halt spawned=%d reclaimed=%d switches=%d", k.spawned, k.reclaimed, k.switches)
	if fault != nil {
		abort(fault)
	}
}

// teardown unwinds every parked context, one at a time, and releases all
// kernel state. No context goroutine survives it.
func (k *Kernel) teardown() {
	k.halted = true
	for _, t := range k.ready.drain() {
		k.unwind(t)
		k.retire(t)
	}
	for id, t := range k.waiting {
		k.unwind(t)
		k.retire(t)
		delete(k.waiting, id)
	}
	k.threads.Wait()
	k.reclaim()
	k.mail.clear()
	k.ids.clear()
	k.main = nil
}

// Stats returns a snapshot of the kernel's bookkeeping. It must be called
// from a running context of k or while k is not running.
func (k *Kernel) Stats() Stats {
	return Stats{
		Ready:       k.ready.len(),
		Waiting:     len(k.waiting),
		Mailboxes:   len(k.mail.q),
		Queued:      k.mail.queued,
		Live:        k.ids.len(),
		PendingFree: len(k.pending),
		PendingPeak: k.pendingPeak,
		Spawned:     k.spawned,
		Reclaimed:   k.reclaimed,
		Switches:    k.switches,
	}
}

func (k *Kernel) running() *task {
	t, _ := k.ready.front()
	return t
}

func (k *Kernel) logf(format string, args ...any) {
	if !k.cfg.Trace || k.cfg.Logger == nil {
		return
	}
	k.cfg.Logger.WriteLineString(fmt.Sprintf(format, args...))
}
