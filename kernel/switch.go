package kernel

import "runtime"

// regs is the saved state of a context.
//
// The goroutine backing a context holds its live registers and frames; regs
// records how to get back into it. A non-nil pc means the context has never
// run: the first jump starts pc instead of resuming.
type regs struct {
	pc     func()
	resume chan uint64
	n      uint64
}

func newRegs(pc func()) regs {
	return regs{
		pc:     pc,
		resume: make(chan uint64, 1),
	}
}

// newMainRegs returns the snapshot of the goroutine that called Run.
func newMainRegs() *regs {
	return &regs{resume: make(chan uint64, 1)}
}

// save parks the caller on r and returns the resume discriminator once
// another context jumps back in. The discriminator is never zero: a zero
// resume comes from teardown and unwinds the goroutine instead.
func (k *Kernel) save(r *regs) uint64 {
	n := <-r.resume
	if n == 0 {
		runtime.Goexit()
	}
	return n
}

// jump transfers control to r. The caller must not touch kernel state
// afterwards: whatever runs next owns it.
func (k *Kernel) jump(r *regs) {
	k.switches++
	if pc := r.pc; pc != nil {
		r.pc = nil
		k.threads.Add(1)
		go pc()
		return
	}
	r.n++
	r.resume <- r.n
}

// swap jumps to to and parks the caller on from until it is resumed.
func (k *Kernel) swap(from, to *regs) uint64 {
	k.jump(to)
	return k.save(from)
}

// unwind resumes a parked context with the zero discriminator and blocks
// until its goroutine has run its deferred calls. Only main calls it, one
// context at a time, so deferred user code still never runs concurrently.
func (k *Kernel) unwind(t *task) {
	if t.regs.pc != nil || t.finished {
		return
	}
	t.regs.resume <- 0
	<-k.unwound
}
