package kernel

import "green/hal"

// task is one execution context. At any time it is owned by exactly one of
// the ready queue (running when at the head), the waiting table, or the
// pending-free list once it has terminated.
type task struct {
	id    ID
	stack hal.Region
	regs  regs
	entry Entry

	// finished is set once the goroutine has left the entry for good.
	finished bool
}

func (k *Kernel) newTask(entry Entry, stackSize int) (*task, error) {
	if stackSize <= 0 {
		stackSize = k.cfg.StackSize
	}
	stack, err := k.cfg.Memory.MapStack(stackSize)
	if err != nil {
		return nil, err
	}

	t := &task{
		id:    k.ids.next(k.cfg.IDs),
		stack: stack,
		entry: entry,
	}
	t.regs = newRegs(func() { k.trampoline(t) })
	k.spawned++
	k.logf("kernel: spawn id=%x stack=%d", t.id, stack.Len())
	return t, nil
}
