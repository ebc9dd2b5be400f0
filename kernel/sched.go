package kernel

import "fmt"

// schedule rotates the running context to the tail of the ready queue and
// switches to the new head. With a single ready context it only reclaims.
func (k *Kernel) schedule() {
	if k.ready.len() > 1 {
		cur, _ := k.ready.popFront()
		k.ready.pushBack(cur)
		next, _ := k.ready.front()
		k.swap(&cur.regs, &next.regs)
	}
	k.reclaim()
}

func (k *Kernel) spawn(entry Entry, stackSize int) ID {
	t, err := k.newTask(entry, stackSize)
	if err != nil {
		panic(fmt.Errorf("kernel: spawn: %w", err))
	}
	k.ready.pushBack(t)
	k.schedule()
	return t.id
}

// retire hands a terminated context's stack to the pending-free list. Stacks
// are only released at the next safe point, once nothing can run on them.
func (k *Kernel) retire(t *task) {
	k.pending = append(k.pending, t.stack)
	if len(k.pending) > k.pendingPeak {
		k.pendingPeak = len(k.pending)
	}
}

func (k *Kernel) reclaim() {
	for i, r := range k.pending {
		if err := r.Release(); err != nil {
			k.logf("kernel: release stack: %v", err)
		}
		k.pending[i] = nil
		k.reclaimed++
	}
	k.pending = k.pending[:0]
}

// trampoline is the first code every context runs.
func (k *Kernel) trampoline(t *task) {
	defer k.threads.Done()
	returned := false
	defer func() {
		if returned {
			return
		}
		r := recover()
		if k.halted {
			// Unwound by teardown while parked.
			k.unwound <- struct{}{}
			return
		}
		if r == nil {
			r = errGoexit
		}
		k.crash(t, r)
	}()

	if t.entry != nil {
		t.entry(&Context{k: k, t: t})
	}
	returned = true
	if err := k.exit(t); err != nil {
		k.crash(t, err)
	}
}

// exit retires the running context t and jumps to whatever runs next. With
// no ready context left control returns to main, even if some contexts are
// still waiting: teardown unwinds them.
func (k *Kernel) exit(t *task) error {
	k.ready.popFront()
	k.ids.release(t.id)
	k.retire(t)
	k.logf("kernel: exit id=%x", t.id)

	if next, ok := k.ready.front(); ok {
		k.jump(&next.regs)
		return nil
	}
	if k.main == nil {
		return ErrNoRunnable
	}
	k.jump(k.main)
	return nil
}

// crash records a fatal stop and hands control to the main context, which
// tears the kernel down and re-raises it.
func (k *Kernel) crash(t *task, v any) {
	info, ok := v.(*PanicInfo)
	if !ok {
		info = &PanicInfo{Value: v, Stack: captureStack()}
	}
	if info.ContextID == 0 {
		info.ContextID = t.id
	}
	t.finished = true
	k.fault = info
	if k.main == nil {
		panic(info)
	}
	k.jump(k.main)
}

func (k *Kernel) send(from, to ID, v any) {
	k.mail.push(Message{From: from, To: to, Value: v})
	if t, ok := k.waiting[to]; ok {
		delete(k.waiting, to)
		k.ready.pushBack(t)
		k.logf("kernel: wake id=%x", to)
	}
	k.schedule()
}

// recv pops the next message for t, suspending t while its mailbox is empty.
//
// A wake is not paired with a particular message: after resuming, t takes
// whatever is at the head of its mailbox.
func (k *Kernel) recv(t *task) (Message, bool) {
	if msg, ok := k.mail.pop(t.id); ok {
		return msg, true
	}
	if k.ready.len() == 1 {
		panic(fmt.Errorf("%w: recv on sole runnable context %x", ErrDeadlock, t.id))
	}

	k.ready.popFront()
	k.waiting[t.id] = t
	k.logf("kernel: wait id=%x", t.id)
	next, _ := k.ready.front()
	k.swap(&t.regs, &next.regs)
	k.reclaim()
	return k.mail.pop(t.id)
}
