package kernel

import "runtime"

// Context provides context-local access to kernel operations.
//
// A Context is only valid inside the entry function it was passed to, while
// that context is running.
type Context struct {
	k *Kernel
	t *task
}

// ID returns the current context ID.
func (c *Context) ID() ID { return c.t.id }

// Stack returns the usable part of the context's stack region. It can serve
// as context-local scratch memory; it is released when the context exits.
func (c *Context) Stack() []byte {
	c.enter()
	return c.t.stack.Bytes()
}

// enter checks that c is the running context. During teardown it exits the
// goroutine so deferred user code cannot touch a dead kernel.
func (c *Context) enter() {
	if c.k.halted {
		runtime.Goexit()
	}
	if c.k.running() != c.t {
		panic(ErrNotRunning)
	}
}

// Spawn starts entry as a new context with its own stack and returns its ID
// after one scheduling pass. The ID may already be free again if the new
// context finished during that pass.
func (c *Context) Spawn(entry Entry, stackSize int) ID {
	c.enter()
	return c.k.spawn(entry, stackSize)
}

// Schedule yields to the next ready context, if any.
func (c *Context) Schedule() {
	c.enter()
	c.k.schedule()
}

// Send appends v to the mailbox of to, wakes to if it is blocked in Recv and
// yields once. It never blocks beyond that yield. Messages to ids with no live
// context stay queued until teardown.
func (c *Context) Send(to ID, v any) {
	c.enter()
	c.k.send(c.t.id, to, v)
}

// Recv returns the next message for this context, blocking while none is
// queued. Receiving on the only runnable context is a fatal deadlock.
//
// The bool is false only if a wake found the mailbox empty; callers should
// retry.
func (c *Context) Recv() (Message, bool) {
	c.enter()
	return c.k.recv(c.t)
}

// TryRecv returns the next queued message without blocking or yielding.
func (c *Context) TryRecv() (Message, bool) {
	c.enter()
	return c.k.mail.pop(c.t.id)
}
