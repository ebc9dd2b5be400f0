package app

import (
	"errors"
	"fmt"

	"green/kernel"
)

// scenario boots k, runs a workload on it and checks the workload's own
// invariants. It returns the number of steps observed.
type scenario func(k *kernel.Kernel, cfg Config) (int, error)

var scenarios = map[string]scenario{
	"ring":     runRing,
	"fair":     runFair,
	"pingpong": runPingPong,
	"fanin":    runFanIn,
}

// runRing arranges Contexts contexts in a ring. Each sends its index to the
// next one and terminates when it receives from the previous one.
func runRing(k *kernel.Kernel, cfg Config) (int, error) {
	n := cfg.Contexts
	var errs []error
	delivered := 0

	k.Run(func(c *kernel.Context) {
		ids := make([]kernel.ID, n)
		started := false
		for i := 0; i < n; i++ {
			i := i
			ids[i] = c.Spawn(func(c *kernel.Context) {
				for !started {
					c.Schedule()
				}
				c.Send(ids[(i+1)%n], i)
				msg := recvRetry(c)
				prev := (i + n - 1) % n
				if msg.Value != prev || msg.From != ids[prev] {
					errs = append(errs, fmt.Errorf("ring member %d got %v from %x, want %d from %x", i, msg.Value, msg.From, prev, ids[prev]))
				}
				delivered++
			}, cfg.StackSize)
		}
		started = true
	}, cfg.StackSize)

	if delivered != n {
		errs = append(errs, fmt.Errorf("ring delivered %d messages, want %d", delivered, n))
	}
	return delivered, errors.Join(errs...)
}

// runFair spawns Contexts contexts that never block and checks that, once all
// are running, turns follow the spawn order cyclically.
func runFair(k *kernel.Kernel, cfg Config) (int, error) {
	n, rounds := cfg.Contexts, cfg.Rounds
	var order []int

	k.Run(func(c *kernel.Context) {
		started := false
		for w := 0; w < n; w++ {
			w := w
			c.Spawn(func(c *kernel.Context) {
				for !started {
					c.Schedule()
				}
				for r := 0; r < rounds; r++ {
					order = append(order, w)
					c.Schedule()
				}
			}, cfg.StackSize)
		}
		started = true
	}, cfg.StackSize)

	if len(order) != n*rounds {
		return len(order), fmt.Errorf("fair recorded %d turns, want %d", len(order), n*rounds)
	}
	off := order[0]
	for i, w := range order {
		if want := (off + i) % n; w != want {
			return len(order), fmt.Errorf("fair turn %d ran context %d, want %d", i, w, want)
		}
	}
	return len(order), nil
}

// runPingPong bounces a counter between two contexts Rounds times.
func runPingPong(k *kernel.Kernel, cfg Config) (int, error) {
	var errs []error
	steps := 0

	k.Run(func(c *kernel.Context) {
		pong := c.Spawn(func(c *kernel.Context) {
			for r := 0; r < cfg.Rounds; r++ {
				msg := recvRetry(c)
				v, _ := msg.Value.(int)
				c.Send(msg.From, v+1)
				steps++
			}
		}, cfg.StackSize)

		for r := 0; r < cfg.Rounds; r++ {
			c.Send(pong, 2*r)
			msg := recvRetry(c)
			if msg.Value != 2*r+1 {
				errs = append(errs, fmt.Errorf("pingpong round %d got %v, want %d", r, msg.Value, 2*r+1))
			}
			steps++
		}
	}, cfg.StackSize)

	if steps != 2*cfg.Rounds {
		errs = append(errs, fmt.Errorf("pingpong made %d steps, want %d", steps, 2*cfg.Rounds))
	}
	return steps, errors.Join(errs...)
}

// runFanIn has Contexts-1 producers each send Rounds sequence numbers to one
// collector, which checks FIFO order per producer.
func runFanIn(k *kernel.Kernel, cfg Config) (int, error) {
	producers := cfg.Contexts - 1
	total := producers * cfg.Rounds
	var errs []error
	received := 0

	k.Run(func(c *kernel.Context) {
		collector := c.Spawn(func(c *kernel.Context) {
			next := make(map[kernel.ID]int)
			for received < total {
				msg := recvRetry(c)
				if msg.Value != next[msg.From] {
					errs = append(errs, fmt.Errorf("fanin from %x got %v, want %d", msg.From, msg.Value, next[msg.From]))
				}
				next[msg.From]++
				received++
			}
		}, cfg.StackSize)

		for p := 0; p < producers; p++ {
			c.Spawn(func(c *kernel.Context) {
				for r := 0; r < cfg.Rounds; r++ {
					c.Send(collector, r)
				}
			}, cfg.StackSize)
		}
	}, cfg.StackSize)

	if received != total {
		errs = append(errs, fmt.Errorf("fanin received %d messages, want %d", received, total))
	}
	return received, errors.Join(errs...)
}

// recvRetry loops on Recv: a wake does not guarantee a queued message.
func recvRetry(c *kernel.Context) kernel.Message {
	for {
		if msg, ok := c.Recv(); ok {
			return msg
		}
	}
}
