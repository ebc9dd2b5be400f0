package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"green/hal"
	"green/kernel"
)

// Report summarizes one kernel run.
type Report struct {
	RunID    string
	Scenario string
	Steps    int
	Stats    kernel.Stats
}

func (r Report) String() string {
	return fmt.Sprintf("run=%s scenario=%s steps=%d spawned=%d switches=%d reclaimed=%d pending_peak=%d",
		r.RunID, r.Scenario, r.Steps, r.Stats.Spawned, r.Stats.Switches, r.Stats.Reclaimed, r.Stats.PendingPeak)
}

// Run executes cfg.Parallel independent kernels concurrently and logs one
// report line per kernel. Each kernel stays single-threaded.
func Run(ctx context.Context, h hal.HAL, cfg Config) ([]Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	installPanicHandler(h)

	reports := make([]Report, cfg.Parallel)
	g, ctx := errgroup.WithContext(ctx)
	for i := range reports {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep, err := RunOne(h, cfg)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			reports[i] = rep
			if l := h.Logger(); l != nil {
				l.WriteLineString(rep.String())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// RunOne boots a fresh kernel for cfg.Scenario. Fatal kernel stops are
// returned as errors wrapping the *kernel.PanicInfo.
func RunOne(h hal.HAL, cfg Config) (rep Report, err error) {
	sc, ok := scenarios[cfg.Scenario]
	if !ok {
		return Report{}, fmt.Errorf("unknown scenario %q", cfg.Scenario)
	}
	rep = Report{RunID: uuid.NewString(), Scenario: cfg.Scenario}
	k := kernel.New(kernel.Config{
		Memory:    h.Memory(),
		Logger:    runLogger{l: h.Logger(), run: rep.RunID[:8]},
		Trace:     cfg.Trace,
		StackSize: cfg.StackSize,
	})

	defer func() {
		if r := recover(); r != nil {
			info, ok := r.(*kernel.PanicInfo)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("%s: %w", cfg.Scenario, info)
		}
	}()

	steps, err := sc(k, cfg)
	rep.Steps = steps
	rep.Stats = k.Stats()
	if err != nil {
		return rep, fmt.Errorf("%s: %w", cfg.Scenario, err)
	}
	if err := checkDrained(rep.Stats); err != nil {
		return rep, fmt.Errorf("%s: %w", cfg.Scenario, err)
	}
	return rep, nil
}

func checkDrained(st kernel.Stats) error {
	if st.Ready != 0 || st.Waiting != 0 || st.Mailboxes != 0 || st.Live != 0 || st.PendingFree != 0 {
		return fmt.Errorf("kernel state not empty after teardown: %+v", st)
	}
	if st.Reclaimed != st.Spawned {
		return fmt.Errorf("reclaimed %d stacks, spawned %d", st.Reclaimed, st.Spawned)
	}
	return nil
}

// runLogger tags kernel trace lines with the run they belong to.
type runLogger struct {
	l   hal.Logger
	run string
}

func (r runLogger) WriteLineString(s string) {
	if r.l != nil {
		r.l.WriteLineString("[" + r.run + "] " + s)
	}
}

func (r runLogger) WriteLineBytes(b []byte) { r.WriteLineString(string(b)) }
