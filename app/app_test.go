package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"green/hal"
)

func TestScenariosPass(t *testing.T) {
	for _, name := range Scenarios() {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Scenario = name
			cfg.Contexts = 5
			cfg.Rounds = 3

			rep, err := RunOne(hal.NewWithWriter(&bytes.Buffer{}), cfg)
			if err != nil {
				t.Fatalf("RunOne(%s): %v", name, err)
			}
			if rep.Steps == 0 {
				t.Fatalf("RunOne(%s) Steps = 0", name)
			}
			if rep.Stats.Spawned < 2 {
				t.Fatalf("RunOne(%s) Spawned = %d, want >= 2", name, rep.Stats.Spawned)
			}
		})
	}
}

func TestScenarioSteps(t *testing.T) {
	cases := []struct {
		scenario string
		want     int
	}{
		{"ring", 6},
		{"fair", 6 * 4},
		{"pingpong", 2 * 4},
		{"fanin", 5 * 4},
	}
	for _, c := range cases {
		cfg := Config{Scenario: c.scenario, Contexts: 6, Rounds: 4, Parallel: 1}
		rep, err := RunOne(hal.NewWithWriter(&bytes.Buffer{}), cfg)
		if err != nil {
			t.Fatalf("RunOne(%s): %v", c.scenario, err)
		}
		if rep.Steps != c.want {
			t.Fatalf("RunOne(%s) Steps = %d, want %d", c.scenario, rep.Steps, c.want)
		}
	}
}

func TestRunParallelKernels(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Parallel = 4
	cfg.StackSize = 8 << 10

	reps, err := Run(context.Background(), hal.NewWithWriter(&buf), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(reps) != 4 {
		t.Fatalf("len(reports) = %d, want 4", len(reps))
	}
	seen := make(map[string]bool)
	for _, r := range reps {
		if seen[r.RunID] {
			t.Fatalf("duplicate run id %s", r.RunID)
		}
		seen[r.RunID] = true
	}
	if got := strings.Count(buf.String(), "scenario=ring"); got != 4 {
		t.Fatalf("report lines = %d, want 4:\n%s", got, buf.String())
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, hal.NewWithWriter(&bytes.Buffer{}), DefaultConfig()); err == nil {
		t.Fatal("expected error from canceled context")
	}
}

func TestTraceLinesCarryRunID(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Scenario = "pingpong"
	cfg.Trace = true

	rep, err := RunOne(hal.NewWithWriter(&buf), cfg)
	if err != nil {
		t.Fatalf("RunOne: %v", err)
	}
	if !strings.Contains(buf.String(), "["+rep.RunID[:8]+"] kernel: spawn") {
		t.Fatalf("trace lines not tagged with run id:\n%s", buf.String())
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "green.toml")
	data := "scenario = \"fanin\"\ncontexts = 12\nstack_size = 16384\nparallel = 2\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := Config{Scenario: "fanin", Contexts: 12, Rounds: 4, StackSize: 16384, Parallel: 2}
	if cfg != want {
		t.Fatalf("LoadConfig() = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, data := range map[string]string{
		"unknown.toml": "scenario = \"spin\"\n",
		"small.toml":   "contexts = 1\n",
		"broken.toml":  "scenario = \n",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Fatalf("LoadConfig(%s) succeeded, want error", name)
		}
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatal("LoadConfig(missing) succeeded, want error")
	}
}

func TestRunOneUnknownScenario(t *testing.T) {
	if _, err := RunOne(hal.NewWithWriter(&bytes.Buffer{}), Config{Scenario: "nope"}); err == nil {
		t.Fatal("expected error for unknown scenario")
	}
}
