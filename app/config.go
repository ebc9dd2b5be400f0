package app

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config selects a scenario and sizes it.
type Config struct {
	Scenario  string `toml:"scenario"`
	Contexts  int    `toml:"contexts"`
	Rounds    int    `toml:"rounds"`
	StackSize int    `toml:"stack_size"`
	Trace     bool   `toml:"trace"`
	// Parallel is the number of independent kernels run at once.
	Parallel int `toml:"parallel"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		Scenario: "ring",
		Contexts: 8,
		Rounds:   4,
		Parallel: 1,
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations no scenario can run.
func (c Config) Validate() error {
	if _, ok := scenarios[c.Scenario]; !ok {
		return fmt.Errorf("unknown scenario %q (want one of %s)", c.Scenario, strings.Join(Scenarios(), ", "))
	}
	if c.Contexts < 2 {
		return fmt.Errorf("contexts must be at least 2, got %d", c.Contexts)
	}
	if c.Rounds < 1 {
		return fmt.Errorf("rounds must be at least 1, got %d", c.Rounds)
	}
	if c.StackSize < 0 {
		return fmt.Errorf("stack_size must not be negative, got %d", c.StackSize)
	}
	if c.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", c.Parallel)
	}
	return nil
}

// Scenarios lists the scenario names in sorted order.
func Scenarios() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
