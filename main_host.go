//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"green/app"
	"green/hal"
	"green/internal/buildinfo"
)

func main() {
	var configPath string
	var version bool
	cfg := app.DefaultConfig()
	flag.StringVar(&configPath, "config", "", "Load scenario settings from a TOML file.")
	flag.BoolVar(&version, "version", false, "Print the build version and exit.")
	flag.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "Scenario to run: ring, fair, pingpong, fanin.")
	flag.IntVar(&cfg.Contexts, "n", cfg.Contexts, "Number of contexts.")
	flag.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "Rounds per context.")
	flag.IntVar(&cfg.StackSize, "stack", cfg.StackSize, "Stack size per context in bytes (0 = kernel default).")
	flag.IntVar(&cfg.Parallel, "parallel", cfg.Parallel, "Independent kernels to run at once.")
	flag.BoolVar(&cfg.Trace, "trace", cfg.Trace, "Log kernel scheduling events.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.String())
		return
	}

	if configPath != "" {
		fileCfg, err := app.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		// Flags given explicitly on the command line win over the file.
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "scenario":
				fileCfg.Scenario = cfg.Scenario
			case "n":
				fileCfg.Contexts = cfg.Contexts
			case "rounds":
				fileCfg.Rounds = cfg.Rounds
			case "stack":
				fileCfg.StackSize = cfg.StackSize
			case "parallel":
				fileCfg.Parallel = cfg.Parallel
			case "trace":
				fileCfg.Trace = cfg.Trace
			}
		})
		cfg = fileCfg
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := app.Run(ctx, hal.New(), cfg); err != nil {
		if interrupted(err) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// interrupted reports whether err only says the run was stopped by a signal.
func interrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}
