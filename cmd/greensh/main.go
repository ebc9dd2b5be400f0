//go:build !tinygo

// Command greensh runs kernel scenarios line by line, either from an
// interactive prompt or from a script piped on stdin:
//
//	ring -n 16 -trace
//	fair -n 4 -rounds 10 -parallel 2
//	quit
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"github.com/peterh/liner"
	"golang.org/x/term"

	"green/app"
	"green/hal"
	"green/internal/buildinfo"
)

const historyFile = ".greensh_history"

type cmdKind uint8

const (
	cmdNone cmdKind = iota
	cmdRun
	cmdHelp
	cmdQuit
)

type command struct {
	kind cmdKind
	cfg  app.Config
}

func main() {
	h := hal.New()
	var err error
	if term.IsTerminal(int(os.Stdin.Fd())) {
		err = interactive(h)
	} else {
		err = script(h, os.Stdin)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// parseLine turns one shell line into a command. Blank lines and # comments
// yield cmdNone.
func parseLine(line string) (command, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return command{}, fmt.Errorf("split %q: %w", line, err)
	}
	if len(args) == 0 {
		return command{kind: cmdNone}, nil
	}

	switch args[0] {
	case "quit", "exit":
		return command{kind: cmdQuit}, nil
	case "help", "?":
		return command{kind: cmdHelp}, nil
	}

	cfg := app.DefaultConfig()
	cfg.Scenario = args[0]
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&cfg.Contexts, "n", cfg.Contexts, "")
	fs.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "")
	fs.IntVar(&cfg.StackSize, "stack", cfg.StackSize, "")
	fs.IntVar(&cfg.Parallel, "parallel", cfg.Parallel, "")
	fs.BoolVar(&cfg.Trace, "trace", cfg.Trace, "")
	if err := fs.Parse(args[1:]); err != nil {
		return command{}, fmt.Errorf("%s: %w", args[0], err)
	}
	if fs.NArg() > 0 {
		return command{}, fmt.Errorf("%s: unexpected argument %q", args[0], fs.Arg(0))
	}
	if err := cfg.Validate(); err != nil {
		return command{}, err
	}
	return command{kind: cmdRun, cfg: cfg}, nil
}

func usage() string {
	return "scenarios: " + strings.Join(app.Scenarios(), ", ") +
		"\nflags: -n contexts, -rounds r, -stack bytes, -parallel k, -trace" +
		"\ncommands: help, quit"
}

// execute runs one parsed line. It reports whether the shell should stop.
func execute(h hal.HAL, cmd command) (bool, error) {
	switch cmd.kind {
	case cmdQuit:
		return true, nil
	case cmdHelp:
		h.Logger().WriteLineString(usage())
	case cmdRun:
		if _, err := app.Run(context.Background(), h, cmd.cfg); err != nil {
			return false, err
		}
	}
	return false, nil
}

// script runs every line of r and stops at the first failing line.
func script(h hal.HAL, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		cmd, err := parseLine(sc.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		done, err := execute(h, cmd)
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if done {
			return nil
		}
	}
	return sc.Err()
}

func interactive(h hal.HAL) error {
	h.Logger().WriteLineString("greensh " + buildinfo.Short() + " (type help)")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt("green> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read prompt: %w", err)
		}
		cmd, err := parseLine(line)
		if err != nil {
			h.Logger().WriteLineString(err.Error())
			continue
		}
		if cmd.kind != cmdNone {
			ln.AppendHistory(line)
		}
		done, err := execute(h, cmd)
		if err != nil {
			h.Logger().WriteLineString(err.Error())
		}
		if done {
			return nil
		}
	}
}
