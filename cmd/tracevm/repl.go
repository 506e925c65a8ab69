package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v3"

	"github.com/wudi/tracevm/demo"
	"github.com/wudi/tracevm/interpreter"
	"github.com/wudi/tracevm/vm"
)

var replCommand = &cli.Command{
	Name:  "repl",
	Usage: "inspect the demo module's trace cache interactively",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		return runREPL()
	},
}

// runREPL is a thin readline-backed shell around a single Interpreter,
// driving the demo module. It is an inspection tool, not a single-step
// debugger: "run" executes the module to completion (the dispatch loop
// isn't externally pausable), after which "cache"/"frames" report on what
// that run produced.
func runREPL() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tracevm> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	mod := demo.Program(demo.DefaultElements)
	ip := interpreter.New(mod, vm.NewSink(os.Stdout))

	fmt.Println("tracevm repl — commands: run, cache, frames, hotspots, quit")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(line) {
		case "run":
			if err := ip.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "run error: %v\n", err)
			}
		case "cache":
			fmt.Printf("cached traces: %d\n", ip.Cache.Len())
			for _, stat := range ip.Counter.Snapshot() {
				fmt.Printf("  %s[%d]: hits=%d misses=%d\n", stat.Function, stat.PC, stat.Hits, stat.Misses)
			}
		case "frames":
			fmt.Printf("call-stack depth: %d\n", ip.Frames.Depth())
		case "hotspots":
			for i, spot := range ip.Profile.HotSpots(5) {
				fmt.Printf("#%d: %s[%d] executed %d times\n", i+1, spot.Function, spot.PC, spot.Count)
			}
		case "quit", "exit":
			return nil
		case "":
			// ignore blank lines
		default:
			fmt.Printf("unknown command %q\n", line)
		}
	}
}
