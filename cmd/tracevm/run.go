package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/wudi/tracevm/demo"
	"github.com/wudi/tracevm/interpreter"
	"github.com/wudi/tracevm/telemetry"
	"github.com/wudi/tracevm/vm"
)

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "run the built-in demo module under both execution modes and compare the output",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "telemetry-config",
			Usage: "path to a YAML telemetry config (dsn/sample)",
		},
	},
	Action: runAction,
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	mod := demo.Program(demo.DefaultElements)
	sink, err := loadTelemetry(cmd.String("telemetry-config"))
	if err != nil {
		return err
	}
	defer sink.Close()

	var tracedOut, plainOut bytes.Buffer
	traced := interpreter.New(mod, vm.NewSink(&tracedOut))
	traced.Telemetry = sink
	traced.RunID = uuid.New().String()
	if err := traced.Run(); err != nil {
		return fmt.Errorf("tracing run: %w", err)
	}

	plain := interpreter.New(mod, vm.NewSink(&plainOut))
	plain.Tracing = false
	if err := plain.Run(); err != nil {
		return fmt.Errorf("plain dispatcher run: %w", err)
	}

	os.Stdout.Write(tracedOut.Bytes())
	if tracedOut.String() != plainOut.String() {
		return fmt.Errorf("execution modes disagree: traced %q, plain %q", tracedOut.String(), plainOut.String())
	}
	fmt.Println("both execution modes produced the same output")
	return nil
}

var benchCommand = &cli.Command{
	Name:  "bench",
	Usage: "run the demo module twice in one process and report trace-cache hit/miss counts",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		mod := demo.Program(demo.DefaultElements)
		ip := interpreter.New(mod, vm.NewSink(os.Stdout))

		if err := ip.Run(); err != nil {
			return fmt.Errorf("first run: %w", err)
		}
		if err := ip.Run(); err != nil {
			return fmt.Errorf("second run: %w", err)
		}

		for _, stat := range ip.Counter.Snapshot() {
			fmt.Printf("%s[%d]: hits=%d misses=%d\n", stat.Function, stat.PC, stat.Hits, stat.Misses)
		}
		return nil
	},
}

func loadTelemetry(configPath string) (telemetry.Sink, error) {
	if configPath == "" {
		return telemetry.Noop{}, nil
	}
	cfg, err := telemetry.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return telemetry.Open(cfg.DSN)
}
