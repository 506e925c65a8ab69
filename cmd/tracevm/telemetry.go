package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/wudi/tracevm/telemetry"
)

var telemetryCommand = &cli.Command{
	Name:  "telemetry",
	Usage: "inspect a telemetry sink",
	Commands: []*cli.Command{
		{
			Name:  "tail",
			Usage: "print the most recent trace-compile/guard-failure events",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "dsn",
					Usage:    "telemetry sink DSN (sqlite:..., mysql://..., postgres://...)",
					Required: true,
				},
				&cli.IntFlag{
					Name:  "n",
					Usage: "number of events to show",
					Value: 20,
				},
			},
			Action: telemetryTailAction,
		},
	},
}

func telemetryTailAction(ctx context.Context, cmd *cli.Command) error {
	events, err := telemetry.Tail(cmd.String("dsn"), int(cmd.Int("n")))
	if err != nil {
		return err
	}
	for _, ev := range events {
		fmt.Printf("%s  run=%s  %s[%d]\n", ev.Kind, ev.RunID, ev.Function, ev.PC)
	}
	return nil
}
