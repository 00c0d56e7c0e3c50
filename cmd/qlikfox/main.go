package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/ofirwie/qlikfox/cmd/qlikfox/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "qlikfox",
		Usage: "trigger and monitor Qlik app reloads on cloud or on-prem",
		Commands: []*cli.Command{
			{
				Name:  "trigger",
				Usage: "start a reload for one app",
				Flags: commands.CommonFlags(
					&cli.StringFlag{Name: "app", Usage: "app ID", Required: true},
					&cli.BoolFlag{Name: "wait", Usage: "monitor the reload to completion"},
					&cli.BoolFlag{Name: "partial", Usage: "request a partial reload"},
					&cli.BoolFlag{Name: "skip-store", Usage: "skip store statements (cloud only)"},
					&cli.IntFlag{Name: "timeout", Usage: "monitoring timeout in seconds"},
					&cli.IntFlag{Name: "interval", Usage: "polling interval in seconds"},
				),
				Action: commands.TriggerAction,
			},
			{
				Name:  "bulk",
				Usage: "start reloads for multiple apps",
				Flags: commands.CommonFlags(
					&cli.StringFlag{Name: "apps", Usage: "comma-separated app IDs", Required: true},
					&cli.BoolFlag{Name: "partial", Usage: "request partial reloads"},
					&cli.BoolFlag{Name: "skip-store", Usage: "skip store statements (cloud only)"},
				),
				Action: commands.BulkAction,
			},
			{
				Name:  "status",
				Usage: "show the current state of a reload",
				Flags: commands.CommonFlags(
					&cli.StringFlag{Name: "id", Usage: "reload or task ID", Required: true},
				),
				Action: commands.StatusAction,
			},
			{
				Name:  "latest",
				Usage: "show the most recent reload of an app",
				Flags: commands.CommonFlags(
					&cli.StringFlag{Name: "app", Usage: "app ID", Required: true},
				),
				Action: commands.LatestAction,
			},
			{
				Name:  "logs",
				Usage: "fetch the script log of a reload",
				Flags: commands.CommonFlags(
					&cli.StringFlag{Name: "id", Usage: "reload ID", Required: true},
					&cli.BoolFlag{Name: "errors-only", Usage: "print only error lines"},
				),
				Action: commands.LogsAction,
			},
			{
				Name:  "cancel",
				Usage: "request cancellation of a running reload",
				Flags: commands.CommonFlags(
					&cli.StringFlag{Name: "id", Usage: "reload or task ID", Required: true},
				),
				Action: commands.CancelAction,
			},
			{
				Name:   "monitor",
				Usage:  "list reloads currently queued or running",
				Flags:  commands.CommonFlags(),
				Action: commands.MonitorAction,
			},
			{
				Name:  "history",
				Usage: "list past reloads, tenant-wide or for one app",
				Flags: commands.CommonFlags(
					&cli.StringFlag{Name: "app", Usage: "restrict to one app ID"},
					&cli.StringFlag{Name: "space", Usage: "restrict to one space ID (resolved via app details)"},
					&cli.IntFlag{Name: "limit", Usage: "page size"},
					&cli.IntFlag{Name: "offset", Usage: "page offset"},
					&cli.StringFlag{Name: "state", Usage: "filter by state"},
					&cli.StringFlag{Name: "from", Usage: "only reloads started at or after this time (RFC 3339)"},
					&cli.StringFlag{Name: "to", Usage: "only reloads started at or before this time (RFC 3339)"},
					&cli.BoolFlag{Name: "details", Usage: "resolve app names and spaces"},
				),
				Action: commands.HistoryAction,
			},
			{
				Name:  "stats",
				Usage: "aggregate reload statistics for one app",
				Flags: commands.CommonFlags(
					&cli.StringFlag{Name: "app", Usage: "app ID", Required: true},
					&cli.IntFlag{Name: "limit", Usage: "number of recent reloads to aggregate"},
				),
				Action: commands.StatsAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
