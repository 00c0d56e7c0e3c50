package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ofirwie/qlikfox/internal/model"
)

// LogsAction fetches and prints the script log of one reload.
func LogsAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("config"), cmd.String("env"))
	if err != nil {
		return err
	}

	log, err := appCtx.Engine.GetReloadLogs(ctx, cmd.String("id"))
	if err != nil {
		return fmt.Errorf("fetching reload log: %w", err)
	}

	if cmd.Bool("json") {
		return printJSON(log)
	}

	if log.Note != "" {
		fmt.Println(log.Note)
	}
	errorsOnly := cmd.Bool("errors-only")
	for _, entry := range log.Entries {
		if errorsOnly && entry.Level != model.LogLevelError {
			continue
		}
		if entry.Timestamp != "" {
			fmt.Printf("%5d  %-5s  %s  %s\n", entry.LineNumber, entry.Level, entry.Timestamp, entry.Message)
		} else {
			fmt.Printf("%5d  %-5s  %s\n", entry.LineNumber, entry.Level, entry.Message)
		}
	}
	fmt.Printf("\n%d lines, %d errors, %d warnings\n",
		log.Summary.TotalLines, log.Summary.Errors, log.Summary.Warnings)
	return nil
}
