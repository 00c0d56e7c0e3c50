package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/ofirwie/qlikfox/internal/model"
)

// TriggerAction starts a reload for one app, optionally monitoring it to
// completion.
func TriggerAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("config"), cmd.String("env"))
	if err != nil {
		return err
	}

	opts := reloadOptions(cmd, appCtx.Config)
	result, err := appCtx.Engine.TriggerReload(ctx, cmd.String("app"), opts)
	if err != nil {
		return fmt.Errorf("triggering reload: %w", err)
	}

	if cmd.Bool("json") {
		return printJSON(result)
	}

	if result.Task != nil {
		renderTaskTable(result.Task)
	}
	if result.TimedOut {
		fmt.Println("monitoring timed out before the reload finished")
	}
	if result.Error != "" {
		fmt.Printf("reload error: %s\n", result.Error)
	}
	if result.Log != nil && result.Log.Summary.Errors > 0 {
		fmt.Printf("script log contains %d error line(s), run `qlikfox logs` for details\n",
			result.Log.Summary.Errors)
	}
	return nil
}

// BulkAction triggers reloads for a comma-separated list of apps.
func BulkAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("config"), cmd.String("env"))
	if err != nil {
		return err
	}

	var appIDs []string
	for _, id := range strings.Split(cmd.String("apps"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			appIDs = append(appIDs, id)
		}
	}
	if len(appIDs) == 0 {
		return fmt.Errorf("--apps must name at least one app ID")
	}

	opts := model.ReloadOptions{
		Partial:   cmd.Bool("partial"),
		SkipStore: cmd.Bool("skip-store"),
	}
	result := appCtx.Engine.TriggerBulkReload(ctx, appIDs, opts)

	if cmd.Bool("json") {
		return printJSON(result)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("App", "Reload", "State")
	for _, trig := range result.Triggered {
		table.Append(trig.AppID, trig.ID, string(trig.InitialState))
	}
	table.Render()

	fmt.Printf("requested %d, triggered %d, failed %d\n",
		result.Summary.Requested, result.Summary.Triggered, result.Summary.Failed)
	for _, bulkErr := range result.Errors {
		fmt.Printf("  %s: %s\n", bulkErr.AppID, bulkErr.Message)
	}
	return nil
}
