package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/ofirwie/qlikfox/internal/model"
)

// HistoryAction lists past reloads, tenant-wide or for one app.
func HistoryAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("config"), cmd.String("env"))
	if err != nil {
		return err
	}

	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		limit = appCtx.Config.Defaults.HistoryLimit
	}

	var page *model.HistoryPage
	if appID := cmd.String("app"); appID != "" {
		page, err = appCtx.Engine.GetAppReloadHistory(ctx, appID, limit, cmd.Bool("details"))
	} else {
		page, err = appCtx.Engine.GetTenantReloadHistory(ctx, model.HistoryQuery{
			Limit:          limit,
			Offset:         int(cmd.Int("offset")),
			State:          model.ReloadState(cmd.String("state")),
			SpaceID:        cmd.String("space"),
			From:           cmd.String("from"),
			To:             cmd.String("to"),
			IncludeDetails: cmd.Bool("details"),
		})
	}
	if err != nil {
		return fmt.Errorf("fetching reload history: %w", err)
	}

	if cmd.Bool("json") {
		return printJSON(page)
	}

	if page.Note != "" {
		fmt.Println(page.Note)
	}
	if len(page.Items) == 0 {
		fmt.Println("no reloads found")
		return nil
	}
	renderTaskList(page.Items)
	more := ""
	if page.HasMore {
		more = ", more available"
	}
	fmt.Printf("showing %d from offset %d (estimated total %d%s)\n",
		page.Returned, page.Offset, page.EstimatedTotal, more)
	return nil
}

// StatsAction aggregates reload statistics for one app.
func StatsAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("config"), cmd.String("env"))
	if err != nil {
		return err
	}

	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		limit = appCtx.Config.Defaults.HistoryLimit
	}

	stats, err := appCtx.Engine.GetReloadStatistics(ctx, cmd.String("app"), limit)
	if err != nil {
		return fmt.Errorf("computing reload statistics: %w", err)
	}

	if cmd.Bool("json") {
		return printJSON(stats)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Metric", "Value")
	table.Append("Total reloads", fmt.Sprintf("%d", stats.TotalReloads))
	table.Append("Succeeded", fmt.Sprintf("%d", stats.Succeeded))
	table.Append("Failed", fmt.Sprintf("%d", stats.Failed))
	table.Append("Canceled", fmt.Sprintf("%d", stats.Canceled))
	table.Append("In progress", fmt.Sprintf("%d", stats.InProgress))
	table.Append("Success rate", fmt.Sprintf("%.1f%%", stats.SuccessRate))
	table.Append("Failure rate", fmt.Sprintf("%.1f%%", stats.FailureRate))
	table.Append("Average duration", formatDuration(stats.AverageDuration))
	if stats.LastSuccessful != nil {
		table.Append("Last success", orDash(stats.LastSuccessful.EndTime))
	}
	if stats.LastFailed != nil {
		table.Append("Last failure", orDash(stats.LastFailed.EndTime))
	}
	table.Render()
	return nil
}
