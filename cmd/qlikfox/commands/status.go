package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/ofirwie/qlikfox/internal/model"
)

// StatusAction shows the current state of one reload.
func StatusAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("config"), cmd.String("env"))
	if err != nil {
		return err
	}

	task, err := appCtx.Engine.GetReloadStatus(ctx, cmd.String("id"))
	if err != nil {
		return fmt.Errorf("fetching reload status: %w", err)
	}

	if cmd.Bool("json") {
		return printJSON(task)
	}
	renderTaskTable(task)
	return nil
}

// LatestAction shows the most recent reload of an app.
func LatestAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("config"), cmd.String("env"))
	if err != nil {
		return err
	}

	task, err := appCtx.Engine.GetLatestReloadForApp(ctx, cmd.String("app"))
	if err != nil {
		return fmt.Errorf("fetching latest reload: %w", err)
	}
	if task == nil {
		fmt.Println("no reloads found for this app")
		return nil
	}

	if cmd.Bool("json") {
		return printJSON(task)
	}
	renderTaskTable(task)
	return nil
}

// CancelAction requests cancellation of a running reload.
func CancelAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("config"), cmd.String("env"))
	if err != nil {
		return err
	}

	id := cmd.String("id")
	if err := appCtx.Engine.CancelReload(ctx, id); err != nil {
		return fmt.Errorf("canceling reload: %w", err)
	}
	fmt.Printf("cancel requested for %s\n", id)
	return nil
}

// MonitorAction lists every reload currently queued or running.
func MonitorAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("config"), cmd.String("env"))
	if err != nil {
		return err
	}

	tasks, err := appCtx.Engine.MonitorActiveReloads(ctx)
	if err != nil {
		return fmt.Errorf("listing active reloads: %w", err)
	}

	if cmd.Bool("json") {
		return printJSON(tasks)
	}
	if len(tasks) == 0 {
		fmt.Println("no active reloads")
		return nil
	}
	renderTaskList(tasks)
	return nil
}

func renderTaskTable(task *model.ReloadTask) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Field", "Value")
	table.Append("ID", task.ID)
	if task.TaskID != "" {
		table.Append("Task", task.TaskID)
	}
	table.Append("App", task.AppID)
	if task.AppName != "" {
		table.Append("App Name", task.AppName)
	}
	table.Append("State", string(task.State))
	table.Append("Progress", fmt.Sprintf("%d%%", task.Progress))
	table.Append("Started", orDash(task.StartTime))
	table.Append("Ended", orDash(task.EndTime))
	table.Append("Duration", formatDuration(task.Duration))
	if task.ErrorMessage != "" {
		table.Append("Error", task.ErrorMessage)
	}
	table.Render()
}

func renderTaskList(tasks []model.ReloadTask) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "App", "State", "Progress", "Started", "Duration")
	for _, task := range tasks {
		name := task.AppName
		if name == "" {
			name = task.AppID
		}
		table.Append(task.ID, name, string(task.State),
			fmt.Sprintf("%d%%", task.Progress), orDash(task.StartTime),
			formatDuration(task.Duration))
	}
	table.Render()
}
