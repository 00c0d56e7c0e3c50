package reload

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/ofirwie/qlikfox/internal/model"
	"github.com/ofirwie/qlikfox/internal/transport"
)

var (
	_ BackendAdapter = (*CloudAdapter)(nil)
	_ BackendAdapter = (*OnPremAdapter)(nil)
)

// OnPremAdapter speaks the QRS API. Reloads run through durable task
// definitions: triggering means find-or-create the task for the app, then
// start it. The execution GUID returned by the start call identifies one
// run, but status and cancel are keyed on the task definition.
type OnPremAdapter struct {
	client transport.Client
	logger *slog.Logger
}

func NewOnPremAdapter(client transport.Client, logger *slog.Logger) *OnPremAdapter {
	return &OnPremAdapter{client: client, logger: logger}
}

func (a *OnPremAdapter) Platform() Platform { return PlatformOnPrem }

type qrsApp struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Stream struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"stream"`
}

type qrsExecutionResult struct {
	ID        string `json:"id"`
	Status    int    `json:"status"`
	StartTime string `json:"startTime"`
	StopTime  string `json:"stopTime"`
	Details   []struct {
		Message string `json:"message"`
	} `json:"details"`
}

type qrsReloadTask struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	App         qrsApp `json:"app"`
	Operational struct {
		LastExecutionResult qrsExecutionResult `json:"lastExecutionResult"`
	} `json:"operational"`
}

// qrsZeroTime is what QRS reports for never-populated execution timestamps.
const qrsZeroTime = "1753-01-01T00:00:00.000Z"

func qrsTimestamp(s string) string {
	if s == "" || s == qrsZeroTime {
		return ""
	}
	return s
}

func (a *OnPremAdapter) task(t qrsReloadTask) *model.ReloadTask {
	exec := t.Operational.LastExecutionResult
	state := model.NormalizeQRSState(exec.Status)
	task := &model.ReloadTask{
		ID:        exec.ID,
		TaskID:    t.ID,
		AppID:     t.App.ID,
		AppName:   t.App.Name,
		SpaceID:   t.App.Stream.ID,
		SpaceName: t.App.Stream.Name,
		State:     state,
		StartTime: qrsTimestamp(exec.StartTime),
		EndTime:   qrsTimestamp(exec.StopTime),
		Progress:  model.EstimateProgress(exec.Status),
		Trigger:   model.TriggerScheduled,
	}
	if exec.Status == 8 {
		var msgs []string
		for _, d := range exec.Details {
			if d.Message != "" {
				msgs = append(msgs, d.Message)
			}
		}
		task.ErrorMessage = strings.Join(msgs, "; ")
		if task.ErrorMessage == "" {
			task.ErrorMessage = "reload task finished with status FinishedFail"
		}
	}
	task.DeriveDuration()
	return task
}

func (a *OnPremAdapter) findTask(ctx context.Context, appID string) (*qrsReloadTask, error) {
	q := url.Values{"filter": {fmt.Sprintf("app.id eq %s", appID)}}
	var tasks []qrsReloadTask
	if err := a.client.GetFresh(ctx, "/qrs/reloadtask", q, &tasks); err != nil {
		return nil, fmt.Errorf("find reload task for app %s: %w", appID, err)
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	return &tasks[0], nil
}

// Trigger implements the two-step protocol: the task definition persists
// across runs, so an existing one is reused rather than duplicated.
func (a *OnPremAdapter) Trigger(ctx context.Context, appID string, opts model.ReloadOptions) (*model.TriggerResult, error) {
	var app qrsApp
	if err := a.client.Get(ctx, "/qrs/app/"+appID, nil, &app); err != nil {
		return nil, fmt.Errorf("get app %s: %w", appID, err)
	}

	task, err := a.findTask(ctx, appID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		payload := map[string]any{
			"task": map[string]any{
				"name":                "Reload of " + app.Name,
				"app":                 map[string]string{"id": appID},
				"enabled":             true,
				"isManuallyTriggered": true,
				"taskType":            0,
			},
		}
		var created qrsReloadTask
		if err := a.client.Post(ctx, "/qrs/reloadtask/create", payload, &created); err != nil {
			return nil, fmt.Errorf("create reload task for app %s: %w", appID, err)
		}
		a.logger.Info("reload task created", "appId", appID, "taskId", created.ID)
		task = &created
	}

	var started struct {
		Value string `json:"value"`
	}
	if err := a.client.Post(ctx, "/qrs/task/"+task.ID+"/start/synchronous", nil, &started); err != nil {
		return nil, fmt.Errorf("start reload task %s: %w", task.ID, err)
	}
	a.logger.Info("reload task started", "appId", appID, "taskId", task.ID, "executionId", started.Value)

	return &model.TriggerResult{
		ID:           started.Value,
		TaskID:       task.ID,
		AppID:        appID,
		InitialState: model.StateQueued,
	}, nil
}

func (a *OnPremAdapter) GetStatus(ctx context.Context, id string) (*model.ReloadTask, error) {
	var t qrsReloadTask
	if err := a.client.GetFresh(ctx, "/qrs/reloadtask/"+id, nil, &t); err != nil {
		return nil, fmt.Errorf("get reload task %s: %w", id, err)
	}
	return a.task(t), nil
}

func (a *OnPremAdapter) GetLatestForApp(ctx context.Context, appID string) (*model.ReloadTask, error) {
	task, err := a.findTask(ctx, appID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, nil
	}
	return a.task(*task), nil
}

func (a *OnPremAdapter) GetAppHistory(ctx context.Context, appID string, limit int) ([]model.ReloadTask, error) {
	// QRS exposes one lastExecutionResult per task definition, not a run
	// log, so app history is at most one entry per task tied to the app.
	q := url.Values{"filter": {fmt.Sprintf("app.id eq %s", appID)}}
	var tasks []qrsReloadTask
	if err := a.client.Get(ctx, "/qrs/reloadtask", q, &tasks); err != nil {
		return nil, fmt.Errorf("list reload tasks for app %s: %w", appID, err)
	}
	out := make([]model.ReloadTask, 0, len(tasks))
	for _, t := range tasks {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, *a.task(t))
	}
	return out, nil
}

func (a *OnPremAdapter) ListActive(ctx context.Context) ([]model.ReloadTask, error) {
	var tasks []qrsReloadTask
	if err := a.client.GetFresh(ctx, "/qrs/reloadtask/full", nil, &tasks); err != nil {
		return nil, fmt.Errorf("list reload tasks: %w", err)
	}
	var active []model.ReloadTask
	for _, t := range tasks {
		// 1 Triggered, 2 Started, 3 Queued.
		code := t.Operational.LastExecutionResult.Status
		if code >= 1 && code <= 3 {
			active = append(active, *a.task(t))
		}
	}
	return active, nil
}

const onPremHistoryNote = "tenant-wide reload history is not available on this platform; query per app or use the QMC"

func (a *OnPremAdapter) ListReloads(ctx context.Context, q model.HistoryQuery) ([]model.ReloadTask, string, error) {
	return nil, onPremHistoryNote, nil
}

const onPremLogNote = "reload script logs are not exposed by the QRS API; view logs via the QMC admin console"

func (a *OnPremAdapter) GetLogs(ctx context.Context, id string) (*model.ReloadLog, error) {
	var t qrsReloadTask
	if err := a.client.GetFresh(ctx, "/qrs/reloadtask/"+id, nil, &t); err != nil {
		return nil, fmt.Errorf("get reload task %s: %w", id, err)
	}
	return OnPremLogPlaceholder(t.Operational.LastExecutionResult.Status), nil
}

// Cancel stops the task, not the execution: QRS has no stop action on an
// execution result.
func (a *OnPremAdapter) Cancel(ctx context.Context, id string) error {
	if err := a.client.Post(ctx, "/qrs/task/"+id+"/stop", nil, nil); err != nil {
		return fmt.Errorf("stop task %s: %w", id, err)
	}
	a.logger.Info("reload task stop requested", "taskId", id)
	return nil
}

func (a *OnPremAdapter) GetAppInfo(ctx context.Context, appID string) (*model.AppInfo, error) {
	var app qrsApp
	if err := a.client.Get(ctx, "/qrs/app/"+appID, nil, &app); err != nil {
		return nil, fmt.Errorf("get app %s: %w", appID, err)
	}
	return &model.AppInfo{
		ID:        app.ID,
		Name:      app.Name,
		SpaceID:   app.Stream.ID,
		SpaceName: app.Stream.Name,
	}, nil
}
