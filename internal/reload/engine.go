package reload

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ofirwie/qlikfox/internal/model"
)

// Engine is the caller-facing surface of the reload subsystem. The backend
// is chosen once at construction; nothing re-checks the platform per call.
type Engine struct {
	adapter BackendAdapter
	poller  *Poller
	history *History
	bulk    *Bulk
	logger  *slog.Logger
}

func NewEngine(adapter BackendAdapter, logger *slog.Logger) *Engine {
	return &Engine{
		adapter: adapter,
		poller:  NewPoller(adapter, logger),
		history: NewHistory(adapter, logger),
		bulk:    NewBulk(adapter, logger),
		logger:  logger,
	}
}

func (e *Engine) Platform() Platform { return e.adapter.Platform() }

// TriggerReload starts a reload. With WaitForCompletion set, it monitors
// the job to a terminal state (or timeout) and returns the full session
// result; otherwise it returns immediately with the initial snapshot.
func (e *Engine) TriggerReload(ctx context.Context, appID string, opts model.ReloadOptions) (*model.MonitoringResult, error) {
	trig, err := e.adapter.Trigger(ctx, appID, opts)
	if err != nil {
		return nil, err
	}
	if !opts.WaitForCompletion {
		return &model.MonitoringResult{
			Success: true,
			Task: &model.ReloadTask{
				ID:     trig.ID,
				TaskID: trig.TaskID,
				AppID:  trig.AppID,
				State:  trig.InitialState,
			},
		}, nil
	}
	return e.poller.Wait(ctx, trig, opts)
}

func (e *Engine) GetReloadStatus(ctx context.Context, id string) (*model.ReloadTask, error) {
	return e.adapter.GetStatus(ctx, id)
}

func (e *Engine) GetLatestReloadForApp(ctx context.Context, appID string) (*model.ReloadTask, error) {
	return e.adapter.GetLatestForApp(ctx, appID)
}

func (e *Engine) GetReloadLogs(ctx context.Context, id string) (*model.ReloadLog, error) {
	return e.adapter.GetLogs(ctx, id)
}

func (e *Engine) CancelReload(ctx context.Context, id string) error {
	return e.adapter.Cancel(ctx, id)
}

// MonitorActiveReloads lists reloads currently queued or running.
func (e *Engine) MonitorActiveReloads(ctx context.Context) ([]model.ReloadTask, error) {
	return e.adapter.ListActive(ctx)
}

func (e *Engine) GetAppReloadHistory(ctx context.Context, appID string, limit int, includeDetails bool) (*model.HistoryPage, error) {
	if appID == "" {
		return nil, fmt.Errorf("app id is required")
	}
	return e.history.AppPage(ctx, appID, limit, includeDetails)
}

func (e *Engine) GetTenantReloadHistory(ctx context.Context, q model.HistoryQuery) (*model.HistoryPage, error) {
	return e.history.TenantPage(ctx, q)
}

func (e *Engine) TriggerBulkReload(ctx context.Context, appIDs []string, opts model.ReloadOptions) *model.BulkResult {
	return e.bulk.Trigger(ctx, appIDs, opts)
}

// GetReloadStatistics aggregates success/failure rates over the app's
// recent history.
func (e *Engine) GetReloadStatistics(ctx context.Context, appID string, limit int) (*model.ReloadStatistics, error) {
	if limit <= 0 {
		limit = maxHistoryLimit
	}
	tasks, err := e.adapter.GetAppHistory(ctx, appID, limit)
	if err != nil {
		return nil, err
	}
	stats := Aggregate(tasks)
	return &stats, nil
}
