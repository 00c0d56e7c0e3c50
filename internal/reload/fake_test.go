package reload

import (
	"context"
	"io"
	"log/slog"

	"github.com/ofirwie/qlikfox/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAdapter implements BackendAdapter with overridable function fields.
type fakeAdapter struct {
	platform Platform

	triggerFn      func(ctx context.Context, appID string, opts model.ReloadOptions) (*model.TriggerResult, error)
	getStatusFn    func(ctx context.Context, id string) (*model.ReloadTask, error)
	latestFn       func(ctx context.Context, appID string) (*model.ReloadTask, error)
	appHistoryFn   func(ctx context.Context, appID string, limit int) ([]model.ReloadTask, error)
	listActiveFn   func(ctx context.Context) ([]model.ReloadTask, error)
	listReloadsFn  func(ctx context.Context, q model.HistoryQuery) ([]model.ReloadTask, string, error)
	getLogsFn      func(ctx context.Context, id string) (*model.ReloadLog, error)
	cancelFn       func(ctx context.Context, id string) error
	getAppInfoFn   func(ctx context.Context, appID string) (*model.AppInfo, error)

	statusCalls int
	latestCalls int
	logsCalls   int
}

func (f *fakeAdapter) Platform() Platform {
	if f.platform == "" {
		return PlatformCloud
	}
	return f.platform
}

func (f *fakeAdapter) Trigger(ctx context.Context, appID string, opts model.ReloadOptions) (*model.TriggerResult, error) {
	if f.triggerFn == nil {
		return &model.TriggerResult{ID: "job-" + appID, AppID: appID, InitialState: model.StateQueued}, nil
	}
	return f.triggerFn(ctx, appID, opts)
}

func (f *fakeAdapter) GetStatus(ctx context.Context, id string) (*model.ReloadTask, error) {
	f.statusCalls++
	return f.getStatusFn(ctx, id)
}

func (f *fakeAdapter) GetLatestForApp(ctx context.Context, appID string) (*model.ReloadTask, error) {
	f.latestCalls++
	if f.latestFn == nil {
		return nil, nil
	}
	return f.latestFn(ctx, appID)
}

func (f *fakeAdapter) GetAppHistory(ctx context.Context, appID string, limit int) ([]model.ReloadTask, error) {
	return f.appHistoryFn(ctx, appID, limit)
}

func (f *fakeAdapter) ListActive(ctx context.Context) ([]model.ReloadTask, error) {
	return f.listActiveFn(ctx)
}

func (f *fakeAdapter) ListReloads(ctx context.Context, q model.HistoryQuery) ([]model.ReloadTask, string, error) {
	return f.listReloadsFn(ctx, q)
}

func (f *fakeAdapter) GetLogs(ctx context.Context, id string) (*model.ReloadLog, error) {
	f.logsCalls++
	if f.getLogsFn == nil {
		return &model.ReloadLog{Entries: []model.LogEntry{}}, nil
	}
	return f.getLogsFn(ctx, id)
}

func (f *fakeAdapter) Cancel(ctx context.Context, id string) error {
	if f.cancelFn == nil {
		return nil
	}
	return f.cancelFn(ctx, id)
}

func (f *fakeAdapter) GetAppInfo(ctx context.Context, appID string) (*model.AppInfo, error) {
	return f.getAppInfoFn(ctx, appID)
}

// statusSequence returns successive snapshots, repeating the last one.
func statusSequence(tasks ...*model.ReloadTask) func(context.Context, string) (*model.ReloadTask, error) {
	i := 0
	return func(context.Context, string) (*model.ReloadTask, error) {
		t := tasks[i]
		if i < len(tasks)-1 {
			i++
		}
		return t, nil
	}
}

func snapshot(id string, state model.ReloadState) *model.ReloadTask {
	return &model.ReloadTask{ID: id, AppID: "app-1", State: state}
}
