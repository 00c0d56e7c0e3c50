// Package reload implements the reload orchestration and monitoring engine:
// backend adapters for the cloud job queue and the on-premise QRS task
// system, the polling state machine, log parsing, statistics, bulk
// triggering, and paginated history queries.
package reload

import (
	"context"

	"github.com/ofirwie/qlikfox/internal/model"
)

// Platform selects which backend an engine talks to.
type Platform string

const (
	PlatformCloud  Platform = "cloud"
	PlatformOnPrem Platform = "onprem"
)

// BackendAdapter is the common contract over the two wire protocols. The
// cloud backend creates one-shot jobs; QRS runs a durable task definition
// per app and hands back execution handles. The adapter absorbs that
// asymmetry so the poller and orchestrators stay backend-agnostic.
type BackendAdapter interface {
	Platform() Platform

	// Trigger starts a reload for the app. On QRS this is the two-step
	// find-or-create-then-start protocol.
	Trigger(ctx context.Context, appID string, opts model.ReloadOptions) (*model.TriggerResult, error)

	// GetStatus reads the current state of one reload. It must never be
	// served from a response cache. The id is TriggerResult.StatusID():
	// the job id on cloud, the task definition id on QRS.
	GetStatus(ctx context.Context, id string) (*model.ReloadTask, error)

	// GetLatestForApp returns the most recent reload for the app, or nil
	// when the app has never been reloaded. Used as the cross-check source
	// and as the fallback when GetStatus errors.
	GetLatestForApp(ctx context.Context, appID string) (*model.ReloadTask, error)

	// GetAppHistory lists recent reloads for one app, newest first.
	GetAppHistory(ctx context.Context, appID string, limit int) ([]model.ReloadTask, error)

	// ListActive returns reloads currently queued or running.
	ListActive(ctx context.Context) ([]model.ReloadTask, error)

	// ListReloads serves one page of the tenant-wide history. Backends
	// without a tenant-wide listing return no items and a non-empty note.
	ListReloads(ctx context.Context, q model.HistoryQuery) (items []model.ReloadTask, note string, err error)

	// GetLogs fetches and parses the reload log. Backends without a log
	// endpoint return a structured placeholder instead of failing.
	GetLogs(ctx context.Context, id string) (*model.ReloadLog, error)

	// Cancel stops a running reload. The id is TriggerResult.StatusID().
	Cancel(ctx context.Context, id string) error

	// GetAppInfo fetches app metadata for history enrichment.
	GetAppInfo(ctx context.Context, appID string) (*model.AppInfo, error)
}

// StatusID returns the identifier that status reads and cancels are keyed
// on: the durable task definition when one exists, else the job id.
func StatusID(trig *model.TriggerResult) string {
	if trig.TaskID != "" {
		return trig.TaskID
	}
	return trig.ID
}
