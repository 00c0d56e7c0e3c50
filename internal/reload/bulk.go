package reload

import (
	"context"
	"log/slog"

	"github.com/ofirwie/qlikfox/internal/model"
)

// Bulk fans a trigger out over many apps, collecting per-item outcomes.
type Bulk struct {
	adapter BackendAdapter
	logger  *slog.Logger
}

func NewBulk(adapter BackendAdapter, logger *slog.Logger) *Bulk {
	return &Bulk{adapter: adapter, logger: logger}
}

// Trigger starts a reload for each app. Triggers run sequentially to keep
// the upstream job queue from seeing a burst of simultaneous starts, and
// WaitForCompletion is forced off per item so the batch never serializes on
// individual runs. A failing item is recorded and the batch continues.
func (b *Bulk) Trigger(ctx context.Context, appIDs []string, opts model.ReloadOptions) *model.BulkResult {
	opts.WaitForCompletion = false

	result := &model.BulkResult{
		Triggered: []model.TriggerResult{},
		Errors:    []model.BulkError{},
	}
	result.Summary.Requested = len(appIDs)

	for _, appID := range appIDs {
		trig, err := b.adapter.Trigger(ctx, appID, opts)
		if err != nil {
			b.logger.Warn("bulk trigger item failed", "appId", appID, "error", err)
			result.Errors = append(result.Errors, model.BulkError{
				AppID:   appID,
				Message: err.Error(),
			})
			continue
		}
		result.Triggered = append(result.Triggered, *trig)
	}

	result.Summary.Triggered = len(result.Triggered)
	result.Summary.Failed = len(result.Errors)
	result.Success = len(result.Errors) == 0
	b.logger.Info("bulk trigger finished",
		"requested", result.Summary.Requested,
		"triggered", result.Summary.Triggered,
		"failed", result.Summary.Failed)
	return result
}
