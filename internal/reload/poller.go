package reload

import (
	"context"
	"log/slog"
	"time"

	"github.com/ofirwie/qlikfox/internal/model"
)

// Poller drives the trigger→poll→terminal-state loop. One Wait call owns
// its history accumulator for the duration of the call stack; nothing is
// shared across sessions and nothing is persisted.
type Poller struct {
	adapter BackendAdapter
	logger  *slog.Logger

	// settleDelay gives the backend a moment to register the job before
	// the first status read. Fast reloads finish inside it.
	settleDelay time.Duration
	// now and sleep are swapped out in tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPoller(adapter BackendAdapter, logger *slog.Logger) *Poller {
	return &Poller{
		adapter:     adapter,
		logger:      logger,
		settleDelay: time.Second,
		now:         time.Now,
		sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Wait polls until the job reaches a terminal state or the wall-clock
// timeout elapses. Timeout and job failure are reported outcomes, not
// errors. Transient check failures are tolerated up to the MaxRetries and
// MaxConsecutiveErrors limits; the returned error is reserved for
// unrecoverable failures, failures past those limits, and context
// cancellation.
func (p *Poller) Wait(ctx context.Context, trig *model.TriggerResult, opts model.ReloadOptions) (*model.MonitoringResult, error) {
	opts = opts.WithDefaults()
	statusID := StatusID(trig)
	deadline := p.now().Add(time.Duration(opts.TimeoutSeconds) * time.Second)
	interval := time.Duration(opts.PollIntervalSeconds) * time.Second
	var history []model.StatusHistoryEntry
	var task *model.ReloadTask

	// failures counts failed checks across the session, streak the current
	// unbroken run. Either limit turns the next failure fatal; a successful
	// check resets the streak only.
	var failures, streak int
	tolerate := func(err error) error {
		if ctx.Err() != nil || IsUnrecoverable(err) {
			return err
		}
		failures++
		streak++
		if streak >= opts.MaxConsecutiveErrors || failures >= opts.MaxRetries {
			p.logger.Warn("giving up after repeated status failures",
				"appId", trig.AppID, "id", statusID,
				"consecutive", streak, "total", failures, "error", err)
			return err
		}
		return nil
	}

	if err := p.sleep(ctx, p.settleDelay); err != nil {
		return nil, err
	}

	// Immediate post-trigger check: fast-completing jobs must not enter
	// the poll loop at all.
	task, err := p.check(ctx, trig, statusID)
	if err != nil {
		if err := tolerate(err); err != nil {
			return nil, err
		}
	} else {
		history = p.record(history, task, "")
		if model.IsCompletionState(task.State) {
			return p.finish(ctx, trig, task, history), nil
		}
	}

	for iteration := 1; ; iteration++ {
		if !p.now().Before(deadline) {
			p.logger.Warn("reload monitoring timed out",
				"appId", trig.AppID, "id", statusID, "timeoutSeconds", opts.TimeoutSeconds)
			return &model.MonitoringResult{
				Success:  false,
				TimedOut: true,
				Task:     task,
				History:  history,
			}, nil
		}

		if err := p.sleep(ctx, interval); err != nil {
			return nil, err
		}

		current, err := p.check(ctx, trig, statusID)
		if err != nil {
			if err := tolerate(err); err != nil {
				return nil, err
			}
			continue
		}
		streak = 0
		task = current
		history = p.record(history, task, "")
		if model.IsCompletionState(task.State) {
			return p.finish(ctx, trig, task, history), nil
		}

		if iteration%opts.CrossCheckEvery == 0 {
			if settled := p.crossCheck(ctx, trig, task); settled != nil {
				history = p.record(history, settled, "cross-check: tenant listing reported a terminal state the status endpoint had not")
				return p.finish(ctx, trig, settled, history), nil
			}
		}
	}
}

// check reads the primary status, recovering once through the per-app
// listing when the read fails with something a second source could cure.
func (p *Poller) check(ctx context.Context, trig *model.TriggerResult, statusID string) (*model.ReloadTask, error) {
	task, err := p.adapter.GetStatus(ctx, statusID)
	if err == nil {
		return task, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	if IsUnrecoverable(err) {
		return nil, err
	}
	p.logger.Warn("status read failed, trying per-app fallback",
		"id", statusID, "appId", trig.AppID, "error", err)

	latest, ferr := p.adapter.GetLatestForApp(ctx, trig.AppID)
	if ferr == nil && latest != nil && sameJob(latest, trig) && model.IsCompletionState(latest.State) {
		return latest, nil
	}
	return nil, err
}

// crossCheck compares the per-app listing against the primary status. A
// disagreeing terminal secondary read wins: the single-job endpoint has
// been observed to lag the tenant-wide listing.
func (p *Poller) crossCheck(ctx context.Context, trig *model.TriggerResult, primary *model.ReloadTask) *model.ReloadTask {
	latest, err := p.adapter.GetLatestForApp(ctx, trig.AppID)
	if err != nil || latest == nil || !sameJob(latest, trig) {
		return nil
	}
	if latest.State != primary.State && model.IsCompletionState(latest.State) {
		p.logger.Info("cross-check overruled primary status",
			"appId", trig.AppID, "primary", primary.State, "secondary", latest.State)
		return latest
	}
	return nil
}

func sameJob(task *model.ReloadTask, trig *model.TriggerResult) bool {
	if trig.TaskID != "" && task.TaskID == trig.TaskID {
		return true
	}
	return task.ID != "" && task.ID == trig.ID
}

func (p *Poller) record(history []model.StatusHistoryEntry, task *model.ReloadTask, message string) []model.StatusHistoryEntry {
	return append(history, model.StatusHistoryEntry{
		Timestamp: p.now().UTC().Format(time.RFC3339),
		State:     task.State,
		Progress:  task.Progress,
		Message:   message,
	})
}

// finish builds the terminal result. A failed reload eagerly gets its log
// summary; a log-fetch failure must not mask the reload failure itself.
func (p *Poller) finish(ctx context.Context, trig *model.TriggerResult, task *model.ReloadTask, history []model.StatusHistoryEntry) *model.MonitoringResult {
	result := &model.MonitoringResult{
		Success: task.State == model.StateSucceeded,
		Task:    task,
		History: history,
	}
	if task.State == model.StateFailed || task.State == model.StateError {
		result.Error = task.ErrorMessage
		log, err := p.adapter.GetLogs(ctx, StatusID(trig))
		if err != nil {
			p.logger.Warn("log fetch after failed reload", "appId", trig.AppID, "error", err)
		} else {
			result.Log = log
		}
	}
	p.logger.Info("reload monitoring finished",
		"appId", trig.AppID, "state", task.State, "success", result.Success, "polls", len(history))
	return result
}
