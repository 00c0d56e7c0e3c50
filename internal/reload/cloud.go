package reload

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/ofirwie/qlikfox/internal/model"
	"github.com/ofirwie/qlikfox/internal/transport"
)

// CloudAdapter speaks the tenant job-queue API: triggering a reload creates
// a one-shot job whose lifetime ends with its run.
type CloudAdapter struct {
	client transport.Client
	logger *slog.Logger
}

func NewCloudAdapter(client transport.Client, logger *slog.Logger) *CloudAdapter {
	return &CloudAdapter{client: client, logger: logger}
}

func (a *CloudAdapter) Platform() Platform { return PlatformCloud }

// cloudReload is the wire shape of one reload job.
type cloudReload struct {
	ID           string `json:"id"`
	AppID        string `json:"appId"`
	Status       string `json:"status"`
	Partial      bool   `json:"partial"`
	Type         string `json:"type"`
	CreationTime string `json:"creationTime"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

type cloudReloadList struct {
	Data []cloudReload `json:"data"`
}

type cloudApp struct {
	Attributes struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		SpaceID   string `json:"spaceId"`
		SpaceName string `json:"spaceName"`
	} `json:"attributes"`
}

var cloudTriggerKinds = map[string]model.TriggerKind{
	"hub":         model.TriggerManual,
	"chronos":     model.TriggerScheduled,
	"automations": model.TriggerAutomation,
	"external":    model.TriggerExternal,
}

func (a *CloudAdapter) task(r cloudReload) *model.ReloadTask {
	state := model.NormalizeCloudState(r.Status)
	if !model.KnownCloudState(r.Status) {
		a.logger.Warn("unrecognized cloud reload status", "status", r.Status, "reloadId", r.ID)
	}
	trigger, ok := cloudTriggerKinds[r.Type]
	if !ok {
		trigger = model.TriggerAPI
	}
	msg := r.ErrorMessage
	if msg == "" && r.ErrorCode != "" {
		msg = r.ErrorCode
	}
	task := &model.ReloadTask{
		ID:        r.ID,
		AppID:     r.AppID,
		State:     state,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Partial:   r.Partial,
		Trigger:   trigger,
	}
	switch state {
	case model.StateSucceeded, model.StateFailed, model.StateCanceled, model.StateSkipped, model.StateError:
		task.Progress = 100
	case model.StateReloading:
		task.Progress = 50
	}
	if state == model.StateFailed || state == model.StateError {
		task.ErrorMessage = msg
	}
	task.DeriveDuration()
	return task
}

func (a *CloudAdapter) Trigger(ctx context.Context, appID string, opts model.ReloadOptions) (*model.TriggerResult, error) {
	payload := map[string]any{
		"appId":     appID,
		"partial":   opts.Partial,
		"skipStore": opts.SkipStore,
	}
	var r cloudReload
	if err := a.client.Post(ctx, "/api/v1/reloads", payload, &r); err != nil {
		return nil, fmt.Errorf("trigger reload for app %s: %w", appID, err)
	}
	a.logger.Info("reload triggered", "appId", appID, "reloadId", r.ID, "partial", opts.Partial)
	return &model.TriggerResult{
		ID:           r.ID,
		AppID:        appID,
		InitialState: model.NormalizeCloudState(r.Status),
	}, nil
}

func (a *CloudAdapter) GetStatus(ctx context.Context, id string) (*model.ReloadTask, error) {
	var r cloudReload
	if err := a.client.GetFresh(ctx, "/api/v1/reloads/"+id, nil, &r); err != nil {
		return nil, fmt.Errorf("get reload %s: %w", id, err)
	}
	return a.task(r), nil
}

func (a *CloudAdapter) GetLatestForApp(ctx context.Context, appID string) (*model.ReloadTask, error) {
	q := url.Values{
		"appId": {appID},
		"limit": {"1"},
		"sort":  {"-creationTime"},
	}
	var list cloudReloadList
	if err := a.client.GetFresh(ctx, "/api/v1/reloads", q, &list); err != nil {
		return nil, fmt.Errorf("list reloads for app %s: %w", appID, err)
	}
	if len(list.Data) == 0 {
		return nil, nil
	}
	return a.task(list.Data[0]), nil
}

func (a *CloudAdapter) GetAppHistory(ctx context.Context, appID string, limit int) ([]model.ReloadTask, error) {
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{
		"appId": {appID},
		"limit": {strconv.Itoa(limit)},
		"sort":  {"-creationTime"},
	}
	var list cloudReloadList
	if err := a.client.Get(ctx, "/api/v1/reloads", q, &list); err != nil {
		return nil, fmt.Errorf("list reloads for app %s: %w", appID, err)
	}
	tasks := make([]model.ReloadTask, 0, len(list.Data))
	for _, r := range list.Data {
		tasks = append(tasks, *a.task(r))
	}
	return tasks, nil
}

func (a *CloudAdapter) ListActive(ctx context.Context) ([]model.ReloadTask, error) {
	q := url.Values{
		"limit": {"100"},
		"sort":  {"-creationTime"},
	}
	var list cloudReloadList
	if err := a.client.GetFresh(ctx, "/api/v1/reloads", q, &list); err != nil {
		return nil, fmt.Errorf("list reloads: %w", err)
	}
	var active []model.ReloadTask
	for _, r := range list.Data {
		task := a.task(r)
		if !model.IsCompletionState(task.State) {
			active = append(active, *task)
		}
	}
	return active, nil
}

// ListReloads serves one tenant-wide page. AppID is pushed into the query;
// the reloads API has no state or date parameters, so those filters run
// client-side over the fetched page. A filtered page can return fewer than
// Limit rows while more matches exist upstream, and Offset always indexes
// the unfiltered stream.
func (a *CloudAdapter) ListReloads(ctx context.Context, hq model.HistoryQuery) ([]model.ReloadTask, string, error) {
	sort := "-creationTime"
	if hq.SortBy != "" {
		sort = hq.SortBy
		if hq.SortOrder == "desc" {
			sort = "-" + sort
		}
	}
	q := url.Values{
		"limit":  {strconv.Itoa(hq.Limit)},
		"offset": {strconv.Itoa(hq.Offset)},
		"sort":   {sort},
	}
	if hq.AppID != "" {
		q.Set("appId", hq.AppID)
	}
	var list cloudReloadList
	if err := a.client.Get(ctx, "/api/v1/reloads", q, &list); err != nil {
		return nil, "", fmt.Errorf("list tenant reloads: %w", err)
	}
	tasks := make([]model.ReloadTask, 0, len(list.Data))
	for _, r := range list.Data {
		task := a.task(r)
		if hq.State != "" && task.State != hq.State {
			continue
		}
		if hq.From != "" && task.StartTime != "" && task.StartTime < hq.From {
			continue
		}
		if hq.To != "" && task.StartTime != "" && task.StartTime > hq.To {
			continue
		}
		tasks = append(tasks, *task)
	}
	return tasks, "", nil
}

func (a *CloudAdapter) GetLogs(ctx context.Context, id string) (*model.ReloadLog, error) {
	var out struct {
		Log string `json:"log"`
	}
	if err := a.client.GetFresh(ctx, "/api/v1/reloads/"+id+"/logs", nil, &out); err != nil {
		return nil, fmt.Errorf("get reload log %s: %w", id, err)
	}
	return ParseCloudLog(out.Log), nil
}

func (a *CloudAdapter) Cancel(ctx context.Context, id string) error {
	if err := a.client.Put(ctx, "/api/v1/reloads/"+id+"/cancel", nil, nil); err != nil {
		return fmt.Errorf("cancel reload %s: %w", id, err)
	}
	a.logger.Info("reload cancel requested", "reloadId", id)
	return nil
}

func (a *CloudAdapter) GetAppInfo(ctx context.Context, appID string) (*model.AppInfo, error) {
	var app cloudApp
	if err := a.client.Get(ctx, "/api/v1/apps/"+appID, nil, &app); err != nil {
		return nil, fmt.Errorf("get app %s: %w", appID, err)
	}
	info := &model.AppInfo{
		ID:        appID,
		Name:      app.Attributes.Name,
		SpaceID:   app.Attributes.SpaceID,
		SpaceName: app.Attributes.SpaceName,
	}
	if app.Attributes.ID != "" {
		info.ID = app.Attributes.ID
	}
	return info, nil
}
