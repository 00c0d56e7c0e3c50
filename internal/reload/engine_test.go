package reload

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofirwie/qlikfox/internal/model"
)

func TestTriggerReloadWithoutWaitReturnsSnapshot(t *testing.T) {
	adapter := &fakeAdapter{
		triggerFn: func(_ context.Context, appID string, _ model.ReloadOptions) (*model.TriggerResult, error) {
			return &model.TriggerResult{ID: "exec-1", TaskID: "task-1", AppID: appID, InitialState: model.StateQueued}, nil
		},
	}
	engine := NewEngine(adapter, testLogger())

	result, err := engine.TriggerReload(context.Background(), "app-1", model.ReloadOptions{})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, result.TimedOut)
	assert.Equal(t, "exec-1", result.Task.ID)
	assert.Equal(t, "task-1", result.Task.TaskID)
	assert.Equal(t, model.StateQueued, result.Task.State)
	assert.Equal(t, 0, adapter.statusCalls, "no polling without waitForCompletion")
}

func TestTriggerReloadWithWaitMonitors(t *testing.T) {
	adapter := &fakeAdapter{
		getStatusFn: statusSequence(snapshot("job-app-1", model.StateSucceeded)),
	}
	engine := NewEngine(adapter, testLogger())
	engine.poller.settleDelay = 0

	result, err := engine.TriggerReload(context.Background(), "app-1", model.ReloadOptions{
		WaitForCompletion: true,
		TimeoutSeconds:    5,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.History)
}

func TestGetReloadStatistics(t *testing.T) {
	adapter := &fakeAdapter{
		appHistoryFn: func(context.Context, string, int) ([]model.ReloadTask, error) {
			return []model.ReloadTask{
				{ID: "a", State: model.StateSucceeded, Duration: 30, EndTime: "2026-08-01T10:00:00Z"},
				{ID: "b", State: model.StateFailed, EndTime: "2026-08-02T10:00:00Z"},
			}, nil
		},
	}
	engine := NewEngine(adapter, testLogger())

	stats, err := engine.GetReloadStatistics(context.Background(), "app-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalReloads)
	assert.Equal(t, 50.0, stats.SuccessRate)
	assert.Equal(t, "a", stats.LastSuccessful.ID)
}

func TestGetAppReloadHistoryRequiresAppID(t *testing.T) {
	engine := NewEngine(&fakeAdapter{}, testLogger())
	_, err := engine.GetAppReloadHistory(context.Background(), "", 10, false)
	assert.Error(t, err)
}
