package reload

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofirwie/qlikfox/internal/model"
)

func TestBulkTriggerCollectsPerItemFailures(t *testing.T) {
	adapter := &fakeAdapter{
		triggerFn: func(_ context.Context, appID string, _ model.ReloadOptions) (*model.TriggerResult, error) {
			if appID == "b" {
				return nil, errors.New("app not found")
			}
			return &model.TriggerResult{ID: "job-" + appID, AppID: appID, InitialState: model.StateQueued}, nil
		},
	}
	bulk := NewBulk(adapter, testLogger())

	result := bulk.Trigger(context.Background(), []string{"a", "b", "c"}, model.ReloadOptions{})
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Summary.Requested)
	assert.Equal(t, 2, result.Summary.Triggered)
	assert.Equal(t, 1, result.Summary.Failed)
	require.Len(t, result.Triggered, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "b", result.Errors[0].AppID)
	assert.Contains(t, result.Errors[0].Message, "app not found")
}

func TestBulkTriggerAllSucceed(t *testing.T) {
	adapter := &fakeAdapter{}
	bulk := NewBulk(adapter, testLogger())

	result := bulk.Trigger(context.Background(), []string{"a", "b"}, model.ReloadOptions{})
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Summary.Triggered)
	assert.Empty(t, result.Errors)
}

func TestBulkTriggerForcesWaitOff(t *testing.T) {
	var sawWait bool
	adapter := &fakeAdapter{
		triggerFn: func(_ context.Context, appID string, opts model.ReloadOptions) (*model.TriggerResult, error) {
			sawWait = sawWait || opts.WaitForCompletion
			return &model.TriggerResult{ID: "job-" + appID, AppID: appID}, nil
		},
	}
	bulk := NewBulk(adapter, testLogger())

	bulk.Trigger(context.Background(), []string{"a", "b"}, model.ReloadOptions{WaitForCompletion: true})
	assert.False(t, sawWait, "bulk triggering must not serialize on individual completions")
}

func TestBulkTriggerEmptyInput(t *testing.T) {
	bulk := NewBulk(&fakeAdapter{}, testLogger())
	result := bulk.Trigger(context.Background(), nil, model.ReloadOptions{})
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Summary.Requested)
}
