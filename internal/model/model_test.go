package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveDuration(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       float64
	}{
		{"both present", "2026-08-01T10:00:00Z", "2026-08-01T10:02:30Z", 150},
		{"missing end", "2026-08-01T10:00:00Z", "", 0},
		{"missing start", "", "2026-08-01T10:02:30Z", 0},
		{"unparseable", "yesterday", "2026-08-01T10:02:30Z", 0},
		{"end before start", "2026-08-01T10:02:30Z", "2026-08-01T10:00:00Z", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := ReloadTask{StartTime: tt.start, EndTime: tt.end}
			task.DeriveDuration()
			assert.Equal(t, tt.want, task.Duration)
		})
	}
}

func TestReloadOptionsWithDefaults(t *testing.T) {
	opts := ReloadOptions{}.WithDefaults()
	assert.Equal(t, DefaultTimeoutSeconds, opts.TimeoutSeconds)
	assert.Equal(t, DefaultPollIntervalSeconds, opts.PollIntervalSeconds)
	assert.Equal(t, DefaultCrossCheckEvery, opts.CrossCheckEvery)
	assert.Equal(t, DefaultMaxRetries, opts.MaxRetries)
	assert.Equal(t, DefaultMaxConsecutiveErrors, opts.MaxConsecutiveErrors)

	custom := ReloadOptions{TimeoutSeconds: 60, PollIntervalSeconds: 5, CrossCheckEvery: 3, MaxRetries: 4, MaxConsecutiveErrors: 2}.WithDefaults()
	assert.Equal(t, 60, custom.TimeoutSeconds)
	assert.Equal(t, 5, custom.PollIntervalSeconds)
	assert.Equal(t, 3, custom.CrossCheckEvery)
	assert.Equal(t, 4, custom.MaxRetries)
	assert.Equal(t, 2, custom.MaxConsecutiveErrors)
}
