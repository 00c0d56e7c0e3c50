package reload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofirwie/qlikfox/internal/model"
)

func TestParseCloudLog(t *testing.T) {
	raw := "2026-08-01T10:00:01Z Started loading data\n" +
		"2026-08-01T10:00:02Z Lib connection established\n" +
		"\n" +
		"2026-08-01T10:00:05Z WARNING: field Sales truncated\n" +
		"2026-08-01T10:00:09Z Error: table Orders not found\n" +
		"Reload failed\r\n"

	log := ParseCloudLog(raw)
	require.Len(t, log.Entries, 5)
	assert.Equal(t, 5, log.Summary.TotalLines)
	assert.Equal(t, 2, log.Summary.Errors)
	assert.Equal(t, 1, log.Summary.Warnings)
	assert.Equal(t, 2, log.Summary.Info)

	first := log.Entries[0]
	assert.Equal(t, 1, first.LineNumber)
	assert.Equal(t, "2026-08-01T10:00:01Z", first.Timestamp)
	assert.Equal(t, model.LogLevelInfo, first.Level)

	// Blank line skipped, so the warning is the third entry at line 4.
	warn := log.Entries[2]
	assert.Equal(t, 4, warn.LineNumber)
	assert.Equal(t, model.LogLevelWarn, warn.Level)

	last := log.Entries[4]
	assert.Equal(t, model.LogLevelError, last.Level)
	assert.Empty(t, last.Timestamp)
	assert.Equal(t, "Reload failed", last.Message)
}

func TestParseCloudLogEmpty(t *testing.T) {
	log := ParseCloudLog("")
	assert.Empty(t, log.Entries)
	assert.Equal(t, 0, log.Summary.TotalLines)
}

func TestParseCloudLogLevelDetectionCaseInsensitive(t *testing.T) {
	tests := []struct {
		line string
		want model.LogLevel
	}{
		{"something error happened", model.LogLevelError},
		{"Reload FAILED after 3 retries", model.LogLevelError},
		{"warn: low memory", model.LogLevelWarn},
		{"Warning threshold reached", model.LogLevelWarn},
		{"10 rows fetched", model.LogLevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			log := ParseCloudLog(tt.line)
			require.Len(t, log.Entries, 1)
			assert.Equal(t, tt.want, log.Entries[0].Level)
		})
	}
}

func TestParseCloudLogTimestampVariants(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"2026-08-01T10:00:01Z ok", "2026-08-01T10:00:01Z"},
		{"2026-08-01 10:00:01.123+02:00 ok", "2026-08-01 10:00:01.123+02:00"},
		{"prefix 2026-08-01T10:00:01 suffix", "2026-08-01T10:00:01"},
		{"no timestamp here", ""},
	}
	for _, tt := range tests {
		log := ParseCloudLog(tt.line)
		require.Len(t, log.Entries, 1)
		assert.Equal(t, tt.want, log.Entries[0].Timestamp)
	}
}

func TestOnPremLogPlaceholder(t *testing.T) {
	failed := OnPremLogPlaceholder(8)
	assert.Empty(t, failed.Entries)
	assert.Equal(t, 1, failed.Summary.Errors)
	assert.Contains(t, failed.Note, "QMC")

	ok := OnPremLogPlaceholder(7)
	assert.Equal(t, 0, ok.Summary.Errors)
	assert.NotEmpty(t, ok.Note)
}
