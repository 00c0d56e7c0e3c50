package model

import "time"

// ReloadTask is the canonical view of one refresh job, whichever backend it
// was read from.
type ReloadTask struct {
	// ID identifies one execution. On QRS this is the handle returned by the
	// synchronous start call, distinct from TaskID.
	ID string `json:"id"`
	// TaskID is the durable QRS task definition; empty on cloud, where a job
	// has no lifetime beyond its run.
	TaskID       string      `json:"taskId,omitempty"`
	AppID        string      `json:"appId"`
	AppName      string      `json:"appName,omitempty"`
	SpaceID      string      `json:"spaceId,omitempty"`
	SpaceName    string      `json:"spaceName,omitempty"`
	State        ReloadState `json:"state"`
	StartTime    string      `json:"startTime,omitempty"`
	EndTime      string      `json:"endTime,omitempty"`
	Duration     float64     `json:"duration,omitempty"`
	// Progress is a heuristic estimate (0-100), not a measured value.
	Progress     int         `json:"progress"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
	Trigger      TriggerKind `json:"trigger,omitempty"`
	Partial      bool        `json:"partial,omitempty"`
}

// DeriveDuration fills Duration (seconds) when both timestamps are present
// and parseable. Sources that omit EndTime leave Duration at zero.
func (t *ReloadTask) DeriveDuration() {
	if t.StartTime == "" || t.EndTime == "" {
		return
	}
	start, err := time.Parse(time.RFC3339, t.StartTime)
	if err != nil {
		return
	}
	end, err := time.Parse(time.RFC3339, t.EndTime)
	if err != nil {
		return
	}
	if d := end.Sub(start); d > 0 {
		t.Duration = d.Seconds()
	}
}

// TriggerResult is returned by a backend trigger call.
type TriggerResult struct {
	ID           string      `json:"id"`
	TaskID       string      `json:"taskId,omitempty"`
	AppID        string      `json:"appId"`
	InitialState ReloadState `json:"initialState"`
}

// ReloadOptions configures one trigger/monitor call.
type ReloadOptions struct {
	Partial           bool `json:"partial"`
	SkipStore         bool `json:"skipStore"`
	WaitForCompletion bool `json:"waitForCompletion"`
	// TimeoutSeconds bounds the whole polling session by wall clock.
	TimeoutSeconds      int `json:"timeoutSeconds"`
	PollIntervalSeconds int `json:"pollIntervalSeconds"`
	// CrossCheckEvery runs the secondary getLatestForApp comparison on every
	// Nth poll iteration.
	CrossCheckEvery int `json:"crossCheckEvery"`
	// MaxRetries bounds failed status checks across the whole session;
	// MaxConsecutiveErrors bounds an unbroken run of them. Hitting either
	// limit surfaces the last error instead of polling on.
	MaxRetries           int `json:"maxRetries"`
	MaxConsecutiveErrors int `json:"maxConsecutiveErrors"`
}

const (
	DefaultTimeoutSeconds       = 300
	DefaultPollIntervalSeconds  = 2
	DefaultCrossCheckEvery      = 5
	DefaultMaxRetries           = 10
	DefaultMaxConsecutiveErrors = 3
)

// WithDefaults returns a copy with zero-valued knobs replaced by defaults.
func (o ReloadOptions) WithDefaults() ReloadOptions {
	if o.TimeoutSeconds <= 0 {
		o.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if o.PollIntervalSeconds <= 0 {
		o.PollIntervalSeconds = DefaultPollIntervalSeconds
	}
	if o.CrossCheckEvery <= 0 {
		o.CrossCheckEvery = DefaultCrossCheckEvery
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.MaxConsecutiveErrors <= 0 {
		o.MaxConsecutiveErrors = DefaultMaxConsecutiveErrors
	}
	return o
}

// StatusHistoryEntry records one observation made during a polling session.
// Entries are append-only and live only for the duration of the session.
type StatusHistoryEntry struct {
	Timestamp string      `json:"timestamp"`
	State     ReloadState `json:"state"`
	Progress  int         `json:"progress,omitempty"`
	Message   string      `json:"message,omitempty"`
}

// MonitoringResult is the terminal outcome of one waitForCompletion session.
// A timeout is a reported outcome, not an error.
type MonitoringResult struct {
	Success  bool                 `json:"success"`
	TimedOut bool                 `json:"timeout,omitempty"`
	Task     *ReloadTask          `json:"task,omitempty"`
	Error    string               `json:"error,omitempty"`
	History  []StatusHistoryEntry `json:"history,omitempty"`
	// Log holds a best-effort log summary, fetched eagerly when the job
	// reached a failed terminal state.
	Log *ReloadLog `json:"log,omitempty"`
}

// ReloadStatistics is derived on demand from a list of tasks; it has no
// lifecycle of its own.
type ReloadStatistics struct {
	TotalReloads    int         `json:"totalReloads"`
	Succeeded       int         `json:"succeeded"`
	Failed          int         `json:"failed"`
	Canceled        int         `json:"canceled"`
	InProgress      int         `json:"inProgress"`
	SuccessRate     float64     `json:"successRate"`
	FailureRate     float64     `json:"failureRate"`
	AverageDuration float64     `json:"averageDuration"`
	LastSuccessful  *ReloadTask `json:"lastSuccessful,omitempty"`
	LastFailed      *ReloadTask `json:"lastFailed,omitempty"`
}

// LogLevel classifies one parsed reload log line.
type LogLevel string

const (
	LogLevelError LogLevel = "ERROR"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelInfo  LogLevel = "INFO"
)

// LogEntry is one structured line of a reload script log.
type LogEntry struct {
	LineNumber int      `json:"lineNumber"`
	Timestamp  string   `json:"timestamp,omitempty"`
	Level      LogLevel `json:"level"`
	Message    string   `json:"message"`
}

// LogSummary counts log lines by level.
type LogSummary struct {
	TotalLines int `json:"totalLines"`
	Errors     int `json:"errors"`
	Warnings   int `json:"warnings"`
	Info       int `json:"info"`
}

// ReloadLog is a parsed reload log. Backends without a log endpoint return
// empty Entries plus a Note pointing at where the logs actually live.
type ReloadLog struct {
	Entries []LogEntry `json:"entries"`
	Summary LogSummary `json:"summary"`
	Note    string     `json:"note,omitempty"`
}

// BulkSummary counts the outcome of a bulk trigger.
type BulkSummary struct {
	Requested int `json:"requested"`
	Triggered int `json:"triggered"`
	Failed    int `json:"failed"`
}

// BulkError records one app that could not be triggered.
type BulkError struct {
	AppID   string `json:"appId"`
	Message string `json:"message"`
}

// BulkResult is the outcome of a bulk trigger: per-item results, never
// aborted by a single failure.
type BulkResult struct {
	Success   bool            `json:"success"`
	Summary   BulkSummary     `json:"summary"`
	Triggered []TriggerResult `json:"triggered"`
	Errors    []BulkError     `json:"errors"`
}

// HistoryQuery parameterizes a paged history listing.
type HistoryQuery struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	// Optional filters.
	State   ReloadState `json:"state,omitempty"`
	AppID   string      `json:"appId,omitempty"`
	SpaceID string      `json:"spaceId,omitempty"`
	From    string      `json:"from,omitempty"`
	To      string      `json:"to,omitempty"`

	SortBy    string `json:"sortBy,omitempty"`
	SortOrder string `json:"sortOrder,omitempty"`
	// IncludeDetails enables app-detail enrichment on the page.
	IncludeDetails bool `json:"includeDetails,omitempty"`
}

// HistoryPage is one page of history. The backend exposes no total count, so
// HasMore and EstimatedTotal are page-fullness approximations.
type HistoryPage struct {
	Items          []ReloadTask `json:"items"`
	Limit          int          `json:"limit"`
	Offset         int          `json:"offset"`
	Returned       int          `json:"returned"`
	HasMore        bool         `json:"hasMore"`
	EstimatedTotal int          `json:"estimatedTotal"`
	Note           string       `json:"note,omitempty"`
}

// AppInfo is the enrichment record for one app. Deleted marks the
// placeholder produced when the app itself can no longer be fetched.
type AppInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SpaceID   string `json:"spaceId,omitempty"`
	SpaceName string `json:"spaceName,omitempty"`
	Deleted   bool   `json:"deleted,omitempty"`
}
