// Package model defines the canonical, backend-agnostic data structures for
// reload orchestration: states, tasks, options, monitoring results, and
// derived statistics.
package model

// ReloadState is the canonical state of a reload job, independent of which
// backend vocabulary it was read from.
type ReloadState string

const (
	StateQueued    ReloadState = "queued"
	StateReloading ReloadState = "reloading"
	StateSucceeded ReloadState = "succeeded"
	StateFailed    ReloadState = "failed"
	StateCanceled  ReloadState = "canceled"
	StateSkipped   ReloadState = "skipped"
	StateError     ReloadState = "error"
)

var completionStates = map[ReloadState]bool{
	StateSucceeded: true,
	StateFailed:    true,
	StateCanceled:  true,
	StateSkipped:   true,
	StateError:     true,
}

// IsCompletionState reports whether s is terminal: no further transition
// will be observed for the job.
func IsCompletionState(s ReloadState) bool {
	return completionStates[s]
}

// TriggerKind describes what initiated a reload.
type TriggerKind string

const (
	TriggerManual     TriggerKind = "manual"
	TriggerScheduled  TriggerKind = "scheduled"
	TriggerAPI        TriggerKind = "api"
	TriggerAutomation TriggerKind = "automation"
	TriggerExternal   TriggerKind = "external"
)
