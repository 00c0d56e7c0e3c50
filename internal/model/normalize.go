package model

import "strings"

// cloudStateAliases maps the cloud job queue's status vocabulary (and the
// variants observed across tenant API versions) onto canonical states.
// Lookup is case-insensitive.
var cloudStateAliases = map[string]ReloadState{
	"queued":         StateQueued,
	"pending":        StateQueued,
	"created":        StateQueued,
	"triggered":      StateQueued,
	"reloading":      StateReloading,
	"running":        StateReloading,
	"in_progress":    StateReloading,
	"active":         StateReloading,
	"loading":        StateReloading,
	"succeeded":      StateSucceeded,
	"success":        StateSucceeded,
	"complete":       StateSucceeded,
	"completed":      StateSucceeded,
	"finished":       StateSucceeded,
	"ok":             StateSucceeded,
	"failed":         StateFailed,
	"failure":        StateFailed,
	"exceeded_limit": StateFailed,
	"error":          StateError,
	"canceled":       StateCanceled,
	"cancelled":      StateCanceled,
	"canceling":      StateCanceled,
	"cancelling":     StateCanceled,
	"abort":          StateCanceled,
	"aborted":        StateCanceled,
	"aborting":       StateCanceled,
	"skipped":        StateSkipped,
}

// NormalizeCloudState maps a raw cloud status string to a canonical state.
// An empty/absent status means the job has been accepted but not yet picked
// up, so it normalizes to queued. An unrecognized non-empty status maps to
// failed; see DESIGN.md for why that quirk is preserved rather than repaired.
func NormalizeCloudState(raw string) ReloadState {
	if raw == "" {
		return StateQueued
	}
	if s, ok := cloudStateAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return StateFailed
}

// KnownCloudState reports whether raw appears in the cloud alias table.
// Callers use it to log unrecognized vocabulary before NormalizeCloudState
// collapses it to failed.
func KnownCloudState(raw string) bool {
	if raw == "" {
		return true
	}
	_, ok := cloudStateAliases[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// qrsStates is the total mapping from the QRS operational status code
// (operational.lastExecutionResult.status, 0-8) to canonical states.
var qrsStates = [9]ReloadState{
	0: StateQueued,    // NeverStarted
	1: StateQueued,    // Triggered
	2: StateReloading, // Started
	3: StateQueued,    // Queued
	4: StateCanceled,  // AbortInitiated
	5: StateCanceled,  // Aborting
	6: StateCanceled,  // Aborted
	7: StateSucceeded, // FinishedSuccess
	8: StateFailed,    // FinishedFail
}

var qrsStatusNames = [9]string{
	"NeverStarted", "Triggered", "Started", "Queued",
	"AbortInitiated", "Aborting", "Aborted", "FinishedSuccess", "FinishedFail",
}

// qrsProgress is a fixed heuristic, not a measurement: QRS exposes no real
// progress for a reload task, only its status code.
var qrsProgress = [9]int{
	0: 0,
	1: 5,
	2: 50,
	3: 0,
	4: 90,
	5: 95,
	6: 100,
	7: 100,
	8: 100,
}

// NormalizeQRSState maps a QRS status code to a canonical state. Codes
// outside 0-8 normalize to queued.
func NormalizeQRSState(code int) ReloadState {
	if code < 0 || code > 8 {
		return StateQueued
	}
	return qrsStates[code]
}

// EstimateProgress returns the heuristic completion percentage for a QRS
// status code. Out-of-range codes estimate 0.
func EstimateProgress(code int) int {
	if code < 0 || code > 8 {
		return 0
	}
	return qrsProgress[code]
}

// QRSStatusName returns the QRS name for a status code, for log messages.
func QRSStatusName(code int) string {
	if code < 0 || code > 8 {
		return "Unknown"
	}
	return qrsStatusNames[code]
}
