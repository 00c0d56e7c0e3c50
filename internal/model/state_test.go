package model

import "testing"

func TestIsCompletionState(t *testing.T) {
	tests := []struct {
		state    ReloadState
		terminal bool
	}{
		{StateQueued, false},
		{StateReloading, false},
		{StateSucceeded, true},
		{StateFailed, true},
		{StateCanceled, true},
		{StateSkipped, true},
		{StateError, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := IsCompletionState(tt.state); got != tt.terminal {
				t.Errorf("IsCompletionState(%q) = %v, want %v", tt.state, got, tt.terminal)
			}
		})
	}
}
