// Package state defines the correction run state machine.
package state

import (
	"fmt"
	"slices"
)

// RunState represents the lifecycle state of the correction runner.
type RunState int

const (
	// StateIdle is the initial state; no run has been started yet.
	StateIdle RunState = iota
	// StateRunning indicates the external tool is executing.
	StateRunning
	// StateSucceeded indicates the last run exited with status 0.
	StateSucceeded
	// StateFailed indicates the last run could not start or exited non-zero.
	StateFailed
)

// String returns the string representation of the state.
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateSucceeded:
		return "Succeeded"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// validTransitions defines the allowed state transitions.
var validTransitions = map[RunState][]RunState{
	StateIdle:      {StateRunning},
	StateRunning:   {StateSucceeded, StateFailed},
	StateSucceeded: {StateRunning},
	StateFailed:    {StateRunning},
}

// CanTransitionTo checks if transitioning from the current state to the target state is valid.
func (s RunState) CanTransitionTo(target RunState) bool {
	return slices.Contains(validTransitions[s], target)
}

// ValidTransitions returns the list of valid target states from the current state.
func (s RunState) ValidTransitions() []RunState {
	return validTransitions[s]
}

// IsActive reports whether a run is in flight.
func (s RunState) IsActive() bool {
	return s == StateRunning
}

// CanStart reports whether a new run may be started.
func (s RunState) CanStart() bool {
	return s.CanTransitionTo(StateRunning)
}

// TransitionError represents an invalid state transition attempt.
type TransitionError struct {
	From   RunState
	To     RunState
	Reason string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid state transition from %s to %s: %s", e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// NewTransitionError creates a new TransitionError.
func NewTransitionError(from, to RunState, reason string) *TransitionError {
	return &TransitionError{From: from, To: to, Reason: reason}
}
