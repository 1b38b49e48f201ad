// Package event defines all events that can be published by the application.
// Events represent state changes and are consumed by the presentation layer.
package event

import "nucorrect-go/core/state"

// Event is the base interface for all events.
type Event interface {
	// EventName returns the name of the event for logging/debugging
	EventName() string
}

// RunEvent is an event that originates from a specific correction run.
type RunEvent interface {
	Event
	// RunID returns the source run ID
	RunID() string
}

type baseRunEvent struct {
	runID string
}

func (e *baseRunEvent) RunID() string {
	return e.runID
}

// RunStateChanged is published when the runner's state changes.
type RunStateChanged struct {
	baseRunEvent
	OldState state.RunState
	NewState state.RunState
}

func NewRunStateChanged(runID string, oldState, newState state.RunState) *RunStateChanged {
	return &RunStateChanged{
		baseRunEvent: baseRunEvent{runID: runID},
		OldState:     oldState,
		NewState:     newState,
	}
}

func (e *RunStateChanged) EventName() string {
	return "RunStateChanged"
}
