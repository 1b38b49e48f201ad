package presentation

import (
	"errors"
	"testing"

	"nucorrect-go/core/event"
	"nucorrect-go/core/state"
)

type otherEvent struct{}

func (otherEvent) EventName() string { return "Other" }

func TestUICallbacks_Nil(t *testing.T) {
	callbacks := &UICallbacks{}

	if callbacks.OnStdout != nil {
		t.Error("OnStdout should be nil by default")
	}
	if callbacks.OnRunCompleted != nil {
		t.Error("OnRunCompleted should be nil by default")
	}
}

func TestBridgeConfig(t *testing.T) {
	cfg := &BridgeConfig{}

	if cfg.Coordinator != nil {
		t.Error("Coordinator should be nil by default")
	}
	if cfg.EventBus != nil {
		t.Error("EventBus should be nil by default")
	}
	if cfg.Logger != nil {
		t.Error("Logger should be nil by default")
	}
}

func TestBridge_HandleEvent_Routes(t *testing.T) {
	b := NewUIEventBridge(&BridgeConfig{})

	var stdout, stderr []string
	var started []string
	var transitions []state.RunState
	var completedCode int
	var completedErr error
	var completedPreview string

	b.SetCallbacks(&UICallbacks{
		OnRunStateChanged: func(runID string, oldState, newState state.RunState) {
			transitions = append(transitions, newState)
		},
		OnRunStarted: func(runID string, args []string) {
			started = args
		},
		OnStdout: func(runID, line string) { stdout = append(stdout, line) },
		OnStderr: func(runID, line string) { stderr = append(stderr, line) },
		OnRunCompleted: func(runID string, exitCode int, err error, previewPath string) {
			completedCode, completedErr, completedPreview = exitCode, err, previewPath
		},
	})

	runErr := errors.New("exit status 1")
	b.handleEvent(event.NewRunStateChanged("r1", state.StateIdle, state.StateRunning))
	b.handleEvent(event.NewRunStarted("r1", []string{"nu_correct", "-clobber", "a", "b"}))
	b.handleEvent(event.NewOutputReceived("r1", event.Stdout, "out"))
	b.handleEvent(event.NewOutputReceived("r1", event.Stderr, "err"))
	b.handleEvent(event.NewRunCompleted("r1", 1, runErr, "p.jpg"))
	b.handleEvent(otherEvent{})

	if len(transitions) != 1 || transitions[0] != state.StateRunning {
		t.Errorf("transitions = %v", transitions)
	}
	if len(started) != 4 || started[0] != "nu_correct" {
		t.Errorf("started args = %v", started)
	}
	if len(stdout) != 1 || stdout[0] != "out" {
		t.Errorf("stdout = %v", stdout)
	}
	if len(stderr) != 1 || stderr[0] != "err" {
		t.Errorf("stderr = %v", stderr)
	}
	if completedCode != 1 || completedErr != runErr || completedPreview != "p.jpg" {
		t.Errorf("completed = (%d, %v, %q)", completedCode, completedErr, completedPreview)
	}
}

func TestBridge_HandleEvent_NilCallbacks(t *testing.T) {
	b := NewUIEventBridge(&BridgeConfig{})

	// Should not panic with empty or nil callbacks
	b.handleEvent(event.NewOutputReceived("r1", event.Stdout, "x"))
	b.SetCallbacks(nil)
	b.handleEvent(event.NewRunCompleted("r1", 0, nil, ""))
}
