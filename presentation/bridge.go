// Package presentation provides the UI layer with event bridging to the application layer.
package presentation

import (
	"log/slog"
	"sync"

	"nucorrect-go/application"
	"nucorrect-go/core/command"
	"nucorrect-go/core/event"
	"nucorrect-go/core/eventbus"
	"nucorrect-go/core/state"
)

// UIEventBridge bridges UI actions to the Coordinator and routes bus events back to the UI.
// Callbacks run on the event bus goroutine; UI code must hop to the main thread itself.
type UIEventBridge struct {
	coordinator *application.Coordinator
	eventBus    eventbus.EventBus
	logger      *slog.Logger

	callbacks   *UICallbacks
	callbacksMu sync.RWMutex

	subscriptionID string
}

// UICallbacks contains callbacks for UI updates.
type UICallbacks struct {
	OnRunStateChanged func(runID string, oldState, newState state.RunState)
	OnRunStarted      func(runID string, args []string)
	OnStdout          func(runID, line string)
	OnStderr          func(runID, line string)
	OnRunCompleted    func(runID string, exitCode int, err error, previewPath string)
}

// BridgeConfig holds configuration for UIEventBridge.
type BridgeConfig struct {
	Coordinator *application.Coordinator
	EventBus    eventbus.EventBus
	Logger      *slog.Logger
}

// NewUIEventBridge creates a new UI event bridge.
func NewUIEventBridge(cfg *BridgeConfig) *UIEventBridge {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	b := &UIEventBridge{
		coordinator: cfg.Coordinator,
		eventBus:    cfg.EventBus,
		logger:      cfg.Logger,
		callbacks:   &UICallbacks{},
	}

	if b.eventBus != nil {
		b.subscriptionID = b.eventBus.Subscribe(b.handleEvent)
	}

	return b
}

// SetCallbacks sets the UI callbacks. Nil clears them.
func (b *UIEventBridge) SetCallbacks(callbacks *UICallbacks) {
	b.callbacksMu.Lock()
	defer b.callbacksMu.Unlock()
	b.callbacks = callbacks
}

// Close unsubscribes from the event bus.
func (b *UIEventBridge) Close() {
	if b.eventBus != nil && b.subscriptionID != "" {
		b.eventBus.Unsubscribe(b.subscriptionID)
		b.subscriptionID = ""
	}
}

// RunCorrection asks the coordinator to start the tool on input, writing output.
func (b *UIEventBridge) RunCorrection(input, output string) error {
	return b.coordinator.Dispatch(command.NewRunCorrection(input, output))
}

// CommandLine returns the command that RunCorrection would execute, for display.
func (b *UIEventBridge) CommandLine(input, output string) string {
	return b.coordinator.CommandLine(b.coordinator.BuildJob(input, output))
}

// IsRunning reports whether a run is in flight.
func (b *UIEventBridge) IsRunning() bool {
	return b.coordinator.IsRunning()
}

func (b *UIEventBridge) handleEvent(e event.Event) {
	b.callbacksMu.RLock()
	callbacks := b.callbacks
	b.callbacksMu.RUnlock()

	if callbacks == nil {
		return
	}

	switch evt := e.(type) {
	case *event.RunStateChanged:
		if callbacks.OnRunStateChanged != nil {
			callbacks.OnRunStateChanged(evt.RunID(), evt.OldState, evt.NewState)
		}

	case *event.RunStarted:
		if callbacks.OnRunStarted != nil {
			callbacks.OnRunStarted(evt.RunID(), evt.Args)
		}

	case *event.OutputReceived:
		switch evt.Stream {
		case event.Stdout:
			if callbacks.OnStdout != nil {
				callbacks.OnStdout(evt.RunID(), evt.Line)
			}
		case event.Stderr:
			if callbacks.OnStderr != nil {
				callbacks.OnStderr(evt.RunID(), evt.Line)
			}
		}

	case *event.RunCompleted:
		if callbacks.OnRunCompleted != nil {
			callbacks.OnRunCompleted(evt.RunID(), evt.ExitCode, evt.Error, evt.PreviewPath)
		}

	default:
		b.logger.Debug("Unhandled event", "event", e.EventName())
	}
}
