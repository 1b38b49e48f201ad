// Package application provides the application layer that orchestrates correction runs.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"nucorrect-go/core/command"
	"nucorrect-go/core/event"
	"nucorrect-go/core/eventbus"
	"nucorrect-go/core/state"
	"nucorrect-go/domain/job"
	"nucorrect-go/infrastructure/logging"
	"nucorrect-go/infrastructure/process"
)

var (
	// ErrRunInProgress is returned when a run is requested while another is still active.
	ErrRunInProgress = errors.New("a correction run is already in progress")
	// ErrStopped is returned when a run is requested after Stop.
	ErrStopped = errors.New("coordinator stopped")
)

// Coordinator owns the single run slot: at most one external process is in flight at a time.
type Coordinator struct {
	// State
	state        state.RunState
	currentRunID string
	runSeq       uint64
	stateMu      sync.RWMutex

	// Dependencies
	runner      process.Runner
	eventBus    eventbus.EventBus
	tool        string
	previewPath string
	logger      *slog.Logger

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// CoordinatorConfig holds configuration for the Coordinator.
type CoordinatorConfig struct {
	EventBus eventbus.EventBus
	// Runner executes the tool; nil means a default process.Streamer.
	Runner process.Runner
	// Tool is the executable name or path; empty means job.DefaultTool.
	Tool string
	// PreviewPath is reported with every completed run.
	PreviewPath string
	Logger      *slog.Logger
}

// NewCoordinator creates a new run coordinator.
func NewCoordinator(cfg *CoordinatorConfig) *Coordinator {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = process.NewStreamer(nil)
	}
	if cfg.Tool == "" {
		cfg.Tool = job.DefaultTool
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Coordinator{
		state:       state.StateIdle,
		runner:      cfg.Runner,
		eventBus:    cfg.EventBus,
		tool:        cfg.Tool,
		previewPath: cfg.PreviewPath,
		logger:      cfg.Logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins the coordinator.
func (c *Coordinator) Start() {
	c.logger.Info("Coordinator started", "tool", c.tool, "preview", c.previewPath)
}

// Stop kills any running process and waits briefly for the worker to finish.
func (c *Coordinator) Stop() {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		c.logger.Warn("Coordinator stop timeout, run may not have finished cleanly")
	}

	c.logger.Info("Coordinator stopped")
}

// Wait blocks until no run is in flight.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Dispatch sends a command to the appropriate handler.
func (c *Coordinator) Dispatch(cmd command.Command) error {
	c.logger.Debug("Dispatching command", "command", cmd.CommandName())

	switch cmd := cmd.(type) {
	case *command.RunCorrection:
		return c.handleRunCorrection(cmd)
	default:
		return fmt.Errorf("unknown command type: %T", cmd)
	}
}

// BuildJob returns the job a RunCorrection with these paths would execute.
func (c *Coordinator) BuildJob(input, output string) *job.Job {
	return job.New(input, output)
}

// CommandLine returns the display form of the command for a job.
func (c *Coordinator) CommandLine(j *job.Job) string {
	return j.CommandLine(c.tool)
}

// Tool returns the configured executable.
func (c *Coordinator) Tool() string {
	return c.tool
}

// PreviewPath returns the expected preview location.
func (c *Coordinator) PreviewPath() string {
	return c.previewPath
}

// State returns the current run state.
func (c *Coordinator) State() state.RunState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// IsRunning reports whether a run is in flight.
func (c *Coordinator) IsRunning() bool {
	return c.State().IsActive()
}

// CurrentRunID returns the ID of the active or most recent run, or "" before the first run.
func (c *Coordinator) CurrentRunID() string {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.currentRunID
}

// Command handlers

func (c *Coordinator) handleRunCorrection(cmd *command.RunCorrection) error {
	args := c.BuildJob(cmd.Input, cmd.Output).Args(c.tool)

	c.stateMu.Lock()
	if c.ctx.Err() != nil {
		c.stateMu.Unlock()
		return ErrStopped
	}
	if !c.state.CanStart() {
		reason := "run " + c.currentRunID + " is active"
		err := state.NewTransitionError(c.state, state.StateRunning, reason)
		c.stateMu.Unlock()
		return fmt.Errorf("%w: %w", ErrRunInProgress, err)
	}
	c.runSeq++
	runID := fmt.Sprintf("run-%d", c.runSeq)
	oldState := c.state
	c.state = state.StateRunning
	c.currentRunID = runID
	c.wg.Add(1)
	c.stateMu.Unlock()

	// Published before the worker starts so they precede any output line.
	c.publish(event.NewRunStateChanged(runID, oldState, state.StateRunning))
	c.publish(event.NewRunStarted(runID, args))

	go c.execute(runID, args)
	return nil
}

func (c *Coordinator) execute(runID string, args []string) {
	defer c.wg.Done()

	ctx := logging.WithAttrs(logging.With(c.ctx, c.logger), "run_id", runID)
	logger := logging.From(ctx)
	logger.Info("Correction run started", "command", strings.Join(args, " "))
	started := time.Now()

	exitCode, err := c.runner.Run(ctx, args, func(stream event.Stream, line string) {
		c.publish(event.NewOutputReceived(runID, stream, line))
	})

	newState := state.StateSucceeded
	if err != nil {
		newState = state.StateFailed
		if errors.Is(err, process.ErrStart) {
			// The tool never ran, so surface the reason in the error stream.
			c.publish(event.NewOutputReceived(runID, event.Stderr, err.Error()))
		}
		logger.Warn("Correction run failed", "exit_code", exitCode, "error", err, "elapsed", time.Since(started))
	} else {
		logger.Info("Correction run finished", "exit_code", exitCode, "elapsed", time.Since(started))
	}

	c.stateMu.Lock()
	oldState := c.state
	if !oldState.CanTransitionTo(newState) {
		logger.Error("Unexpected run state on completion",
			"error", state.NewTransitionError(oldState, newState, "run "+runID+" finished"),
			"valid", oldState.ValidTransitions())
	}
	c.state = newState
	c.stateMu.Unlock()

	c.publish(event.NewRunStateChanged(runID, oldState, newState))
	c.publish(event.NewRunCompleted(runID, exitCode, err, c.previewPath))
}

func (c *Coordinator) publish(e event.Event) {
	if c.eventBus != nil {
		c.eventBus.Publish(e)
	}
}
