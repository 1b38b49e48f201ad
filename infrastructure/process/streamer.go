// Package process runs an external command and streams its output line by line.
package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"nucorrect-go/core/event"
	"nucorrect-go/infrastructure/logging"
)

var (
	// ErrNoCommand is returned when Run is given an empty argv.
	ErrNoCommand = errors.New("no command given")
	// ErrStart wraps every failure that happens before the child is running.
	ErrStart = errors.New("failed to start")
)

// LineHandler receives one output line. It may be called from two goroutines at once,
// one per stream; lines within a stream arrive in order.
type LineHandler func(stream event.Stream, line string)

// Runner executes a command to completion, reporting its output as it arrives.
type Runner interface {
	// Run starts args[0] with args[1:], blocks until both output streams reach EOF
	// and the process has exited, and returns the exit code.
	// The exit code is -1 when the process could not be started (the error wraps ErrStart)
	// or was killed by a signal.
	Run(ctx context.Context, args []string, onLine LineHandler) (int, error)
}

// StreamerConfig holds configuration for Streamer.
type StreamerConfig struct {
	// Dir is the working directory of the child; empty means the current directory.
	Dir string
	// MaxLineSize bounds a single line in bytes. Longer lines are cut to this size.
	MaxLineSize int
}

// DefaultStreamerConfig returns sensible defaults.
func DefaultStreamerConfig() *StreamerConfig {
	return &StreamerConfig{
		MaxLineSize: 1024 * 1024,
	}
}

// Streamer is the os/exec backed Runner.
type Streamer struct {
	dir         string
	maxLineSize int
}

// NewStreamer creates a Streamer. A nil config means DefaultStreamerConfig.
func NewStreamer(cfg *StreamerConfig) *Streamer {
	if cfg == nil {
		cfg = DefaultStreamerConfig()
	}
	if cfg.MaxLineSize <= 0 {
		cfg.MaxLineSize = DefaultStreamerConfig().MaxLineSize
	}
	return &Streamer{
		dir:         cfg.Dir,
		maxLineSize: cfg.MaxLineSize,
	}
}

// Run implements Runner. It logs through the logger carried by ctx.
func (s *Streamer) Run(ctx context.Context, args []string, onLine LineHandler) (int, error) {
	if len(args) == 0 {
		return -1, ErrNoCommand
	}
	if onLine == nil {
		onLine = func(event.Stream, string) {}
	}
	logger := logging.From(ctx)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = s.dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, fmt.Errorf("%w %s: stdout pipe: %w", ErrStart, args[0], err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, fmt.Errorf("%w %s: stderr pipe: %w", ErrStart, args[0], err)
	}

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("%w %s: %w", ErrStart, args[0], err)
	}
	logger.Debug("Process started", "pid", cmd.Process.Pid, "args", args)

	// Both pipes must reach EOF before Wait closes them.
	var g errgroup.Group
	g.Go(func() error { return s.scanLines(stdout, event.Stdout, onLine, logger) })
	g.Go(func() error { return s.scanLines(stderr, event.Stderr, onLine, logger) })
	readErr := g.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code == -1 {
				return code, fmt.Errorf("%s was terminated: %w", args[0], err)
			}
			return code, fmt.Errorf("%s exited with status %d: %w", args[0], code, err)
		}
		return -1, fmt.Errorf("%s failed: %w", args[0], err)
	}
	if readErr != nil {
		return 0, fmt.Errorf("failed to read output of %s: %w", args[0], readErr)
	}
	return 0, nil
}

// scanLines forwards non-empty lines with trailing whitespace removed.
// Lines longer than maxLineSize are cut and reading continues with the next line.
func (s *Streamer) scanLines(r io.Reader, stream event.Stream, onLine LineHandler, logger *slog.Logger) error {
	br := bufio.NewReaderSize(r, min(64*1024, s.maxLineSize))
	line := make([]byte, 0, min(4096, s.maxLineSize))
	truncated := false

	emit := func() {
		if truncated {
			logger.Warn("Output line truncated", "stream", stream, "limit", s.maxLineSize)
		}
		if text := strings.TrimRightFunc(string(line), unicode.IsSpace); text != "" {
			onLine(stream, text)
		}
		line = line[:0]
		truncated = false
	}

	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			if len(line) > 0 {
				emit()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			logger.Warn("Output stream read failed, discarding the rest", "stream", stream, "error", err)
			// Keep the pipe drained so the child never blocks on a full buffer.
			_, _ = io.Copy(io.Discard, r)
			return fmt.Errorf("%s: %w", stream, err)
		}

		room := s.maxLineSize - len(line)
		if len(chunk) > room {
			chunk = chunk[:room]
			truncated = true
		}
		line = append(line, chunk...)

		if !isPrefix {
			emit()
		}
	}
}
