package event

// Stream identifies which output pipe of the child process a line came from.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	switch s {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	default:
		return "unknown"
	}
}

// RunStarted is published once the command line has been built and the worker launched.
type RunStarted struct {
	baseRunEvent
	Args []string
}

func NewRunStarted(runID string, args []string) *RunStarted {
	return &RunStarted{
		baseRunEvent: baseRunEvent{runID: runID},
		Args:         args,
	}
}

func (e *RunStarted) EventName() string {
	return "RunStarted"
}

// OutputReceived carries one non-empty line read from the child process.
type OutputReceived struct {
	baseRunEvent
	Stream Stream
	Line   string
}

func NewOutputReceived(runID string, stream Stream, line string) *OutputReceived {
	return &OutputReceived{
		baseRunEvent: baseRunEvent{runID: runID},
		Stream:       stream,
		Line:         line,
	}
}

func (e *OutputReceived) EventName() string {
	return "OutputReceived"
}

// RunCompleted is published after both output streams are drained and the process has exited.
// It is published for every run, whatever the exit status.
type RunCompleted struct {
	baseRunEvent
	ExitCode    int    // -1 if the process never started
	Error       error  // nil on exit status 0
	PreviewPath string // expected location of the preview image
}

func NewRunCompleted(runID string, exitCode int, err error, previewPath string) *RunCompleted {
	return &RunCompleted{
		baseRunEvent: baseRunEvent{runID: runID},
		ExitCode:     exitCode,
		Error:        err,
		PreviewPath:  previewPath,
	}
}

func (e *RunCompleted) EventName() string {
	return "RunCompleted"
}

// Succeeded reports whether the tool exited cleanly.
func (e *RunCompleted) Succeeded() bool {
	return e.Error == nil && e.ExitCode == 0
}
