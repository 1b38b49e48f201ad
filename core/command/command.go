// Package command defines the commands the presentation layer sends to the application.
// Commands represent user intentions and are processed by the Coordinator.
package command

// Command is the base interface for all commands.
type Command interface {
	// CommandName returns the name of the command for logging/debugging
	CommandName() string
}

// RunCorrection asks for one run of the correction tool on Input, writing Output.
// Paths are passed to the tool verbatim.
type RunCorrection struct {
	Input  string
	Output string
}

// NewRunCorrection creates a RunCorrection command.
func NewRunCorrection(input, output string) *RunCorrection {
	return &RunCorrection{Input: input, Output: output}
}

func (c *RunCorrection) CommandName() string {
	return "RunCorrection"
}
