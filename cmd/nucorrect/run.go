package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"nucorrect-go/core/command"
	"nucorrect-go/core/event"
	"nucorrect-go/domain/job"
	"nucorrect-go/infrastructure/config"
	"nucorrect-go/infrastructure/preview"
	"nucorrect-go/infrastructure/process"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the correction without opening a window",
		Long: `Runs the correction tool once, printing its stdout as is and its stderr in red.
The exit status is the tool's.`,
		Example: "  nucorrect run -i subject.mnc\n  nucorrect run -i subject.mnc -o /tmp/subject_nuc.mnc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return runHeadless(cfg, output, cmd.OutOrStdout(), cmd.ErrOrStderr(), nil)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <proc-dir>/<stage-dir>/<input name>)")

	return cmd
}

// runHeadless executes one correction and streams its output to stdout and stderr.
// It returns an *exitCodeError when the tool does not exit cleanly.
func runHeadless(cfg *config.Config, output string, stdout, stderr io.Writer, runner process.Runner) error {
	svc, err := startServices(cfg, stderr, runner)
	if err != nil {
		return err
	}
	defer svc.close()

	input := cfg.DefaultInput
	if output == "" {
		output = job.DefaultOutput(cfg.OutputDir(), input)
	}

	s := newProgress(stderr)

	completed := make(chan *event.RunCompleted, 4)
	subID := svc.eventBus.Subscribe(func(e event.Event) {
		switch evt := e.(type) {
		case *event.OutputReceived:
			s.pause(func() {
				if evt.Stream == event.Stderr {
					errorColor.Fprintln(stderr, evt.Line)
				} else {
					fmt.Fprintln(stdout, evt.Line)
				}
			})
		case *event.RunCompleted:
			s.stop()
			completed <- evt
		}
	})
	defer svc.eventBus.Unsubscribe(subID)

	j := svc.coordinator.BuildJob(input, output)
	statusColor.Fprintf(stderr, "command: %s\n", svc.coordinator.CommandLine(j))

	s.start()
	if err := svc.coordinator.Dispatch(command.NewRunCorrection(input, output)); err != nil {
		s.stop()
		return err
	}

	runID := svc.coordinator.CurrentRunID()
	svc.logger.Debug("Waiting for run", "run_id", runID)

	result := <-completed
	for result.RunID() != runID {
		result = <-completed
	}
	if !result.Succeeded() {
		errorColor.Fprintf(stderr, "%s failed: %v\n", cfg.Tool, result.Error)
		if result.ExitCode > 0 {
			return &exitCodeError{code: result.ExitCode}
		}
		return &exitCodeError{code: 1}
	}

	successColor.Fprintln(stderr, ">>>>Done>>>> Done")
	if preview.Exists(result.PreviewPath) {
		statusColor.Fprintf(stderr, "correction field: %s\n", result.PreviewPath)
	} else {
		svc.logger.Warn("Preview not available", "path", result.PreviewPath)
	}
	return nil
}

// progress wraps a terminal spinner. It is inert when stderr is not a terminal file.
type progress struct {
	s *spinner.Spinner
}

func newProgress(w io.Writer) *progress {
	f, ok := w.(*os.File)
	if !ok {
		return &progress{}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(f))
	s.Suffix = " Running correction..."
	return &progress{s: s}
}

func (p *progress) start() {
	if p.s != nil {
		p.s.Start()
	}
}

func (p *progress) stop() {
	if p.s != nil {
		p.s.Stop()
	}
}

// pause hides the spinner while print writes a line.
func (p *progress) pause(print func()) {
	if p.s == nil {
		print()
		return
	}
	p.s.Stop()
	print()
	p.s.Restart()
}
