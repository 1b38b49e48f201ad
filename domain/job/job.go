// Package job defines the correction job: one input image, one output image.
package job

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultTool is the external non-uniformity correction executable.
const DefaultTool = "nu_correct"

// ClobberFlag tells the tool to overwrite an existing output file.
const ClobberFlag = "-clobber"

// Job is a single correction request.
// Paths are user supplied and are not validated; the tool reports its own errors.
type Job struct {
	Input  string
	Output string
}

// New creates a job for the given input and output paths.
func New(input, output string) *Job {
	return &Job{Input: input, Output: output}
}

// DefaultOutput returns the output path proposed for input: outDir joined with the input's base name.
// An empty outDir yields the bare base name. An input with no file name (empty, or ending in a
// separator) yields outDir with a trailing separator, leaving the name for the user to fill in.
func DefaultOutput(outDir, input string) string {
	if input == "" || os.IsPathSeparator(input[len(input)-1]) {
		if outDir == "" {
			return ""
		}
		return filepath.Clean(outDir) + string(filepath.Separator)
	}
	return filepath.Join(outDir, filepath.Base(input))
}

// Args returns the argv used to run tool on the job.
// An empty tool means DefaultTool.
func (j *Job) Args(tool string) []string {
	if tool == "" {
		tool = DefaultTool
	}
	return []string{tool, ClobberFlag, j.Input, j.Output}
}

// CommandLine returns Args joined by single spaces, for display only.
func (j *Job) CommandLine(tool string) string {
	return strings.Join(j.Args(tool), " ")
}
