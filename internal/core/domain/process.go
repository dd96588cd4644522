package domain

import (
	"strings"
	"time"
)

// Command describes one external process invocation.
type Command struct {
	Name  string
	Args  []string
	Stdin string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env overrides entries of the inherited environment.
	Env map[string]string
	// Timeout bounds the run; zero means no bound beyond the context.
	Timeout time.Duration
	// Stream forwards output lines to the logger while the process runs.
	Stream bool
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// ProcessResult is the captured outcome of a finished process.
type ProcessResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Succeeded reports whether the process exited with status zero.
func (r ProcessResult) Succeeded() bool {
	return r.ExitCode == 0
}

// Combined returns stderr followed by stdout.
func (r ProcessResult) Combined() string {
	return r.Stderr + r.Stdout
}
