package runtime

import (
	"context"
	"strings"
)

// Executor runs a single external command to completion.
type Executor interface {
	// Run executes cmd. A non-zero exit status is reported through
	// Output.ExitCode, not as an error; errors are reserved for commands
	// that could not be started or were interrupted.
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// Command describes one process invocation.
type Command struct {
	Path string
	Args []string
	// Dir is the working directory; empty means the caller's.
	Dir string
	// Env is the complete child environment; nil inherits the caller's.
	Env []string
	// Capture buffers stdout and stderr into Output instead of streaming
	// them to the executor's writers.
	Capture bool
}

// String renders the command line for logs.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quoteArg(c.Path))
	for _, a := range c.Args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

// Output captures the result of a command execution.
type Output struct {
	ExitCode ExitCode
	Stdout   string
	Stderr   string
}

func quoteArg(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\"'") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}
