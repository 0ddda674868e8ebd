package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/agentx-labs/dashlaunch/internal/platform"
)

// interruptGrace is how long a child gets to exit after an interrupt before
// it is killed.
const interruptGrace = 5 * time.Second

// ProcessExecutor runs commands as child processes.
type ProcessExecutor struct {
	// Stdin, Stdout and Stderr can be set for testing; they default to the
	// process's own standard streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts cmd and waits for it. When ctx is cancelled the child receives
// an interrupt (a kill on Windows) and the returned error wraps ctx.Err().
func (p *ProcessExecutor) Run(ctx context.Context, cmd Command) (*Output, error) {
	if cmd.Path == "" {
		return nil, fmt.Errorf("empty command")
	}

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.WaitDelay = interruptGrace
	if !platform.IsWindows() {
		c.Cancel = func() error {
			return c.Process.Signal(os.Interrupt)
		}
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	if cmd.Capture {
		c.Stdout = &stdoutBuf
		c.Stderr = &stderrBuf
	} else {
		c.Stdin = p.stdin()
		c.Stdout = p.stdout()
		c.Stderr = p.stderr()
	}

	err := c.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		output.ExitCode = ExitInterrupted
		return output, fmt.Errorf("running %s: %w", cmd.Path, ctxErr)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = ExitCode(exitErr.ExitCode())
			return output, nil
		}
		return output, fmt.Errorf("running %s: %w", cmd.Path, err)
	}

	output.ExitCode = ExitSuccess
	return output, nil
}

func (p *ProcessExecutor) stdin() io.Reader {
	if p.Stdin == nil {
		return os.Stdin
	}
	return p.Stdin
}

func (p *ProcessExecutor) stdout() io.Writer {
	if p.Stdout == nil {
		return os.Stdout
	}
	return p.Stdout
}

func (p *ProcessExecutor) stderr() io.Writer {
	if p.Stderr == nil {
		return os.Stderr
	}
	return p.Stderr
}

// LookPath resolves name against the PATH entries of env rather than the
// current process environment, so an activated environment's bin directory
// is honoured without mutating os.Environ.
func LookPath(name string, env []string) (string, error) {
	if path, ok := LookupEnv(env, "PATH"); ok {
		for _, dir := range splitPathList(path) {
			if dir == "" {
				continue
			}
			candidate := joinExecutable(dir, name)
			if isExecutable(candidate) {
				return candidate, nil
			}
		}
		return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
	}
	return exec.LookPath(name)
}
