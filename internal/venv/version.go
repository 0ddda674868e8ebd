package venv

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/agentx-labs/dashlaunch/internal/runtime"
)

var versionPattern = regexp.MustCompile(`(\d+)(\.\d+)?(\.\d+)?`)

// ParseVersion extracts the release number from interpreter output such as
// "Python 3.12.1" or a pyvenv.cfg value like "3.13.0rc2". Pre-release
// suffixes are dropped.
func ParseVersion(s string) (*semver.Version, error) {
	match := versionPattern.FindString(s)
	if match == "" {
		return nil, fmt.Errorf("no version number in %q", strings.TrimSpace(s))
	}
	v, err := semver.NewVersion(match)
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", match, err)
	}
	return v, nil
}

// CheckVersion reports whether v satisfies constraint. An empty constraint
// accepts any version.
func CheckVersion(v *semver.Version, constraint string) (bool, error) {
	if constraint == "" {
		return true, nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("parsing version constraint %q: %w", constraint, err)
	}
	return c.Check(v), nil
}

// InterpreterVersion runs "<python> --version" and parses the result.
// Interpreters before 3.4 print the version on stderr, so both streams are read.
func InterpreterVersion(ctx context.Context, exec runtime.Executor, python string, env []string) (*semver.Version, error) {
	out, err := exec.Run(ctx, runtime.Command{
		Path:    python,
		Args:    []string{"--version"},
		Env:     env,
		Capture: true,
	})
	if err != nil {
		return nil, fmt.Errorf("querying %s version: %w", python, err)
	}
	if !out.ExitCode.IsSuccess() {
		return nil, fmt.Errorf("%s --version exited with code %d", python, out.ExitCode)
	}
	return ParseVersion(out.Stdout + " " + out.Stderr)
}
