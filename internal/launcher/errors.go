package launcher

import (
	"errors"
	"fmt"

	"github.com/agentx-labs/dashlaunch/internal/runtime"
)

// Step identifies a stage of the launch sequence.
type Step int

const (
	StepCreate Step = iota + 1
	StepActivate
	StepInstall
	StepLaunch
)

// Sentinel errors, one per failure kind. Use errors.Is to classify a
// *StepError.
var (
	ErrCreate   = errors.New("environment creation failed")
	ErrActivate = errors.New("environment activation failed")
	ErrInstall  = errors.New("dependency installation failed")
	ErrLaunch   = errors.New("application launch failed")
)

// String returns a short verb phrase for the step.
func (s Step) String() string {
	switch s {
	case StepCreate:
		return "create environment"
	case StepActivate:
		return "activate environment"
	case StepInstall:
		return "install dependencies"
	case StepLaunch:
		return "launch application"
	default:
		return "unknown step"
	}
}

func (s Step) sentinel() error {
	switch s {
	case StepCreate:
		return ErrCreate
	case StepActivate:
		return ErrActivate
	case StepInstall:
		return ErrInstall
	case StepLaunch:
		return ErrLaunch
	default:
		return nil
	}
}

// StepError reports a failed step. Either ExitCode is non-zero (the child
// ran and failed) or Err is set (the step could not run at all).
type StepError struct {
	Step     Step
	ExitCode runtime.ExitCode
	Err      error
}

func (e *StepError) Error() string {
	sentinel := e.Step.sentinel()
	msg := e.Step.String()
	if sentinel != nil {
		msg = sentinel.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("%s: exited with code %d", msg, e.ExitCode)
}

// Unwrap exposes both the step sentinel and the underlying cause.
func (e *StepError) Unwrap() []error {
	var errs []error
	if s := e.Step.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ExitCodeFor maps an error from the launch sequence to the process exit
// code. Setup failures and anything else unexpected yield 1.
func ExitCodeFor(err error) runtime.ExitCode {
	if err == nil {
		return runtime.ExitSuccess
	}
	var stepErr *StepError
	if errors.As(err, &stepErr) && stepErr.Step == StepLaunch && stepErr.ExitCode != 0 {
		return stepErr.ExitCode
	}
	return runtime.ExitFailure
}
