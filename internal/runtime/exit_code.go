package runtime

import "strconv"

// ExitCode represents a process exit status code. The zero value means success.
type ExitCode int

// Well-known exit codes.
const (
	ExitSuccess ExitCode = 0
	ExitFailure ExitCode = 1
	// ExitInterrupted is reported when a child is stopped by an interrupt,
	// matching the 128+SIGINT convention used by POSIX shells.
	ExitInterrupted ExitCode = 130
)

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
