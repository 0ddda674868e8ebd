// Package runtime executes external programs on behalf of the launcher. The
// Executor interface decouples the launch sequence from os/exec so tests can
// substitute a recording fake, and ProcessExecutor is the real implementation
// that streams child output to the terminal.
package runtime
