package platform

import (
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
)

// IsWindows reports whether the binary is running on Windows.
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

// VenvBinDir returns the name of the directory inside a virtual environment
// that holds its interpreter and console scripts.
func VenvBinDir() string {
	if IsWindows() {
		return "Scripts"
	}
	return "bin"
}

// Executable returns name with the platform executable suffix appended.
// Names that already carry the suffix are returned unchanged.
func Executable(name string) string {
	if !IsWindows() || strings.HasSuffix(strings.ToLower(name), ".exe") {
		return name
	}
	return name + ".exe"
}

// DefaultPython returns the interpreter command used to create environments
// when none is configured. The Windows installer puts "python" on PATH;
// most Unix distributions only ship "python3".
func DefaultPython() string {
	if IsWindows() {
		return "python"
	}
	return "python3"
}

// IsTerminal reports whether f is attached to an interactive terminal,
// including Cygwin/MSYS pseudo terminals on Windows.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
