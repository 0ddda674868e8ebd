// Package platform isolates the operating-system differences a virtual
// environment launcher has to care about: where a venv keeps its executables,
// which interpreter name to try by default, and whether a stream is attached
// to an interactive terminal.
package platform
