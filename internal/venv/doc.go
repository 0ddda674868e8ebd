// Package venv models a Python virtual environment on disk: where it keeps
// its interpreter, how to create it, and what "activating" it means for the
// environment of child processes. Activation never touches the launcher's
// own process environment; it yields an environment slice for children.
package venv
