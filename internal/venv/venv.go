package venv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/dashlaunch/internal/platform"
	"github.com/agentx-labs/dashlaunch/internal/runtime"
)

// ConfigFile is the marker file every venv-created environment carries.
const ConfigFile = "pyvenv.cfg"

// Errors returned by Activate.
var (
	ErrNotFound      = errors.New("virtual environment not found")
	ErrNoBinDir      = errors.New("virtual environment has no executable directory")
	ErrNoInterpreter = errors.New("virtual environment has no interpreter")
	ErrNotADirectory = errors.New("virtual environment path is not a directory")
)

// Env is a virtual environment rooted at Dir.
type Env struct {
	Dir string
}

// New returns the environment at dir, made absolute when possible so the
// paths handed to child processes do not depend on their working directory.
func New(dir string) *Env {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &Env{Dir: dir}
}

// Exists reports whether the environment directory is present. Creation is
// skipped for any existing directory, complete or not; a regular file at the
// path is an error.
func (e *Env) Exists() (bool, error) {
	info, err := os.Stat(e.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("checking %s: %w", e.Dir, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%s: %w", e.Dir, ErrNotADirectory)
	}
	return true, nil
}

// BinDir returns the directory holding the environment's executables.
func (e *Env) BinDir() string {
	return filepath.Join(e.Dir, platform.VenvBinDir())
}

// Executable returns the path of a console script or binary inside BinDir.
func (e *Env) Executable(name string) string {
	return filepath.Join(e.BinDir(), platform.Executable(name))
}

// Python returns the path of the environment's interpreter.
func (e *Env) Python() string {
	return e.Executable("python")
}

// ConfigPath returns the path of pyvenv.cfg.
func (e *Env) ConfigPath() string {
	return filepath.Join(e.Dir, ConfigFile)
}

// CreateCommand returns the command that materializes the environment
// using the host interpreter.
func (e *Env) CreateCommand(python string) runtime.Command {
	return runtime.Command{
		Path: python,
		Args: []string{"-m", "venv", e.Dir},
	}
}

// Activation is the result of activating an environment.
type Activation struct {
	Dir    string
	BinDir string
	Python string
	// Environ is the child process environment: VIRTUAL_ENV set, BinDir
	// first on PATH, PYTHONHOME removed.
	Environ []string
}

// Activate computes the activated environment from base, the way the
// activate scripts shipped in every venv do. It fails when the environment
// is missing its executable directory or interpreter.
func (e *Env) Activate(base []string) (*Activation, error) {
	exists, err := e.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", e.Dir, ErrNotFound)
	}

	binDir := e.BinDir()
	if info, err := os.Stat(binDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", binDir, ErrNoBinDir)
	}

	python := e.Python()
	if _, err := os.Stat(python); err != nil {
		return nil, fmt.Errorf("%s: %w", python, ErrNoInterpreter)
	}

	env := append([]string(nil), base...)
	env = runtime.UnsetEnv(env, "PYTHONHOME")
	env = runtime.SetEnv(env, "VIRTUAL_ENV", e.Dir)
	env = runtime.PrependPath(env, binDir)

	return &Activation{
		Dir:     e.Dir,
		BinDir:  binDir,
		Python:  python,
		Environ: env,
	}, nil
}
