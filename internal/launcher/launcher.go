package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agentx-labs/dashlaunch/internal/config"
	"github.com/agentx-labs/dashlaunch/internal/manifest"
	"github.com/agentx-labs/dashlaunch/internal/runtime"
	"github.com/agentx-labs/dashlaunch/internal/venv"
	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/shell"
)

// Launcher runs the launch sequence for one project directory.
type Launcher struct {
	Settings *config.Settings
	// WorkDir is the project directory; relative settings resolve against it.
	WorkDir string
	Exec    runtime.Executor
	Logger  *log.Logger

	// Environ is the base environment for child processes. Nil means os.Environ().
	Environ []string
	// ExtraArgs are appended to the runner command line after RunnerArgs.
	ExtraArgs []string

	// Stdin and Stdout are used by Hold; they default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	// Interactive reports whether stdin is a terminal, for HoldAuto.
	Interactive func() bool
}

// New returns a Launcher with the given collaborators. A nil logger
// discards log output.
func New(settings *config.Settings, workDir string, exec runtime.Executor, logger *log.Logger) *Launcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Launcher{
		Settings: settings,
		WorkDir:  workDir,
		Exec:     exec,
		Logger:   logger,
	}
}

// Run executes Setup, Launch and Hold in order. A setup failure returns
// immediately with exit code 1 and skips every later step, Hold included.
func (l *Launcher) Run(ctx context.Context) (runtime.ExitCode, error) {
	act, err := l.Setup(ctx)
	if err != nil {
		return ExitCodeFor(err), err
	}

	code, err := l.Launch(ctx, act)
	if ctx.Err() == nil {
		l.Hold()
	}
	return code, err
}

// Setup ensures the environment exists, activates it, and installs the
// dependency manifest when present.
func (l *Launcher) Setup(ctx context.Context) (*venv.Activation, error) {
	env := venv.New(l.path(l.Settings.VenvDir))

	if err := l.ensureEnv(ctx, env); err != nil {
		return nil, err
	}

	act, err := l.activate(ctx, env)
	if err != nil {
		return nil, err
	}

	if err := l.install(ctx, act); err != nil {
		return nil, err
	}
	return act, nil
}

func (l *Launcher) ensureEnv(ctx context.Context, env *venv.Env) error {
	exists, err := env.Exists()
	if err != nil {
		return &StepError{Step: StepCreate, Err: err}
	}
	if exists {
		l.Logger.Debug("environment present, skipping creation", "venv", env.Dir)
		return nil
	}

	cmd := env.CreateCommand(l.Settings.Python)
	cmd.Dir = l.WorkDir
	cmd.Env = l.environ()

	l.Logger.Info("creating virtual environment", "venv", env.Dir, "python", l.Settings.Python)
	l.Logger.Debug("exec", "cmd", cmd.String())
	out, err := l.Exec.Run(ctx, cmd)
	if err != nil {
		return &StepError{Step: StepCreate, Err: err}
	}
	if !out.ExitCode.IsSuccess() {
		return &StepError{Step: StepCreate, ExitCode: out.ExitCode}
	}
	return nil
}

func (l *Launcher) activate(ctx context.Context, env *venv.Env) (*venv.Activation, error) {
	act, err := env.Activate(l.environ())
	if err != nil {
		return nil, &StepError{Step: StepActivate, Err: err}
	}
	l.Logger.Info("environment activated", "venv", act.Dir)

	if l.Settings.PythonVersion != "" {
		v, err := venv.InterpreterVersion(ctx, l.Exec, act.Python, act.Environ)
		if err != nil {
			return nil, &StepError{Step: StepActivate, Err: err}
		}
		ok, err := venv.CheckVersion(v, l.Settings.PythonVersion)
		if err != nil {
			return nil, &StepError{Step: StepActivate, Err: err}
		}
		if !ok {
			return nil, &StepError{
				Step: StepActivate,
				Err:  fmt.Errorf("interpreter %s does not satisfy %q", v, l.Settings.PythonVersion),
			}
		}
		l.Logger.Debug("interpreter version accepted", "version", v.String(), "constraint", l.Settings.PythonVersion)
	}
	return act, nil
}

func (l *Launcher) install(ctx context.Context, act *venv.Activation) error {
	requirements := l.path(l.Settings.Requirements)
	if _, err := os.Stat(requirements); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.Logger.Info("no dependency manifest, skipping install", "path", requirements)
			return nil
		}
		return &StepError{Step: StepInstall, Err: err}
	}

	if m, err := manifest.ParseFile(requirements); err != nil {
		l.Logger.Warn("could not read dependency manifest", "err", err)
	} else {
		l.Logger.Debug("dependency manifest", "packages", len(m.Requirements), "issues", len(m.Issues))
		for _, issue := range m.Issues {
			l.Logger.Warn("suspicious manifest line", "line", issue.Line, "text", issue.Text, "reason", issue.Message)
		}
	}

	extra, err := splitArgs(l.Settings.PipArgs, act.Environ)
	if err != nil {
		return &StepError{Step: StepInstall, Err: fmt.Errorf("parsing %s: %w", config.KeyPipArgs, err)}
	}

	cmd := runtime.Command{
		Path: act.Python,
		Args: append([]string{"-m", "pip", "install", "-r", requirements}, extra...),
		Dir:  l.WorkDir,
		Env:  act.Environ,
	}

	l.Logger.Info("installing dependencies", "manifest", requirements)
	l.Logger.Debug("exec", "cmd", cmd.String())
	out, err := l.Exec.Run(ctx, cmd)
	if err != nil {
		return &StepError{Step: StepInstall, Err: err}
	}
	if !out.ExitCode.IsSuccess() {
		return &StepError{Step: StepInstall, ExitCode: out.ExitCode}
	}
	return nil
}

// Launch starts the application runner inside the activated environment and
// waits for it. The runner's exit code is returned; a non-zero code is an
// error only when Settings.CheckLaunch is set. An interrupt ends the runner
// and yields runtime.ExitInterrupted.
func (l *Launcher) Launch(ctx context.Context, act *venv.Activation) (runtime.ExitCode, error) {
	env := append([]string(nil), act.Environ...)
	if l.Settings.EnvFile != "" {
		extra, err := runtime.LoadEnvFile(l.Settings.EnvFile, l.WorkDir)
		if err != nil {
			return runtime.ExitFailure, &StepError{Step: StepLaunch, Err: err}
		}
		env = runtime.MergeEnv(env, extra)
	}

	runnerArgs, err := splitArgs(l.Settings.RunnerArgs, env)
	if err != nil {
		return runtime.ExitFailure, &StepError{Step: StepLaunch, Err: fmt.Errorf("parsing %s: %w", config.KeyRunnerArgs, err)}
	}

	entry := l.path(l.Settings.Entry)
	if _, err := os.Stat(entry); err != nil {
		l.Logger.Warn("application entry file not found", "entry", entry)
	}

	runner, err := runtime.LookPath(l.Settings.Runner, env)
	if err != nil {
		l.Logger.Error("application runner not found", "runner", l.Settings.Runner, "err", err)
		if l.Settings.CheckLaunch {
			return runtime.ExitFailure, &StepError{Step: StepLaunch, Err: err}
		}
		return runtime.ExitFailure, nil
	}

	args := append([]string{"run", entry}, runnerArgs...)
	args = append(args, l.ExtraArgs...)
	cmd := runtime.Command{
		Path: runner,
		Args: args,
		Dir:  l.WorkDir,
		Env:  env,
	}

	l.Logger.Info("launching application", "runner", runner, "entry", entry)
	l.Logger.Debug("exec", "cmd", cmd.String())
	out, err := l.Exec.Run(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			l.Logger.Info("application runner interrupted")
			return runtime.ExitInterrupted, nil
		}
		l.Logger.Error("application runner could not be started", "err", err)
		if l.Settings.CheckLaunch {
			return runtime.ExitFailure, &StepError{Step: StepLaunch, Err: err}
		}
		return runtime.ExitFailure, nil
	}

	if !out.ExitCode.IsSuccess() {
		if l.Settings.CheckLaunch {
			return out.ExitCode, &StepError{Step: StepLaunch, ExitCode: out.ExitCode}
		}
		l.Logger.Warn("application runner exited with non-zero status", "code", out.ExitCode.String())
	}
	return out.ExitCode, nil
}

// path resolves p against WorkDir unless it is absolute.
func (l *Launcher) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.WorkDir, p)
}

func (l *Launcher) environ() []string {
	if l.Environ != nil {
		return append([]string(nil), l.Environ...)
	}
	return os.Environ()
}

// splitArgs splits a shell-quoted argument string, expanding $VAR
// references against env.
func splitArgs(s string, env []string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	return shell.Fields(s, func(name string) string {
		v, _ := runtime.LookupEnv(env, name)
		return v
	})
}
