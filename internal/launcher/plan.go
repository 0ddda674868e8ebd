package launcher

import (
	"fmt"
	"os"

	"github.com/agentx-labs/dashlaunch/internal/config"
	"github.com/agentx-labs/dashlaunch/internal/manifest"
	"github.com/agentx-labs/dashlaunch/internal/runtime"
	"github.com/agentx-labs/dashlaunch/internal/venv"
)

// PlannedStep describes what Run would do for one step.
type PlannedStep struct {
	Step Step
	// Command is nil when the step runs no process or is skipped.
	Command *runtime.Command
	// Skip explains why the step would be skipped; empty means it runs.
	Skip string
	// Notes carry extra detail, e.g. the packages a manifest lists.
	Notes []string
}

// Plan computes the launch sequence without executing anything. Paths and
// the environment are derived the same way Run derives them; the runner is
// assumed to live in the environment when it cannot be resolved yet.
func (l *Launcher) Plan() ([]PlannedStep, error) {
	env := venv.New(l.path(l.Settings.VenvDir))
	steps := make([]PlannedStep, 0, 4)

	exists, err := env.Exists()
	if err != nil {
		return nil, err
	}
	create := PlannedStep{Step: StepCreate}
	if exists {
		create.Skip = "environment exists at " + env.Dir
	} else {
		cmd := env.CreateCommand(l.Settings.Python)
		cmd.Dir = l.WorkDir
		create.Command = &cmd
	}
	steps = append(steps, create)

	activated, err := env.Activate(l.environ())
	if err != nil {
		// Not created yet: describe the activation it will get.
		activated = &venv.Activation{
			Dir:     env.Dir,
			BinDir:  env.BinDir(),
			Python:  env.Python(),
			Environ: runtime.PrependPath(runtime.SetEnv(l.environ(), "VIRTUAL_ENV", env.Dir), env.BinDir()),
		}
	}
	steps = append(steps, PlannedStep{
		Step:  StepActivate,
		Notes: []string{"VIRTUAL_ENV=" + activated.Dir, "PATH starts with " + activated.BinDir},
	})

	install := PlannedStep{Step: StepInstall}
	requirements := l.path(l.Settings.Requirements)
	if _, err := os.Stat(requirements); err != nil {
		install.Skip = "no dependency manifest at " + requirements
	} else {
		extra, err := splitArgs(l.Settings.PipArgs, activated.Environ)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", config.KeyPipArgs, err)
		}
		install.Command = &runtime.Command{
			Path: activated.Python,
			Args: append([]string{"-m", "pip", "install", "-r", requirements}, extra...),
			Dir:  l.WorkDir,
		}
		if m, err := manifest.ParseFile(requirements); err == nil {
			install.Notes = m.Names()
		}
	}
	steps = append(steps, install)

	runnerArgs, err := splitArgs(l.Settings.RunnerArgs, activated.Environ)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", config.KeyRunnerArgs, err)
	}
	runner, err := runtime.LookPath(l.Settings.Runner, activated.Environ)
	if err != nil {
		runner = env.Executable(l.Settings.Runner)
	}
	args := append([]string{"run", l.path(l.Settings.Entry)}, runnerArgs...)
	launch := PlannedStep{
		Step:    StepLaunch,
		Command: &runtime.Command{Path: runner, Args: append(args, l.ExtraArgs...), Dir: l.WorkDir},
	}
	if l.Settings.EnvFile != "" {
		launch.Notes = append(launch.Notes, "environment file "+l.Settings.EnvFile)
	}
	steps = append(steps, launch)

	return steps, nil
}
