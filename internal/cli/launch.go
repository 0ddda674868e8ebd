package cli

import (
	"os"

	"github.com/agentx-labs/dashlaunch/internal/config"
	"github.com/agentx-labs/dashlaunch/internal/launcher"
	"github.com/agentx-labs/dashlaunch/internal/platform"
	"github.com/agentx-labs/dashlaunch/internal/runtime"
	"github.com/spf13/cobra"
)

var (
	holdFlag        string
	checkLaunchFlag bool
	dryRun          bool
)

var launchCmd = &cobra.Command{
	Use:   "launch [-- runner-args...]",
	Short: "Set up the environment and launch the dashboard",
	Long: `Create the virtual environment if it is missing, activate it, install the
dependency manifest when present, and start the application runner.

Arguments after "--" are passed to the runner after runner_args. The runner's
exit code becomes dashlaunch's exit code; a failed setup step exits with 1.`,
	Args: cobra.ArbitraryArgs,
	RunE: runLaunch,
}

func init() {
	addLaunchFlags(launchCmd)
	rootCmd.AddCommand(launchCmd)
}

// addLaunchFlags registers the launch flags on cmd. The root command and
// "launch" share them.
func addLaunchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&holdFlag, "hold", "", "keep the terminal open after the runner exits: auto, always or never")
	cmd.Flags().BoolVar(&checkLaunchFlag, "check-launch", false, "treat a non-zero runner exit as a launch failure")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the steps without running them")
}

// flagOverrides returns the settings set explicitly on the command line.
func flagOverrides(cmd *cobra.Command) map[string]any {
	overrides := map[string]any{}
	if cmd.Flags().Changed("hold") {
		overrides[config.KeyHold] = holdFlag
	}
	if cmd.Flags().Changed("check-launch") {
		overrides[config.KeyCheckLaunch] = checkLaunchFlag
	}
	return overrides
}

func newLauncher(cmd *cobra.Command, s *config.Settings, dir string) *launcher.Launcher {
	l := launcher.New(s, dir, newExecutor(), newLogger(cmd))
	l.Stdin = cmd.InOrStdin()
	l.Stdout = cmd.OutOrStdout()
	l.Interactive = func() bool { return platform.IsTerminal(os.Stdin) }
	return l
}

func runLaunch(cmd *cobra.Command, args []string) error {
	dir, err := workDir()
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd, dir)
	if err != nil {
		return err
	}

	l := newLauncher(cmd, s, dir)
	l.ExtraArgs = args

	if dryRun {
		steps, err := l.Plan()
		if err != nil {
			return err
		}
		renderPlan(cmd.OutOrStdout(), dir, steps)
		return nil
	}

	code, err := l.Run(cmd.Context())
	if err != nil {
		if code.IsSuccess() {
			code = runtime.ExitFailure
		}
		return &ExitError{Code: code, Err: err}
	}
	exitCode = code
	return nil
}
