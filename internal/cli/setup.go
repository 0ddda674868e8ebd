package cli

import (
	"fmt"

	"github.com/agentx-labs/dashlaunch/internal/launcher"
	"github.com/spf13/cobra"
)

var setupDryRun bool

func init() {
	setupCmd.Flags().BoolVar(&setupDryRun, "dry-run", false, "print the steps without running them")
	rootCmd.AddCommand(setupCmd)
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create, activate and install the environment without launching",
	Long: `Run the setup steps of a launch: create the virtual environment if it is
missing, activate it, and install the dependency manifest when present.
The application runner is not started.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := workDir()
		if err != nil {
			return err
		}
		s, err := loadSettings(cmd, dir)
		if err != nil {
			return err
		}
		l := newLauncher(cmd, s, dir)

		if setupDryRun {
			steps, err := l.Plan()
			if err != nil {
				return err
			}
			var setup []launcher.PlannedStep
			for _, step := range steps {
				if step.Step != launcher.StepLaunch {
					setup = append(setup, step)
				}
			}
			renderPlan(cmd.OutOrStdout(), dir, setup)
			return nil
		}

		act, err := l.Setup(cmd.Context())
		if err != nil {
			return &ExitError{Code: launcher.ExitCodeFor(err), Err: err}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s environment ready at %s\n", SuccessStyle.Render("✓"), act.Dir)
		return nil
	},
}
