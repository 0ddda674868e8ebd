package cli

import (
	"errors"
	"fmt"

	"github.com/agentx-labs/dashlaunch/internal/config"
	"github.com/agentx-labs/dashlaunch/internal/doctor"
	"github.com/agentx-labs/dashlaunch/internal/runtime"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the dashboard project",
	Long: `Run diagnostic checks on the project directory without changing it:
host interpreter and version, virtual environment, runner, dependency
manifest, entry file and project settings. Exits with 1 when a check fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := workDir()
		if err != nil {
			return err
		}

		s, err := loadSettings(cmd, dir)
		if err != nil {
			// An invalid project file is itself a finding; fall back to
			// the defaults so the remaining checks still run.
			var invalid *config.InvalidFileError
			if !errors.As(err, &invalid) {
				return err
			}
			s = config.DefaultSettings()
		}

		report := doctor.Run(cmd.Context(), doctor.Options{
			Settings: s,
			WorkDir:  dir,
			Exec:     newExecutor(),
		})

		w := cmd.OutOrStdout()
		report.Print(w)
		fmt.Fprintln(w)
		summary := fmt.Sprintf("%d ok, %d missing, %d warning(s), %d failed",
			report.Count(doctor.StatusOK), report.Count(doctor.StatusMiss),
			report.Count(doctor.StatusWarn), report.Count(doctor.StatusFail))
		fmt.Fprintln(w, summaryStyle(report).Render(summary))

		// The report already explains the failure; exit without an error message.
		if report.Failed() {
			exitCode = runtime.ExitFailure
		}
		return nil
	},
}
