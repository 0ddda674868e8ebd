package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/dashlaunch/internal/branding"
	"github.com/agentx-labs/dashlaunch/internal/config"
	"github.com/agentx-labs/dashlaunch/internal/runtime"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	// workDirFlag is the project directory (--dir/-C).
	workDirFlag string
	verbose     bool
	// cfgFile overrides the user config path (--config).
	cfgFile string

	// exitCode is the status inherited from the runner. RunE handlers set it
	// instead of returning an error so the runner's exit does not print as one.
	exitCode runtime.ExitCode

	// newExecutor builds the process executor; tests replace it.
	newExecutor = func() runtime.Executor { return &runtime.ProcessExecutor{} }
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: TitleStyle.Render(branding.DisplayName()) + SubtitleStyle.Render(" - "+branding.Description()) + `

Run without a subcommand to launch the dashboard in the project directory:
the virtual environment is created if missing, activated, dependencies from
the manifest are installed, and the application runner is started.

` + SubtitleStyle.Render("Examples:") + `
  dashlaunch                      Set up and launch ./dashboard.py
  dashlaunch -C ~/attendance      Launch the project in another directory
  dashlaunch launch -- --server.port 8502
  dashlaunch doctor               Check the project without changing it
  dashlaunch init                 Write dashlaunch.yaml and requirements.txt`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLaunch,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workDirFlag, "dir", "C", ".", "project directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "user config file (default is ~/"+branding.HomeDir()+"/config.yaml)")
	addLaunchFlags(rootCmd)
}

// versionString returns a formatted version string for display.
func versionString() string {
	if buildVersion == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", buildVersion, buildCommit, buildDate)
}

// Execute runs the root command with build info injected via ldflags and
// returns the process exit code.
func Execute(version, commit, date string) int {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	exitCode = runtime.ExitSuccess

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return int(exitErr.Code)
		}
		return int(runtime.ExitFailure)
	}
	return int(exitCode)
}

// workDir returns the absolute project directory.
func workDir() (string, error) {
	dir, err := filepath.Abs(workDirFlag)
	if err != nil {
		return "", fmt.Errorf("resolving project directory: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("project directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project directory %s is not a directory", dir)
	}
	return dir, nil
}

// loadSettings resolves settings for the project directory, applying the
// flag overrides of cmd.
func loadSettings(cmd *cobra.Command, dir string) (*config.Settings, error) {
	s, err := config.Load(config.LoadOptions{
		WorkDir:   dir,
		UserFile:  cfgFile,
		Overrides: flagOverrides(cmd),
	})
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	return s, nil
}

// newLogger returns the logger for step progress, written to the command's
// stderr.
func newLogger(cmd *cobra.Command) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: branding.CLIName(),
		Level:  level,
	})
}
