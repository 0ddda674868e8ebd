package cli

import (
	"fmt"
	"path/filepath"

	"github.com/agentx-labs/dashlaunch/internal/branding"
	"github.com/agentx-labs/dashlaunch/internal/scaffold"
	"github.com/spf13/cobra"
)

var initName string

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "project name (default is the directory name)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create project settings and a dependency manifest",
	Long: `Write ` + branding.ProjectFile() + ` and requirements.txt into the project
directory and add the environment directory to .gitignore. Existing files are
never overwritten.`,
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

		name := initName
		if name == "" {
			name = filepath.Base(dir)
		}

		result, err := scaffold.Generate(dir, scaffold.NewData(name, s))
		if err != nil {
			return fmt.Errorf("initializing project: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Initializing %s in %s\n", name, dir)
		for _, f := range result.Files {
			fmt.Fprintf(w, "  [ OK ] wrote %s\n", f)
		}
		for _, f := range result.Skipped {
			fmt.Fprintf(w, "  [SKIP] %s already exists\n", f)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warning)
		}
		fmt.Fprintf(w, "\nRun '%s' to set up the environment and launch %s.\n", branding.CLIName(), s.Entry)
		return nil
	},
}
