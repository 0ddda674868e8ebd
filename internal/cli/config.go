package cli

import (
	"fmt"
	"strings"

	"github.com/agentx-labs/dashlaunch/internal/config"
	"github.com/spf13/cobra"
)

var configProject bool

func init() {
	configSetCmd.Flags().BoolVar(&configProject, "project", false, "write to the project file instead of the user config")
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage settings",
	Long: `Read and write dashlaunch settings. Values resolve from the built-in
defaults, ~/.dashlaunch/config.yaml, the project's dashlaunch.yaml and
DASHLAUNCH_* environment variables, later sources winning.

Keys: ` + strings.Join(config.Keys(), ", "),
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		path := cfgFile
		if path == "" {
			path = config.FilePath()
		}
		if configProject {
			dir, err := workDir()
			if err != nil {
				return err
			}
			path = config.ProjectFilePath(dir)
		}

		if err := config.Set(path, key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, path)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a resolved configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !config.IsKey(args[0]) {
			return fmt.Errorf("unknown setting %q", args[0])
		}
		s, err := resolvedSettings(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s.Map()[args[0]])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every resolved configuration value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolvedSettings(cmd)
		if err != nil {
			return err
		}
		values := s.Map()
		for _, key := range config.Keys() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, values[key])
		}
		return nil
	},
}

func resolvedSettings(cmd *cobra.Command) (*config.Settings, error) {
	dir, err := workDir()
	if err != nil {
		return nil, err
	}
	return loadSettings(cmd, dir)
}
