// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed, so a rename only touches that file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	ProjectFile string `yaml:"project_file"`
	GoModule    string `yaml:"go_module"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:     "dashlaunch",
			DisplayName: "Dashlaunch",
			Description: "Bootstrap a Python environment and launch a Streamlit dashboard",
			HomeDir:     ".dashlaunch",
			EnvPrefix:   "DASHLAUNCH",
			ProjectFile: "dashlaunch.yaml",
			GoModule:    "github.com/agentx-labs/dashlaunch",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "dashlaunch").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".dashlaunch").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "DASHLAUNCH").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ProjectFile returns the per-project settings file name (e.g., "dashlaunch.yaml").
func ProjectFile() string { load(); return defaults.ProjectFile }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("venv_dir") → "DASHLAUNCH_VENV_DIR".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
