package config

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/Masterminds/semver/v3"
	"github.com/agentx-labs/dashlaunch/internal/platform"
)

// HoldMode controls whether the terminal is held open after the runner exits.
type HoldMode string

const (
	// HoldAuto holds only when stdin is an interactive terminal.
	HoldAuto   HoldMode = "auto"
	HoldAlways HoldMode = "always"
	HoldNever  HoldMode = "never"
)

// Setting keys as they appear in config files and after the env prefix.
const (
	KeyVenvDir       = "venv_dir"
	KeyPython        = "python"
	KeyPythonVersion = "python_version"
	KeyRequirements  = "requirements"
	KeyPipArgs       = "pip_args"
	KeyEntry         = "entry"
	KeyRunner        = "runner"
	KeyRunnerArgs    = "runner_args"
	KeyEnvFile       = "env_file"
	KeyHold          = "hold"
	KeyCheckLaunch   = "check_launch"
)

// Settings is the resolved launcher configuration.
type Settings struct {
	VenvDir       string   `mapstructure:"venv_dir"`
	Python        string   `mapstructure:"python"`
	PythonVersion string   `mapstructure:"python_version"`
	Requirements  string   `mapstructure:"requirements"`
	PipArgs       string   `mapstructure:"pip_args"`
	Entry         string   `mapstructure:"entry"`
	Runner        string   `mapstructure:"runner"`
	RunnerArgs    string   `mapstructure:"runner_args"`
	EnvFile       string   `mapstructure:"env_file"`
	Hold          HoldMode `mapstructure:"hold"`
	// CheckLaunch reports a non-zero runner exit as a launch failure.
	CheckLaunch bool `mapstructure:"check_launch"`
}

// Defaults returns the built-in value of every setting.
func Defaults() map[string]any {
	return map[string]any{
		KeyVenvDir:       ".venv",
		KeyPython:        platform.DefaultPython(),
		KeyPythonVersion: "",
		KeyRequirements:  "requirements.txt",
		KeyPipArgs:       "",
		KeyEntry:         "dashboard.py",
		KeyRunner:        "streamlit",
		KeyRunnerArgs:    "",
		KeyEnvFile:       "",
		KeyHold:          string(HoldAuto),
		KeyCheckLaunch:   false,
	}
}

// DefaultSettings returns Settings populated from Defaults.
func DefaultSettings() *Settings {
	return &Settings{
		VenvDir:      ".venv",
		Python:       platform.DefaultPython(),
		Requirements: "requirements.txt",
		Entry:        "dashboard.py",
		Runner:       "streamlit",
		Hold:         HoldAuto,
	}
}

// Keys returns every known setting key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(Defaults()))
	for k := range Defaults() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKey reports whether key is a known setting.
func IsKey(key string) bool {
	_, ok := Defaults()[key]
	return ok
}

// Validate checks invariants that the schema cannot express.
func (s *Settings) Validate() error {
	required := []struct {
		key, value string
	}{
		{KeyVenvDir, s.VenvDir},
		{KeyPython, s.Python},
		{KeyRequirements, s.Requirements},
		{KeyEntry, s.Entry},
		{KeyRunner, s.Runner},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("setting %q must not be empty", r.key)
		}
	}

	if err := s.Hold.Validate(); err != nil {
		return err
	}

	if s.PythonVersion != "" {
		if _, err := semver.NewConstraint(s.PythonVersion); err != nil {
			return fmt.Errorf("setting %q: invalid version constraint %q: %w", KeyPythonVersion, s.PythonVersion, err)
		}
	}
	return nil
}

// Validate checks that m is one of the known hold modes.
func (m HoldMode) Validate() error {
	switch m {
	case HoldAuto, HoldAlways, HoldNever:
		return nil
	default:
		return fmt.Errorf("invalid hold mode %q: expected %q, %q or %q", string(m), HoldAuto, HoldAlways, HoldNever)
	}
}

// Map returns every setting rendered as a string, keyed by setting name.
func (s *Settings) Map() map[string]string {
	return map[string]string{
		KeyVenvDir:       s.VenvDir,
		KeyPython:        s.Python,
		KeyPythonVersion: s.PythonVersion,
		KeyRequirements:  s.Requirements,
		KeyPipArgs:       s.PipArgs,
		KeyEntry:         s.Entry,
		KeyRunner:        s.Runner,
		KeyRunnerArgs:    s.RunnerArgs,
		KeyEnvFile:       s.EnvFile,
		KeyHold:          string(s.Hold),
		KeyCheckLaunch:   strconv.FormatBool(s.CheckLaunch),
	}
}

// coerce converts a string from the command line into the type stored for key.
func coerce(key, value string) (any, error) {
	switch key {
	case KeyCheckLaunch:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("setting %q expects true or false, got %q", key, value)
		}
		return b, nil
	case KeyHold:
		if err := HoldMode(value).Validate(); err != nil {
			return nil, err
		}
		return value, nil
	case KeyPythonVersion:
		if value != "" {
			if _, err := semver.NewConstraint(value); err != nil {
				return nil, fmt.Errorf("setting %q: invalid version constraint %q: %w", key, value, err)
			}
		}
		return value, nil
	default:
		return value, nil
	}
}
