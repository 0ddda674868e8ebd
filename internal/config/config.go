package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/dashlaunch/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Dir returns the path to the user config directory (~/.dashlaunch/).
// DASHLAUNCH_HOME overrides the location.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the user config file (~/.dashlaunch/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// ProjectFilePath returns the project file path inside workDir.
func ProjectFilePath(workDir string) string {
	return filepath.Join(workDir, branding.ProjectFile())
}

// EnsureDir creates the user config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// WorkDir is the project directory; its project file is merged.
	WorkDir string
	// UserFile overrides the user config path. Empty means FilePath().
	UserFile string
	// Overrides take precedence over every other source, e.g. flag values.
	Overrides map[string]any
}

// Load resolves settings from defaults, the user config, the project file,
// the environment, and opts.Overrides, in that order of precedence.
func Load(opts LoadOptions) (*Settings, error) {
	v := viper.New()
	v.SetConfigType(fileType)
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	userFile := opts.UserFile
	if userFile == "" {
		userFile = FilePath()
	}
	if err := mergeFile(v, userFile, opts.UserFile != ""); err != nil {
		return nil, fmt.Errorf("reading user config: %w", err)
	}

	projectFile := ProjectFilePath(opts.WorkDir)
	if _, err := os.Stat(projectFile); err == nil {
		result, err := ValidateFile(projectFile)
		if err != nil {
			return nil, fmt.Errorf("validating %s: %w", projectFile, err)
		}
		if !result.Valid {
			return nil, &InvalidFileError{Path: projectFile, Issues: result.Issues}
		}
		if err := mergeFile(v, projectFile, true); err != nil {
			return nil, fmt.Errorf("reading project file: %w", err)
		}
	}

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// mergeFile merges a YAML file into v. A missing file is ignored unless
// required is set.
func mergeFile(v *viper.Viper, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Set writes a key-value pair to the YAML settings file at path, creating
// the file and its directory if needed.
func Set(path, key, value string) error {
	if !IsKey(key) {
		return fmt.Errorf("unknown setting %q", key)
	}
	typed, err := coerce(key, value)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigType(fileType)
	if err := mergeFile(v, path, false); err != nil {
		return err
	}
	v.Set(key, typed)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// InvalidFileError reports schema violations in a settings file.
type InvalidFileError struct {
	Path   string
	Issues []ValidationIssue
}

func (e *InvalidFileError) Error() string {
	msg := fmt.Sprintf("%s has %d validation issue(s)", e.Path, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Path != "" {
			msg += fmt.Sprintf("\n  - %s: %s", issue.Path, issue.Message)
		} else {
			msg += "\n  - " + issue.Message
		}
	}
	return msg
}
