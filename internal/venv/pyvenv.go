package venv

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

// Config is the parsed content of pyvenv.cfg.
type Config struct {
	// Home is the directory of the interpreter the environment was created from.
	Home                      string
	Version                   string
	IncludeSystemSitePackages bool
	// Raw holds every key as written, lower-cased.
	Raw map[string]string
}

// ReadConfig parses the environment's pyvenv.cfg.
func (e *Env) ReadConfig() (*Config, error) {
	data, err := os.ReadFile(e.ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", e.ConfigPath(), err)
	}
	return ParseConfig(data)
}

// ParseConfig parses pyvenv.cfg content: "key = value" lines.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{Raw: make(map[string]string)}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		cfg.Raw[key] = value

		switch key {
		case "home":
			cfg.Home = value
		case "version", "version_info":
			// Python 3.11+ writes version_info; older releases write version.
			if cfg.Version == "" || key == "version_info" {
				cfg.Version = value
			}
		case "include-system-site-packages":
			cfg.IncludeSystemSitePackages = strings.EqualFold(value, "true")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning pyvenv.cfg: %w", err)
	}
	return cfg, nil
}
