// Package config resolves launcher settings. Values are layered, lowest
// precedence first: built-in defaults, the user config at
// ~/.dashlaunch/config.yaml, the project file dashlaunch.yaml in the working
// directory, DASHLAUNCH_* environment variables, and explicit overrides from
// command-line flags. The project file is checked against an embedded JSON
// Schema before it is merged.
package config
