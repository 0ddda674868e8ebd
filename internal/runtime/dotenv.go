package runtime

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadEnvFile reads a dotenv file into a map. Relative paths resolve against
// baseDir. A trailing '?' marks the file optional: a missing optional file
// yields an empty map and no error.
func LoadEnvFile(path, baseDir string) (map[string]string, error) {
	optional := strings.HasSuffix(path, "?")
	path = strings.TrimSuffix(path, "?")

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(baseDir, filepath.FromSlash(path))
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return ParseEnv(data)
}

// ParseEnv parses dotenv content. Blank lines and '#' comments are skipped,
// an optional "export " prefix is accepted, and matching single or double
// quotes around a value are removed.
func ParseEnv(data []byte) (map[string]string, error) {
	env := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("line %d: expected KEY=VALUE", lineNo)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNo)
		}
		env[key] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning env data: %w", err)
	}
	return env, nil
}

func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' || first == '\'') && first == last {
			return v[1 : len(v)-1]
		}
	}
	return v
}
