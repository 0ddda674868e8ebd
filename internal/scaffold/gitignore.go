package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const gitignoreFile = ".gitignore"

// gitignoreLine returns the ignore pattern for the environment directory,
// anchored to the project root.
func gitignoreLine(venvDir string) string {
	return "/" + strings.Trim(filepath.ToSlash(venvDir), "/") + "/"
}

// AddToGitignore appends line to dir/.gitignore, creating the file if
// needed. It reports whether the file changed; a line already present, with
// or without the leading or trailing slash, is a no-op.
func AddToGitignore(dir, line string) (bool, error) {
	gitignorePath := filepath.Join(dir, gitignoreFile)

	content, err := os.ReadFile(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading .gitignore: %w", err)
	}

	want := strings.Trim(line, "/")
	for _, l := range strings.Split(string(content), "\n") {
		if strings.Trim(strings.TrimSpace(l), "/") == want {
			return false, nil
		}
	}

	// Ensure there's a newline before our addition.
	suffix := line + "\n"
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		suffix = "\n" + suffix
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("opening .gitignore for append: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(suffix); err != nil {
		return false, fmt.Errorf("writing to .gitignore: %w", err)
	}
	return true, nil
}
