//go:build integration

package integration_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/agentx-labs/dashlaunch/internal/config"
	"github.com/agentx-labs/dashlaunch/internal/platform"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // DASHLAUNCH_HOME, holds the user config
	ProjectDir string // the dashboard project
	Python     string // host interpreter used to create environments
}

// setupTestEnv creates isolated temp directories and points DASHLAUNCH_HOME
// at one of them. Tests are skipped when no interpreter able to create
// virtual environments is installed.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	python, err := exec.LookPath(platform.DefaultPython())
	if err != nil {
		t.Skipf("%s not found: %v", platform.DefaultPython(), err)
	}
	if out, err := exec.Command(python, "-c", "import venv, ensurepip").CombinedOutput(); err != nil {
		t.Skipf("%s cannot create virtual environments: %v\n%s", python, err, out)
	}

	env := &testEnv{
		HomeDir:    t.TempDir(),
		ProjectDir: t.TempDir(),
		Python:     python,
	}
	t.Setenv("DASHLAUNCH_HOME", env.HomeDir)
	return env
}

// settings returns defaults pointed at the host interpreter with holding
// disabled.
func (e *testEnv) settings() *config.Settings {
	s := config.DefaultSettings()
	s.Python = e.Python
	s.Hold = config.HoldNever
	return s
}

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file %s to exist: %v", path, err)
	}
}
