//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agentx-labs/dashlaunch/internal/launcher"
	"github.com/agentx-labs/dashlaunch/internal/platform"
	"github.com/agentx-labs/dashlaunch/internal/runtime"
	"github.com/agentx-labs/dashlaunch/internal/venv"
)

func newLauncher(env *testEnv, stdout *bytes.Buffer) *launcher.Launcher {
	exec := &runtime.ProcessExecutor{Stdout: stdout, Stderr: stdout}
	l := launcher.New(env.settings(), env.ProjectDir, exec, nil)
	l.Stdout = stdout
	return l
}

// TestSetupCreatesRealEnvironment creates an environment with the host
// interpreter and checks that a second setup reuses it.
func TestSetupCreatesRealEnvironment(t *testing.T) {
	env := setupTestEnv(t)
	var out bytes.Buffer
	l := newLauncher(env, &out)

	act, err := l.Setup(context.Background())
	if err != nil {
		t.Fatalf("Setup: %v\n%s", err, out.String())
	}

	e := venv.New(filepath.Join(env.ProjectDir, ".venv"))
	if act.Dir != e.Dir {
		t.Errorf("activation dir = %s, want %s", act.Dir, e.Dir)
	}
	assertFileExists(t, e.Python())
	assertFileExists(t, e.ConfigPath())

	cfg, err := e.ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if _, err := venv.ParseVersion(cfg.Version); err != nil {
		t.Errorf("pyvenv.cfg version %q: %v", cfg.Version, err)
	}

	v, err := venv.InterpreterVersion(context.Background(), &runtime.ProcessExecutor{}, act.Python, act.Environ)
	if err != nil {
		t.Fatalf("InterpreterVersion: %v", err)
	}
	if v.Major() != 3 {
		t.Errorf("interpreter major version = %d, want 3", v.Major())
	}

	marker := filepath.Join(e.Dir, "marker")
	writeFile(t, marker, "keep", 0644)
	if _, err := l.Setup(context.Background()); err != nil {
		t.Fatalf("second Setup: %v", err)
	}
	assertFileExists(t, marker)
}

// TestInstallFailureStopsLaunch uses an offline install of a package that
// cannot exist, so pip fails without network access.
func TestInstallFailureStopsLaunch(t *testing.T) {
	env := setupTestEnv(t)
	writeFile(t, filepath.Join(env.ProjectDir, "requirements.txt"), "dashlaunch-no-such-package-0d1f\n", 0644)

	var out bytes.Buffer
	l := newLauncher(env, &out)
	l.Settings.PipArgs = "--no-index --disable-pip-version-check"

	code, err := l.Run(context.Background())
	if !errors.Is(err, launcher.ErrInstall) {
		t.Fatalf("Run error = %v, want ErrInstall\n%s", err, out.String())
	}
	if code != runtime.ExitFailure {
		t.Errorf("exit code = %d, want 1", code)
	}
}

// TestLaunchRunsRunnerFromEnvironment installs a stand-in runner script into
// the environment and checks arguments and exit code propagation.
func TestLaunchRunsRunnerFromEnvironment(t *testing.T) {
	if platform.IsWindows() {
		t.Skip("stand-in runner is a shell script")
	}
	env := setupTestEnv(t)
	writeFile(t, filepath.Join(env.ProjectDir, "dashboard.py"), "", 0644)

	var out bytes.Buffer
	l := newLauncher(env, &out)
	act, err := l.Setup(context.Background())
	if err != nil {
		t.Fatalf("Setup: %v\n%s", err, out.String())
	}
	writeFile(t, filepath.Join(act.BinDir, "streamlit"),
		"#!/bin/sh\necho \"args: $*\"\necho \"venv: $VIRTUAL_ENV\"\nexit 7\n", 0755)

	l.Settings.RunnerArgs = "--server.headless true"
	code, err := l.Launch(context.Background(), act)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if code != 7 {
		t.Errorf("exit code = %d, want runner's 7", code)
	}

	got := out.String()
	wantArgs := "args: run " + filepath.Join(env.ProjectDir, "dashboard.py") + " --server.headless true"
	if !strings.Contains(got, wantArgs) {
		t.Errorf("runner output missing %q:\n%s", wantArgs, got)
	}
	if !strings.Contains(got, "venv: "+act.Dir) {
		t.Errorf("runner did not see VIRTUAL_ENV=%s:\n%s", act.Dir, got)
	}
}

// TestLaunchInterrupted cancels the context while the runner sleeps.
func TestLaunchInterrupted(t *testing.T) {
	if platform.IsWindows() {
		t.Skip("stand-in runner is a shell script")
	}
	env := setupTestEnv(t)

	var out bytes.Buffer
	l := newLauncher(env, &out)
	act, err := l.Setup(context.Background())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	writeFile(t, filepath.Join(act.BinDir, "streamlit"), "#!/bin/sh\nexec sleep 30\n", 0755)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	code, err := l.Launch(ctx, act)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if code != runtime.ExitInterrupted {
		t.Errorf("exit code = %d, want %d", code, runtime.ExitInterrupted)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("runner not stopped promptly: %s", elapsed)
	}
}
