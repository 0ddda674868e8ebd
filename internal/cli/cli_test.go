package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentx-labs/dashlaunch/internal/config"
	"github.com/agentx-labs/dashlaunch/internal/launcher"
	"github.com/agentx-labs/dashlaunch/internal/runtime"
	"github.com/agentx-labs/dashlaunch/internal/venv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// fakeExec simulates the interpreter, pip and the runner.
type fakeExec struct {
	calls       []runtime.Command
	createCode  runtime.ExitCode
	installCode runtime.ExitCode
	launchCode  runtime.ExitCode
}

func (f *fakeExec) Run(_ context.Context, cmd runtime.Command) (*runtime.Output, error) {
	f.calls = append(f.calls, cmd)
	switch {
	case len(cmd.Args) >= 3 && cmd.Args[1] == "venv":
		if f.createCode == 0 {
			e := &venv.Env{Dir: cmd.Args[2]}
			_ = os.MkdirAll(e.BinDir(), 0755)
			_ = os.WriteFile(e.Python(), nil, 0755)
			_ = os.WriteFile(e.Executable("streamlit"), nil, 0755)
		}
		return &runtime.Output{ExitCode: f.createCode}, nil
	case len(cmd.Args) >= 2 && cmd.Args[1] == "pip":
		return &runtime.Output{ExitCode: f.installCode}, nil
	case len(cmd.Args) == 1 && cmd.Args[0] == "--version":
		return &runtime.Output{Stdout: "Python 3.11.4\n"}, nil
	default:
		return &runtime.Output{ExitCode: f.launchCode}, nil
	}
}

// resetFlags restores every flag to its default so package-level command
// state does not leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

type testEnv struct {
	dir  string
	exec *fakeExec
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("DASHLAUNCH_HOME", t.TempDir())

	env := &testEnv{dir: t.TempDir(), exec: &fakeExec{}}
	prev := newExecutor
	newExecutor = func() runtime.Executor { return env.exec }
	t.Cleanup(func() { newExecutor = prev })
	return env
}

func (e *testEnv) execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	exitCode = runtime.ExitSuccess

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append([]string{"-C", e.dir}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) write(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(e.dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLaunch_DefaultCommand(t *testing.T) {
	env := setup(t)
	env.write(t, "requirements.txt", "streamlit\n")
	env.write(t, "dashboard.py", "")

	if _, err := env.execute(t, "--hold", "never"); err != nil {
		t.Fatalf("execute() error: %v", err)
	}
	if exitCode != 0 {
		t.Errorf("exitCode = %d, want 0", exitCode)
	}
	if len(env.exec.calls) != 3 {
		t.Fatalf("calls = %d, want create, install, launch", len(env.exec.calls))
	}
}

func TestLaunch_InheritsRunnerExitCode(t *testing.T) {
	env := setup(t)
	env.exec.launchCode = 3

	if _, err := env.execute(t, "launch", "--hold", "never"); err != nil {
		t.Fatalf("execute() error = %v, want nil without --check-launch", err)
	}
	if exitCode != 3 {
		t.Errorf("exitCode = %d, want 3", exitCode)
	}
}

func TestLaunch_CheckLaunchFlag(t *testing.T) {
	env := setup(t)
	env.exec.launchCode = 3

	_, err := env.execute(t, "launch", "--hold", "never", "--check-launch")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 3 {
		t.Fatalf("execute() error = %v, want ExitError with code 3", err)
	}
	if !errors.Is(err, launcher.ErrLaunch) {
		t.Error("error should wrap ErrLaunch")
	}
}

func TestLaunch_SetupFailureExitsOne(t *testing.T) {
	env := setup(t)
	env.write(t, "requirements.txt", "streamlit\n")
	env.exec.installCode = 2

	_, err := env.execute(t, "launch", "--hold", "never")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("execute() error = %v, want ExitError with code 1", err)
	}
	if !errors.Is(err, launcher.ErrInstall) {
		t.Error("error should wrap ErrInstall")
	}
}

func TestLaunch_ExtraArgs(t *testing.T) {
	env := setup(t)

	if _, err := env.execute(t, "launch", "--hold", "never", "--", "--server.port", "8502"); err != nil {
		t.Fatalf("execute() error: %v", err)
	}
	launch := env.exec.calls[len(env.exec.calls)-1]
	if got := strings.Join(launch.Args[2:], " "); got != "--server.port 8502" {
		t.Errorf("runner args = %q, want %q", got, "--server.port 8502")
	}
}

func TestLaunch_DryRun(t *testing.T) {
	env := setup(t)
	env.write(t, "requirements.txt", "streamlit\npandas\n")

	out, err := env.execute(t, "--dry-run")
	if err != nil {
		t.Fatalf("execute() error: %v", err)
	}
	if len(env.exec.calls) != 0 {
		t.Errorf("dry run executed %d command(s)", len(env.exec.calls))
	}
	for _, want := range []string{"Dry Run", "create environment", "install dependencies", "launch application", "pandas"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSetup(t *testing.T) {
	env := setup(t)

	out, err := env.execute(t, "setup")
	if err != nil {
		t.Fatalf("execute() error: %v", err)
	}
	if !strings.Contains(out, "environment ready") {
		t.Errorf("output = %q", out)
	}
	for _, c := range env.exec.calls {
		if len(c.Args) > 0 && c.Args[0] == "run" {
			t.Error("setup must not start the runner")
		}
	}

	out, err = env.execute(t, "setup", "--dry-run")
	if err != nil {
		t.Fatalf("dry run error: %v", err)
	}
	if strings.Contains(out, "launch application") {
		t.Errorf("setup dry run should not list the launch step:\n%s", out)
	}
}

func TestSetup_CreateFailure(t *testing.T) {
	env := setup(t)
	env.exec.createCode = 1

	_, err := env.execute(t, "setup")
	if !errors.Is(err, launcher.ErrCreate) {
		t.Fatalf("execute() error = %v, want ErrCreate", err)
	}
}

func TestDoctor(t *testing.T) {
	env := setup(t)

	out, err := env.execute(t, "doctor")
	if err != nil {
		t.Fatalf("execute() error: %v", err)
	}
	if exitCode != 1 {
		t.Errorf("exitCode = %d, want 1 when the entry file is missing", exitCode)
	}
	if !strings.Contains(out, "[FAIL]") || !strings.Contains(out, "failed") {
		t.Errorf("output missing failure report:\n%s", out)
	}
}

func TestDoctor_InvalidProjectFileStillReports(t *testing.T) {
	env := setup(t)
	env.write(t, "dashlaunch.yaml", "hold: sometimes\n")

	out, err := env.execute(t, "doctor")
	if err != nil {
		t.Fatalf("execute() error = %v, want report instead", err)
	}
	if !strings.Contains(out, "Project check:") || exitCode != 1 {
		t.Errorf("exitCode = %d, output:\n%s", exitCode, out)
	}
}

func TestInitAndConfig(t *testing.T) {
	env := setup(t)

	out, err := env.execute(t, "init", "--name", "attendance")
	if err != nil {
		t.Fatalf("init error: %v", err)
	}
	if !strings.Contains(out, "wrote dashlaunch.yaml") {
		t.Errorf("init output:\n%s", out)
	}

	if _, err := env.execute(t, "config", "set", "--project", "--", "runner_args", "--server.port 8600"); err != nil {
		t.Fatalf("config set error: %v", err)
	}
	out, err = env.execute(t, "config", "get", "runner_args")
	if err != nil {
		t.Fatalf("config get error: %v", err)
	}
	if strings.TrimSpace(out) != "--server.port 8600" {
		t.Errorf("config get = %q", out)
	}

	// The project file must still satisfy the schema after the write.
	result, err := config.ValidateFile(filepath.Join(env.dir, "dashlaunch.yaml"))
	if err != nil || !result.Valid {
		t.Errorf("project file invalid after config set: %v %+v", err, result)
	}
}

func TestConfig_UserFile(t *testing.T) {
	env := setup(t)

	if _, err := env.execute(t, "config", "set", "hold", "always"); err != nil {
		t.Fatalf("config set error: %v", err)
	}
	if _, err := os.Stat(config.FilePath()); err != nil {
		t.Fatalf("user config not written: %v", err)
	}

	out, err := env.execute(t, "config", "list")
	if err != nil {
		t.Fatalf("config list error: %v", err)
	}
	if !strings.Contains(out, "hold = always") {
		t.Errorf("config list output:\n%s", out)
	}
}

func TestConfig_Errors(t *testing.T) {
	env := setup(t)

	if _, err := env.execute(t, "config", "get", "nope"); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := env.execute(t, "config", "set", "hold", "sometimes"); err == nil {
		t.Error("expected error for invalid hold mode")
	}
	if _, err := env.execute(t, "config", "set", "check_launch", "maybe"); err == nil {
		t.Error("expected error for non-boolean check_launch")
	}
}

func TestMissingProjectDirectory(t *testing.T) {
	env := setup(t)
	env.dir = filepath.Join(env.dir, "missing")

	if _, err := env.execute(t, "setup"); err == nil {
		t.Error("expected error for missing project directory")
	}
}

func TestVersion(t *testing.T) {
	env := setup(t)
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-02"

	out, err := env.execute(t, "version", "--short")
	if err != nil || strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("version --short = %q, %v", out, err)
	}

	out, err = env.execute(t, "version", "--json")
	if err != nil {
		t.Fatalf("version --json error: %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("version --json output not JSON: %v\n%s", err, out)
	}
	if info["commit"] != "abc123" {
		t.Errorf("commit = %q", info["commit"])
	}

	out, _ = env.execute(t, "version")
	if !strings.HasPrefix(out, "dashlaunch version 1.2.3") {
		t.Errorf("version = %q", out)
	}
}

func TestVersionString(t *testing.T) {
	buildVersion = "dev"
	if got := versionString(); got != "dev (built from source)" {
		t.Errorf("versionString() = %q", got)
	}
	buildVersion, buildCommit, buildDate = "1.0.0", "c", "d"
	if got := versionString(); got != "1.0.0 (commit: c, built: d)" {
		t.Errorf("versionString() = %q", got)
	}
}

func TestExitError(t *testing.T) {
	cause := errors.New("boom")
	err := &ExitError{Code: 2, Err: cause}
	if err.Error() != "boom" || !errors.Is(err, cause) {
		t.Errorf("ExitError = %v", err)
	}
	if got := (&ExitError{Code: 4}).Error(); got != "exit status 4" {
		t.Errorf("Error() = %q", got)
	}
}
