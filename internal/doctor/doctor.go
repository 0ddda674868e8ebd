package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agentx-labs/dashlaunch/internal/config"
	"github.com/agentx-labs/dashlaunch/internal/manifest"
	"github.com/agentx-labs/dashlaunch/internal/runtime"
	"github.com/agentx-labs/dashlaunch/internal/venv"
)

// Status is the outcome of a single check.
type Status int

const (
	StatusOK Status = iota
	// StatusMiss means something is absent but the launcher copes with it.
	StatusMiss
	StatusWarn
	StatusFail
)

// Tag returns the bracketed label printed in front of a check.
func (s Status) Tag() string {
	switch s {
	case StatusOK:
		return "[ OK ]"
	case StatusMiss:
		return "[MISS]"
	case StatusWarn:
		return "[WARN]"
	default:
		return "[FAIL]"
	}
}

// Check is one diagnostic line.
type Check struct {
	Section string
	Status  Status
	Message string
	// Details are printed indented under the message.
	Details []string
}

// Report collects the checks of one doctor run.
type Report struct {
	Checks []Check
}

func (r *Report) add(section string, status Status, format string, args ...any) *Check {
	r.Checks = append(r.Checks, Check{
		Section: section,
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	})
	return &r.Checks[len(r.Checks)-1]
}

// Count returns how many checks ended with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == s {
			n++
		}
	}
	return n
}

// Failed reports whether any check failed.
func (r *Report) Failed() bool {
	return r.Count(StatusFail) > 0
}

// Print writes the report grouped by section.
func (r *Report) Print(w io.Writer) {
	section := ""
	for _, c := range r.Checks {
		if c.Section != section {
			section = c.Section
			fmt.Fprintf(w, "%s check:\n", section)
		}
		fmt.Fprintf(w, "  %s %s\n", c.Status.Tag(), c.Message)
		for _, d := range c.Details {
			fmt.Fprintf(w, "    - %s\n", d)
		}
	}
}

// Options configures a doctor run.
type Options struct {
	Settings *config.Settings
	WorkDir  string
	Exec     runtime.Executor
	// Environ is the base environment. Nil means os.Environ().
	Environ []string
}

// Run performs every check. It never creates, installs or launches anything;
// the only processes started are "--version" queries.
func Run(ctx context.Context, opts Options) *Report {
	d := &doctor{opts: opts, report: &Report{}}
	if d.opts.Environ == nil {
		d.opts.Environ = os.Environ()
	}

	d.checkProjectFile()
	d.checkInterpreter(ctx)
	act := d.checkEnvironment(ctx)
	d.checkRunner(act)
	d.checkManifest()
	d.checkEntry()
	d.checkEnvFile()
	return d.report
}

type doctor struct {
	opts   Options
	report *Report
}

func (d *doctor) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.opts.WorkDir, p)
}

func (d *doctor) checkProjectFile() {
	const section = "Project"
	path := config.ProjectFilePath(d.opts.WorkDir)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		d.report.add(section, StatusMiss, "%s not found, using defaults", path)
		return
	}

	result, err := config.ValidateFile(path)
	if err != nil {
		d.report.add(section, StatusFail, "%s: %v", path, err)
		return
	}
	if !result.Valid {
		c := d.report.add(section, StatusFail, "%s has %d validation issue(s)", path, len(result.Issues))
		for _, issue := range result.Issues {
			if issue.Path != "" {
				c.Details = append(c.Details, issue.Path+": "+issue.Message)
			} else {
				c.Details = append(c.Details, issue.Message)
			}
		}
		return
	}
	d.report.add(section, StatusOK, "%s is valid", path)
}

func (d *doctor) checkInterpreter(ctx context.Context) {
	const section = "Interpreter"
	s := d.opts.Settings

	python, err := runtime.LookPath(s.Python, d.opts.Environ)
	if err != nil {
		status := StatusFail
		if exists, _ := venv.New(d.path(s.VenvDir)).Exists(); exists {
			// Only creation needs the host interpreter.
			status = StatusWarn
		}
		d.report.add(section, status, "%s not found on PATH", s.Python)
		return
	}
	d.report.add(section, StatusOK, "%s found at %s", s.Python, python)
	d.checkVersion(ctx, section, python, d.opts.Environ)
}

func (d *doctor) checkVersion(ctx context.Context, section, python string, env []string) {
	v, err := venv.InterpreterVersion(ctx, d.opts.Exec, python, env)
	if err != nil {
		d.report.add(section, StatusWarn, "could not determine version of %s: %v", python, err)
		return
	}

	constraint := d.opts.Settings.PythonVersion
	if constraint == "" {
		d.report.add(section, StatusOK, "%s is version %s", python, v)
		return
	}
	ok, err := venv.CheckVersion(v, constraint)
	switch {
	case err != nil:
		d.report.add(section, StatusFail, "%v", err)
	case !ok:
		d.report.add(section, StatusFail, "%s is version %s, %s requires %q", python, v, config.KeyPythonVersion, constraint)
	default:
		d.report.add(section, StatusOK, "%s is version %s (satisfies %q)", python, v, constraint)
	}
}

func (d *doctor) checkEnvironment(ctx context.Context) *venv.Activation {
	const section = "Environment"
	env := venv.New(d.path(d.opts.Settings.VenvDir))

	exists, err := env.Exists()
	if err != nil {
		d.report.add(section, StatusFail, "%v", err)
		return nil
	}
	if !exists {
		d.report.add(section, StatusMiss, "%s does not exist, it will be created on launch", env.Dir)
		return nil
	}
	d.report.add(section, StatusOK, "%s exists", env.Dir)

	if cfg, err := env.ReadConfig(); err != nil {
		d.report.add(section, StatusWarn, "%s unreadable: %v", env.ConfigPath(), err)
	} else if cfg.Version != "" {
		d.report.add(section, StatusOK, "%s records version %s", venv.ConfigFile, cfg.Version)
	} else {
		d.report.add(section, StatusWarn, "%s has no version entry", env.ConfigPath())
	}

	act, err := env.Activate(d.opts.Environ)
	if err != nil {
		c := d.report.add(section, StatusFail, "cannot activate: %v", err)
		if errors.Is(err, venv.ErrNoBinDir) || errors.Is(err, venv.ErrNoInterpreter) {
			c.Details = []string{"remove " + env.Dir + " and run setup again"}
		}
		return nil
	}
	d.report.add(section, StatusOK, "interpreter %s", act.Python)
	d.checkVersion(ctx, section, act.Python, act.Environ)
	return act
}

func (d *doctor) checkRunner(act *venv.Activation) {
	const section = "Runner"
	runner := d.opts.Settings.Runner

	env := d.opts.Environ
	if act != nil {
		env = act.Environ
	}
	path, err := runtime.LookPath(runner, env)
	if err != nil {
		if act == nil {
			d.report.add(section, StatusMiss, "%s not found (environment not ready)", runner)
		} else {
			d.report.add(section, StatusWarn, "%s not found in %s or on PATH", runner, act.BinDir)
		}
		return
	}
	if act != nil && filepath.Dir(path) != act.BinDir {
		d.report.add(section, StatusWarn, "%s resolves outside the environment: %s", runner, path)
		return
	}
	d.report.add(section, StatusOK, "%s found at %s", runner, path)
}

func (d *doctor) checkManifest() {
	const section = "Dependencies"
	path := d.path(d.opts.Settings.Requirements)

	m, err := manifest.ParseFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			d.report.add(section, StatusMiss, "%s not found, install will be skipped", path)
			return
		}
		d.report.add(section, StatusFail, "%v", err)
		return
	}

	d.report.add(section, StatusOK, "%s lists %d package(s)", path, len(m.Requirements))
	if len(m.Issues) > 0 {
		c := d.report.add(section, StatusWarn, "%d malformed line(s)", len(m.Issues))
		for _, issue := range m.Issues {
			c.Details = append(c.Details, fmt.Sprintf("line %d: %s (%s)", issue.Line, issue.Text, issue.Message))
		}
	}
	if runner := d.opts.Settings.Runner; !m.Has(runner) && len(m.Includes()) == 0 {
		d.report.add(section, StatusWarn, "%s does not list %s", path, runner)
	}
}

func (d *doctor) checkEntry() {
	const section = "Application"
	path := d.path(d.opts.Settings.Entry)
	info, err := os.Stat(path)
	switch {
	case err != nil:
		d.report.add(section, StatusFail, "%s not found", path)
	case info.IsDir():
		d.report.add(section, StatusFail, "%s is a directory", path)
	default:
		d.report.add(section, StatusOK, "%s exists", path)
	}
}

func (d *doctor) checkEnvFile() {
	const section = "Application"
	envFile := d.opts.Settings.EnvFile
	if envFile == "" {
		return
	}
	vars, err := runtime.LoadEnvFile(envFile, d.opts.WorkDir)
	if err != nil {
		d.report.add(section, StatusFail, "%v", err)
		return
	}
	d.report.add(section, StatusOK, "%s defines %d variable(s)", envFile, len(vars))
}
