package runtime

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestSetEnv(t *testing.T) {
	tests := []struct {
		name     string
		env      []string
		key      string
		value    string
		expected []string
	}{
		{
			name:     "add new variable",
			env:      []string{"FOO=bar"},
			key:      "BAZ",
			value:    "qux",
			expected: []string{"FOO=bar", "BAZ=qux"},
		},
		{
			name:     "replace existing variable",
			env:      []string{"FOO=bar", "BAZ=old"},
			key:      "BAZ",
			value:    "new",
			expected: []string{"FOO=bar", "BAZ=new"},
		},
		{
			name:     "prefix is not a match",
			env:      []string{"BAZAR=1"},
			key:      "BAZ",
			value:    "2",
			expected: []string{"BAZAR=1", "BAZ=2"},
		},
		{
			name:     "add to empty env",
			env:      nil,
			key:      "KEY",
			value:    "val",
			expected: []string{"KEY=val"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SetEnv(tt.env, tt.key, tt.value)
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d entries, got %d: %v", len(tt.expected), len(result), result)
			}
			for i, e := range tt.expected {
				if result[i] != e {
					t.Errorf("env[%d] = %q, want %q", i, result[i], e)
				}
			}
		})
	}
}

func TestUnsetEnv(t *testing.T) {
	env := []string{"PYTHONHOME=/opt/py", "HOME=/home/u", "PYTHONHOME=/other"}
	got := UnsetEnv(env, "PYTHONHOME")
	if len(got) != 1 || got[0] != "HOME=/home/u" {
		t.Errorf("UnsetEnv() = %v, want [HOME=/home/u]", got)
	}
	if env[0] != "PYTHONHOME=/opt/py" {
		t.Error("UnsetEnv modified its input slice")
	}
}

func TestLookupEnv(t *testing.T) {
	env := []string{"A=1", "B=2", "A=3"}
	if v, ok := LookupEnv(env, "A"); !ok || v != "3" {
		t.Errorf("LookupEnv(A) = %q, %v; want 3, true", v, ok)
	}
	if _, ok := LookupEnv(env, "C"); ok {
		t.Error("LookupEnv(C) found a value")
	}
}

func TestPrependPath(t *testing.T) {
	sep := string(os.PathListSeparator)
	env := PrependPath([]string{"PATH=/usr/bin"}, "/venv/bin")
	if v, _ := LookupEnv(env, "PATH"); v != "/venv/bin"+sep+"/usr/bin" {
		t.Errorf("PATH = %q", v)
	}

	env = PrependPath([]string{"HOME=/x"}, "/venv/bin")
	if v, _ := LookupEnv(env, "PATH"); v != "/venv/bin" {
		t.Errorf("PATH = %q, want /venv/bin", v)
	}
}

func TestLookPath_UsesEnvPath(t *testing.T) {
	dir := t.TempDir()
	name := "fake-runner"
	exe := filepath.Join(dir, name)
	if runtime.GOOS == "windows" {
		exe += ".exe"
	}
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := LookPath(name, []string{"PATH=" + dir})
	if err != nil {
		t.Fatalf("LookPath() error: %v", err)
	}
	if got != exe {
		t.Errorf("LookPath() = %q, want %q", got, exe)
	}

	if _, err := LookPath(name, []string{"PATH=" + t.TempDir()}); err == nil {
		t.Error("expected not-found error for empty directory")
	}
}

func TestLookPath_SkipsNonExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not used on Windows")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "plain"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LookPath("plain", []string{"PATH=" + dir}); err == nil {
		t.Error("expected non-executable file to be skipped")
	}
}
