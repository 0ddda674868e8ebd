package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	if got := CLIName(); got != "dashlaunch" {
		t.Errorf("CLIName() = %q, want %q", got, "dashlaunch")
	}
	if got := ProjectFile(); got != "dashlaunch.yaml" {
		t.Errorf("ProjectFile() = %q, want %q", got, "dashlaunch.yaml")
	}
	if got := HomeDir(); got != ".dashlaunch" {
		t.Errorf("HomeDir() = %q, want %q", got, ".dashlaunch")
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("venv_dir"); got != "DASHLAUNCH_VENV_DIR" {
		t.Errorf("EnvVar(venv_dir) = %q, want %q", got, "DASHLAUNCH_VENV_DIR")
	}
}
