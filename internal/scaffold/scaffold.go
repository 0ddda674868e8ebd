package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"text/template"

	"github.com/agentx-labs/dashlaunch/internal/branding"
	"github.com/agentx-labs/dashlaunch/internal/config"
	"github.com/agentx-labs/dashlaunch/internal/manifest"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DefaultPackages are the packages a dashboard built on the default runner imports.
var DefaultPackages = []string{"streamlit", "pandas", "plotly", "openpyxl"}

// Data holds all template variables available to scaffold templates.
type Data struct {
	Name          string // e.g., "attendance-dashboard"
	CLIName       string
	HomeDir       string
	VenvDir       string
	Requirements  string
	Entry         string
	Runner        string
	PythonVersion string
	Packages      []string
}

// NewData creates Data for a project called name, taking paths and the
// runner from s. The runner is added to the package list when missing.
func NewData(name string, s *config.Settings) *Data {
	d := &Data{
		Name:          name,
		CLIName:       branding.CLIName(),
		HomeDir:       branding.HomeDir(),
		VenvDir:       s.VenvDir,
		Requirements:  s.Requirements,
		Entry:         s.Entry,
		Runner:        s.Runner,
		PythonVersion: s.PythonVersion,
		Packages:      slices.Clone(DefaultPackages),
	}

	runner := manifest.NormalizeName(s.Runner)
	found := false
	for _, p := range d.Packages {
		if manifest.NormalizeName(p) == runner {
			found = true
			break
		}
	}
	if !found {
		d.Packages = append([]string{s.Runner}, d.Packages...)
	}
	return d
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	// Skipped lists files that already existed and were left untouched.
	Skipped  []string
	Warnings []string
}

// file pairs an embedded template with the project-relative path it renders to.
type file struct {
	template string
	target   func(d *Data) string
}

var files = []file{
	{template: "project.yaml.tmpl", target: func(*Data) string { return branding.ProjectFile() }},
	{template: "requirements.txt.tmpl", target: func(d *Data) string { return d.Requirements }},
}

// Generate writes the project files into outputDir. Existing files are never
// overwritten; they are reported in Result.Skipped.
func Generate(outputDir string, data *Data) (*Result, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &Result{OutputDir: outputDir}

	for _, f := range files {
		name := f.target(data)
		outPath := name
		if !filepath.IsAbs(outPath) {
			outPath = filepath.Join(outputDir, name)
		}

		if _, err := os.Stat(outPath); err == nil {
			result.Skipped = append(result.Skipped, name)
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("checking %s: %w", outPath, err)
		}

		content, err := render(f.template, data)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return nil, fmt.Errorf("creating directory for %s: %w", outPath, err)
		}
		if err := os.WriteFile(outPath, content, 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}
		result.Files = append(result.Files, name)
	}

	added, err := AddToGitignore(outputDir, gitignoreLine(data.VenvDir))
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not update .gitignore: %v", err))
	} else if added {
		result.Files = append(result.Files, gitignoreFile)
	}

	// Validate the project file, whether freshly written or pre-existing.
	projectFile := config.ProjectFilePath(outputDir)
	if _, err := os.Stat(projectFile); err == nil {
		valResult, valErr := config.ValidateFile(projectFile)
		if valErr != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Could not validate %s: %v", branding.ProjectFile(), valErr))
		} else if !valResult.Valid {
			for _, issue := range valResult.Issues {
				msg := issue.Message
				if issue.Path != "" {
					msg = issue.Path + ": " + msg
				}
				result.Warnings = append(result.Warnings, msg)
			}
		}
	}

	return result, nil
}

func render(name string, data *Data) ([]byte, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
