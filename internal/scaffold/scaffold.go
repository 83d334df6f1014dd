package scaffold

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/agentx-labs/calcx/internal/branding"
	"github.com/agentx-labs/calcx/internal/manifest"
	"github.com/agentx-labs/calcx/internal/platform"
	"github.com/agentx-labs/calcx/internal/runtime"
)

// namePattern mirrors the manifest schema's name rule.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Data holds the template variables available to scaffold templates.
type Data struct {
	Name        string // e.g. "hypot"
	Runtime     string // "lua" or "exec"
	Description string
	Version     string
	APIVersion  string
	CLIName     string
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// NewData returns template data with defaults filled in.
func NewData(name, rt string) *Data {
	return &Data{
		Name:        name,
		Runtime:     rt,
		Description: fmt.Sprintf("%s plugin: %s", branding.DisplayName(), name),
		Version:     "0.1.0",
		APIVersion:  manifest.APIVersion,
		CLIName:     branding.CLIName(),
	}
}

// ValidateName reports whether name is usable as a plugin command.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid plugin name %q: use lowercase letters, digits, '-' or '_', starting with a letter", name)
	}
	return nil
}

// Runtimes lists the runtimes that have a template set.
func Runtimes() []string {
	entries, err := fs.ReadDir(scaffoldFS, "scaffolds")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

// Generate renders the template set for data.Runtime into outputDir. Files
// are named after the plugin; existing files are never overwritten.
func Generate(data *Data, outputDir string) (*Result, error) {
	if err := ValidateName(data.Name); err != nil {
		return nil, err
	}
	templatesDir := path.Join("scaffolds", data.Runtime)

	entries, err := fs.ReadDir(scaffoldFS, templatesDir)
	if err != nil {
		return nil, fmt.Errorf("no templates for runtime %q (available: %s)", data.Runtime, strings.Join(Runtimes(), ", "))
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	// Check every target first so a partial scaffold is never left behind.
	type target struct{ tmpl, out string }
	var targets []target
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		outName := outputName(entry.Name(), data.Name)
		outPath := filepath.Join(outputDir, outName)
		if _, err := os.Stat(outPath); err == nil {
			return nil, fmt.Errorf("%s already exists; remove it first", outPath)
		}
		targets = append(targets, target{tmpl: path.Join(templatesDir, entry.Name()), out: outName})
	}

	result := &Result{OutputDir: outputDir}
	for _, t := range targets {
		tmplBytes, err := fs.ReadFile(scaffoldFS, t.tmpl)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", t.tmpl, err)
		}
		tmpl, err := template.New(path.Base(t.tmpl)).Parse(string(tmplBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", t.tmpl, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template %s: %w", t.tmpl, err)
		}

		outPath := filepath.Join(outputDir, t.out)
		if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}
		if strings.HasSuffix(t.out, ".sh") {
			if err := platform.MakeExecutable(outPath); err != nil {
				return nil, fmt.Errorf("making %s executable: %w", outPath, err)
			}
		}
		result.Files = append(result.Files, t.out)
	}

	// Validate the generated manifest against JSON Schema.
	if data.Runtime == runtime.RuntimeExec {
		manifestFile := filepath.Join(outputDir, data.Name+manifest.FileSuffix)
		valResult, valErr := manifest.ValidateFile(manifestFile)
		if valErr != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Could not validate manifest: %v", valErr))
		} else if !valResult.Valid {
			for _, issue := range valResult.Issues {
				result.Warnings = append(result.Warnings, issue.String())
			}
		}
	}

	return result, nil
}

// outputName strips .tmpl and replaces the leading "plugin" with the plugin
// name: plugin.plugin.yaml.tmpl → hypot.plugin.yaml.
func outputName(tmplName, name string) string {
	out := strings.TrimSuffix(tmplName, ".tmpl")
	return name + strings.TrimPrefix(out, "plugin")
}
