package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// IsManifestFile reports whether name looks like an executable plugin manifest.
func IsManifestFile(name string) bool {
	return strings.HasSuffix(name, FileSuffix)
}

// ParseFile reads, validates and decodes a plugin manifest. Schema violations
// are returned as a single error listing every issue.
func ParseFile(path string) (*PluginManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// Parse validates and decodes manifest bytes. path is used in error messages only.
func Parse(data []byte, path string) (*PluginManifest, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating manifest %s: %w", path, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("manifest %s is invalid: %s", path, result.Summary())
	}

	var m PluginManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if _, err := m.TimeoutDuration(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

// ResolveCommand returns the manifest's argv with a relative executable
// path ("./bin/x" or "bin/x") resolved against the manifest directory.
// Bare program names are left for PATH lookup.
func (m *PluginManifest) ResolveCommand(manifestDir string) []string {
	argv := make([]string, len(m.Command))
	copy(argv, m.Command)
	if len(argv) == 0 {
		return argv
	}
	exe := argv[0]
	if !filepath.IsAbs(exe) && strings.ContainsRune(exe, '/') {
		argv[0] = filepath.Join(manifestDir, filepath.FromSlash(exe))
	}
	return argv
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
