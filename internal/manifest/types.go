package manifest

import (
	"fmt"
	"time"
)

// FileSuffix identifies executable plugin manifests in a plugin directory.
const FileSuffix = ".plugin.yaml"

// DefaultTimeout bounds a single plugin invocation when the manifest sets none.
const DefaultTimeout = 5 * time.Second

// PluginManifest describes an executable plugin.
type PluginManifest struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string            `yaml:"version,omitempty" json:"version,omitempty"`
	API         string            `yaml:"api,omitempty" json:"api,omitempty"`
	Command     []string          `yaml:"command" json:"command"`
	Timeout     string            `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Env         map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// TimeoutDuration returns the per-invocation timeout.
func (m *PluginManifest) TimeoutDuration() (time.Duration, error) {
	if m.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(m.Timeout)
	if err != nil {
		return 0, fmt.Errorf("parsing timeout %q: %w", m.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout %q must be positive", m.Timeout)
	}
	return d, nil
}
