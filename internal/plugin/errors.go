package plugin

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when invoking a name that no plugin registered.
	ErrNotFound = errors.New("plugin not found")
	// ErrPluginLoad marks every per-file load failure.
	ErrPluginLoad = errors.New("plugin load failed")
)

// LoadError records why the plugin file at Path was skipped.
type LoadError struct {
	Path    string
	Runtime string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s plugin %s: %v", e.Runtime, e.Path, e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{ErrPluginLoad, e.Err} }
