package runtime

import (
	"context"
	"errors"
)

// Runtime loads plugins from files it recognizes.
type Runtime interface {
	// Name identifies the runtime in logs and listings, e.g. "lua".
	Name() string
	// Matches reports whether the runtime handles the given file name.
	Matches(fileName string) bool
	// Load prepares the plugin defined at path and returns a callable handle.
	Load(ctx context.Context, path string) (Plugin, error)
}

// Plugin is a loaded, invocable plugin.
type Plugin interface {
	Name() string
	// Invoke calls the plugin with float64 or string arguments. Plugins
	// validate their own arguments.
	Invoke(ctx context.Context, args ...any) (any, error)
	Close() error
}

// Supported runtime identifiers.
const (
	RuntimeLua  = "lua"
	RuntimeExec = "exec"
)

// ErrInvalidPlugin marks a plugin file that loaded but does not honor the
// registration contract.
var ErrInvalidPlugin = errors.New("invalid plugin")

// Defaults returns every built-in runtime in lookup order.
func Defaults() []Runtime {
	return []Runtime{NewLua(), NewExec()}
}

// ForFile returns the first runtime that matches fileName, or nil if none does.
func ForFile(fileName string, runtimes []Runtime) Runtime {
	for _, rt := range runtimes {
		if rt.Matches(fileName) {
			return rt
		}
	}
	return nil
}

// ByName returns the runtime with the given identifier, or nil.
func ByName(name string, runtimes []Runtime) Runtime {
	for _, rt := range runtimes {
		if rt.Name() == name {
			return rt
		}
	}
	return nil
}
