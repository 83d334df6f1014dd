package plugin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/agentx-labs/calcx/internal/runtime"
)

// Entry is one registered plugin.
type Entry struct {
	Name    string // lowercase registry key
	Path    string // source file
	Runtime string // runtime identifier, e.g. "lua"
	plugin  runtime.Plugin
}

// Report summarizes one LoadAll scan. Loaded holds only entries that are
// still registered; entries replaced by a later file with the same name
// move to Shadowed.
type Report struct {
	Dir      string
	Loaded   []Entry
	Shadowed []Shadowed
	Failed   []*LoadError
	Ignored  []string // files no runtime recognized
}

// Shadowed is a plugin that loaded but was replaced by a later file.
type Shadowed struct {
	Entry
	By string // path of the replacing file
}

func (r *Report) add(e Entry) {
	for i, prev := range r.Loaded {
		if prev.Name == e.Name {
			r.Shadowed = append(r.Shadowed, Shadowed{Entry: prev, By: e.Path})
			r.Loaded = append(r.Loaded[:i], r.Loaded[i+1:]...)
			break
		}
	}
	r.Loaded = append(r.Loaded, e)
}

// Loader scans plugin directories and owns the resulting registry.
type Loader struct {
	log      *zap.Logger
	runtimes []runtime.Runtime

	mu      sync.RWMutex
	entries map[string]Entry
}

// NewLoader returns a loader that recognizes files through the given
// runtimes, or runtime.Defaults() when none are passed. A nil logger
// discards output.
func NewLoader(log *zap.Logger, runtimes ...runtime.Runtime) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	if len(runtimes) == 0 {
		runtimes = runtime.Defaults()
	}
	return &Loader{
		log:      log.Named("plugins"),
		runtimes: runtimes,
		entries:  make(map[string]Entry),
	}
}

// LoadAll loads every recognized file directly under dir, in lexical order.
// A missing directory yields an empty report. The returned error is reserved
// for failures to read the directory itself.
func (l *Loader) LoadAll(ctx context.Context, dir string) (*Report, error) {
	report := &Report{Dir: dir}

	files, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.log.Debug("plugin directory does not exist", zap.String("dir", dir))
			return report, nil
		}
		return nil, fmt.Errorf("reading plugin directory %s: %w", dir, err)
	}

	// os.ReadDir already sorts by file name.
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		path := filepath.Join(dir, f.Name())
		rt := runtime.ForFile(f.Name(), l.runtimes)
		if rt == nil {
			report.Ignored = append(report.Ignored, path)
			continue
		}

		entry, err := l.Load(ctx, rt, path)
		if err != nil {
			var loadErr *LoadError
			if errors.As(err, &loadErr) {
				report.Failed = append(report.Failed, loadErr)
			}
			l.log.Warn("plugin skipped", zap.String("path", path), zap.String("runtime", rt.Name()), zap.Error(err))
			continue
		}
		report.add(entry)
	}

	l.log.Info("plugins loaded",
		zap.String("dir", dir),
		zap.Int("loaded", len(report.Loaded)),
		zap.Int("failed", len(report.Failed)))
	return report, nil
}

// Load loads a single file with rt and registers it. Any failure is
// returned as a *LoadError.
func (l *Loader) Load(ctx context.Context, rt runtime.Runtime, path string) (Entry, error) {
	p, err := rt.Load(ctx, path)
	if err != nil {
		return Entry{}, &LoadError{Path: path, Runtime: rt.Name(), Err: err}
	}

	entry := Entry{
		Name:    normalize(p.Name()),
		Path:    path,
		Runtime: rt.Name(),
		plugin:  p,
	}

	l.mu.Lock()
	prev, exists := l.entries[entry.Name]
	l.entries[entry.Name] = entry
	l.mu.Unlock()

	if exists {
		l.log.Debug("plugin overwritten",
			zap.String("name", entry.Name),
			zap.String("previous", prev.Path),
			zap.String("path", path))
		if err := prev.plugin.Close(); err != nil {
			l.log.Warn("closing replaced plugin", zap.String("path", prev.Path), zap.Error(err))
		}
	}
	l.log.Info("plugin loaded", zap.String("name", entry.Name), zap.String("runtime", entry.Runtime))
	return entry, nil
}

// Commands returns the registered plugin names, sorted.
func (l *Loader) Commands() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.entries))
	for name := range l.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns the registered plugins sorted by name.
func (l *Loader) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a plugin by case-insensitive name.
func (l *Loader) Lookup(name string) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[normalize(name)]
	return e, ok
}

// Invoke calls the named plugin. Arity and argument types are the plugin's
// own concern.
func (l *Loader) Invoke(ctx context.Context, name string, args ...any) (any, error) {
	e, ok := l.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e.plugin.Invoke(ctx, args...)
}

// Close releases every loaded plugin and empties the registry.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	for name, e := range l.entries {
		if err := e.plugin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing plugin %s: %w", name, err))
		}
	}
	l.entries = make(map[string]Entry)
	return errors.Join(errs...)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
