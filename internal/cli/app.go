package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/agentx-labs/calcx/internal/config"
	"github.com/agentx-labs/calcx/internal/dispatch"
	"github.com/agentx-labs/calcx/internal/history"
	"github.com/agentx-labs/calcx/internal/logging"
	"github.com/agentx-labs/calcx/internal/operation"
	"github.com/agentx-labs/calcx/internal/plugin"
	"github.com/agentx-labs/calcx/internal/repl"
)

// app holds the components shared by the REPL and the one-shot commands.
type app struct {
	settings   config.Settings
	log        *zap.Logger
	ops        *operation.Registry
	plugins    *plugin.Loader
	report     *plugin.Report
	history    *history.Log
	store      history.Store
	dispatcher *dispatch.Dispatcher
}

// newApp loads plugins and history according to the current configuration.
// Unreadable plugin directories and history files are logged, not fatal.
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	s := config.Current()
	log := logging.New(s.LogLevel, logOut)

	a := &app{
		settings: s,
		log:      log,
		ops:      operation.Builtins(),
		plugins:  plugin.NewLoader(log),
		history:  history.NewLog(),
	}

	report, err := a.plugins.LoadAll(ctx, s.PluginsDir)
	if err != nil {
		log.Warn("plugins not loaded", zap.Error(err))
		report = &plugin.Report{Dir: s.PluginsDir}
	}
	a.report = report

	store, err := history.OpenStore(s.HistoryBackend, s.HistoryFile)
	if err != nil {
		a.plugins.Close()
		return nil, err
	}
	a.store = store
	if err := history.LoadInto(a.history, store); err != nil {
		log.Error("failed to load history", zap.String("path", s.HistoryFile), zap.Error(err))
	} else {
		log.Debug("history loaded", zap.String("path", s.HistoryFile), zap.Int("records", a.history.Len()))
	}

	a.dispatcher = dispatch.New(a.ops, a.plugins, a.history)
	return a, nil
}

func (a *app) session(out io.Writer, interactive bool) *repl.Session {
	return repl.NewSession(repl.Config{
		Ops:         a.ops,
		Dispatcher:  a.dispatcher,
		Plugins:     a.plugins,
		History:     a.history,
		Store:       a.store,
		Autosave:    a.settings.HistoryAutosave,
		Out:         out,
		Log:         a.log,
		Interactive: interactive,
	})
}

func (a *app) Close() error {
	err := errors.Join(a.store.Close(), a.plugins.Close())
	_ = a.log.Sync()
	if err != nil {
		return fmt.Errorf("closing: %w", err)
	}
	return nil
}

// isInteractive reports whether r is a terminal.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
