//go:build integration

package integration_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentx-labs/calcx/internal/history"
	"github.com/agentx-labs/calcx/internal/runtime"
	"github.com/agentx-labs/calcx/internal/scaffold"
)

// TestFullFlowHistoryPersists runs two sessions per backend and checks the
// second one sees the first one's records.
func TestFullFlowHistoryPersists(t *testing.T) {
	for _, backend := range history.Backends() {
		t.Run(backend, func(t *testing.T) {
			env := setupTestEnv(t)

			out := runSession(t, env, backend, "add 2 3; mean 1 2 3\nexit\n")
			assertContains(t, out, "Result: 5\n")
			assertContains(t, out, "Result: 2\n")
			assertContains(t, out, "History saved.\n")

			out = runSession(t, env, backend, "history\n")
			assertContains(t, out, "add")
			assertContains(t, out, "[1, 2, 3]")

			runSession(t, env, backend, "clear_history\n")
			out = runSession(t, env, backend, "history\n")
			assertContains(t, out, "No history available.")
		})
	}
}

// TestFullFlowScaffoldedPlugin creates a plugin with the scaffolder and
// calls it from a session.
func TestFullFlowScaffoldedPlugin(t *testing.T) {
	env := setupTestEnv(t)

	if _, err := scaffold.Generate(scaffold.NewData("total", runtime.RuntimeLua), env.PluginsDir); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	out := runSession(t, env, history.BackendCSV, "plugins\ntotal 1 2 3.5\ntotal a\n")
	assertContains(t, out, "Available plugin commands: total\n")
	assertContains(t, out, "Plugin 'total' result: 6.5\n")
	assertContains(t, out, "Error: ")
}

// TestFullFlowBrokenPluginsIsolated checks a broken plugin does not stop the
// others or the built-ins.
func TestFullFlowBrokenPluginsIsolated(t *testing.T) {
	env := setupTestEnv(t)
	writeFile(t, filepath.Join(env.PluginsDir, "broken.lua"), "function register(")
	writeFile(t, filepath.Join(env.PluginsDir, "add.lua"),
		`function register() return { name = "add", fn = function() return "plugin" end } end`)
	writeFile(t, filepath.Join(env.PluginsDir, "double.lua"),
		`function register() return { name = "double", fn = function(x) return x * 2 end } end`)

	out := runSession(t, env, history.BackendCSV, "double 5; add 2 2\nhistory\n")
	assertContains(t, out, "Plugin 'double' result: 10\n")
	assertContains(t, out, "Result: 4\n")
	if strings.Contains(out, "Plugin 'add'") {
		t.Errorf("plugin shadowed built-in add:\n%s", out)
	}
	if strings.Count(out, "double") != 1 {
		t.Errorf("plugin call was recorded in history:\n%s", out)
	}
}
