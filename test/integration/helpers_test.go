//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentx-labs/calcx/internal/dispatch"
	"github.com/agentx-labs/calcx/internal/history"
	"github.com/agentx-labs/calcx/internal/operation"
	"github.com/agentx-labs/calcx/internal/plugin"
	"github.com/agentx-labs/calcx/internal/repl"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // CALC_HOME
	PluginsDir string
	HistoryDir string
}

// setupTestEnv creates isolated temp directories and points CALC_HOME at
// them. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	home := t.TempDir()
	env := &testEnv{
		HomeDir:    home,
		PluginsDir: filepath.Join(home, "plugins"),
		HistoryDir: filepath.Join(home, "data"),
	}
	t.Setenv("CALC_HOME", env.HomeDir)

	for _, dir := range []string{env.PluginsDir, env.HistoryDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("creating %s: %v", dir, err)
		}
	}
	return env
}

// runSession wires the calculator the way the CLI does and feeds it input.
func runSession(t *testing.T, env *testEnv, backend, input string) string {
	t.Helper()
	ctx := context.Background()

	loader := plugin.NewLoader(nil)
	defer loader.Close()
	if _, err := loader.LoadAll(ctx, env.PluginsDir); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	store, err := history.OpenStore(backend, filepath.Join(env.HistoryDir, "history."+backend))
	if err != nil {
		t.Fatalf("OpenStore(%s): %v", backend, err)
	}
	defer store.Close()

	log := history.NewLog()
	if err := history.LoadInto(log, store); err != nil {
		t.Fatalf("LoadInto: %v", err)
	}

	ops := operation.Builtins()
	var out bytes.Buffer
	s := repl.NewSession(repl.Config{
		Ops:        ops,
		Dispatcher: dispatch.New(ops, loader, log),
		Plugins:    loader,
		History:    log,
		Store:      store,
		Out:        &out,
	})
	if err := s.Run(ctx, strings.NewReader(input)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertContains(t *testing.T, out, substr string) {
	t.Helper()
	if !strings.Contains(out, substr) {
		t.Errorf("output does not contain %q:\n%s", substr, out)
	}
}
