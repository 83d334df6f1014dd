package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute runs the root command in an isolated CALC_HOME and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("CALC_HOME", home)
	return home
}

func TestEval(t *testing.T) {
	home := setHome(t)

	out, err := execute(t, "", "eval", "add 2 3; sqrt 16")
	require.NoError(t, err)
	require.Equal(t, "Result: 5\nResult: 4\n", out)

	data, err := os.ReadFile(filepath.Join(home, "data", "history.csv"))
	require.NoError(t, err)
	require.Contains(t, string(data), "add,\"[2, 3]\",5,")
}

func TestEval_FailureSetsError(t *testing.T) {
	setHome(t)

	out, err := execute(t, "", "eval", "divide", "1", "0")
	require.ErrorContains(t, err, "1 command(s) failed")
	require.Contains(t, out, "Error: domain error: division by zero")
}

func TestREPL_FromStdin(t *testing.T) {
	setHome(t)

	out, err := execute(t, "add 1 1\nbogus\nexit\n")
	require.NoError(t, err)
	require.Contains(t, out, "Result: 2\n")
	require.Contains(t, out, "Error: unknown command: bogus\n")
	require.Contains(t, out, "Goodbye!")
	require.NotContains(t, out, "calc> ", "prompt is only shown on a terminal")
}

func TestPlugins_NewListInvoke(t *testing.T) {
	home := setHome(t)

	out, err := execute(t, "", "plugins", "new", "total", "--runtime", "lua")
	require.NoError(t, err)
	require.Contains(t, out, filepath.Join(home, "plugins", "total.lua"))

	out, err = execute(t, "", "plugins", "list", "--json=false")
	require.NoError(t, err)
	require.Regexp(t, `total\s+lua\s+`, out)

	out, err = execute(t, "", "plugins", "check")
	require.NoError(t, err)
	require.Contains(t, out, "[ OK ] total (lua) total.lua")

	out, err = execute(t, "", "eval", "total", "1", "2")
	require.NoError(t, err)
	require.Equal(t, "Plugin 'total' result: 3\n", out)
}

func TestPlugins_CheckReportsFailures(t *testing.T) {
	home := setHome(t)
	dir := filepath.Join(home, "plugins")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.lua"), []byte("x = 1"), 0o644))

	out, err := execute(t, "", "plugins", "check")
	require.ErrorContains(t, err, "1 plugin(s) failed")
	require.Contains(t, out, "[FAIL] broken.lua")
}

func TestPlugins_CheckReportsShadowed(t *testing.T) {
	home := setHome(t)
	dir := filepath.Join(home, "plugins")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for file, result := range map[string]string{"a_first.lua": "1", "b_second.lua": "2"} {
		src := `function register() return { name = "pick", fn = function() return ` + result + ` end } end`
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(src), 0o644))
	}

	out, err := execute(t, "", "plugins", "check")
	require.NoError(t, err)
	require.Contains(t, out, "[ OK ] pick (lua) b_second.lua")
	require.Contains(t, out, "[SKIP] pick (lua) a_first.lua: replaced by b_second.lua")
	require.NotContains(t, out, "[ OK ] pick (lua) a_first.lua")
}

func TestHistory_ShowAndClear(t *testing.T) {
	setHome(t)

	_, err := execute(t, "", "eval", "multiply 6 7")
	require.NoError(t, err)

	out, err := execute(t, "", "history", "show", "--json=false")
	require.NoError(t, err)
	require.Regexp(t, `0\s+multiply\s+\[6, 7\]\s+42`, out)

	out, err = execute(t, "", "history", "clear")
	require.NoError(t, err)
	require.Equal(t, "Cleared 1 record(s).\n", out)

	out, err = execute(t, "", "history", "show", "--json=false")
	require.NoError(t, err)
	require.Equal(t, "No history available.\n", out)
}

func TestDoctor_CheckManifest(t *testing.T) {
	home := setHome(t)
	good := filepath.Join(home, "good.plugin.yaml")
	bad := filepath.Join(home, "bad.plugin.yaml")
	require.NoError(t, os.WriteFile(good, []byte("name: good\nversion: 1.0.0\ncommand: [sh, run.sh]\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("name: Bad\ncommand: []\n"), 0o644))

	out, err := execute(t, "", "doctor", "--check-manifest", good)
	require.NoError(t, err)
	require.Contains(t, out, "[ OK ] Valid plugin manifest: good (1.0.0)")

	out, err = execute(t, "", "doctor", "--check-manifest", bad)
	require.Error(t, err)
	require.Contains(t, out, "[FAIL]")
}

func TestVersion(t *testing.T) {
	buildVersion = "1.2.3"
	out, err := execute(t, "", "version", "--short")
	require.NoError(t, err)
	require.Equal(t, "1.2.3\n", out)
}
