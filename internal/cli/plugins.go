package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentx-labs/calcx/internal/config"
	"github.com/agentx-labs/calcx/internal/logging"
	"github.com/agentx-labs/calcx/internal/plugin"
	"github.com/agentx-labs/calcx/internal/runtime"
	"github.com/agentx-labs/calcx/internal/scaffold"
)

var (
	pluginsListJSON bool
	pluginsNewRT    string
)

func init() {
	pluginsListCmd.Flags().BoolVar(&pluginsListJSON, "json", false, "Output in JSON format")
	pluginsNewCmd.Flags().StringVar(&pluginsNewRT, "runtime", runtime.RuntimeLua, "Plugin runtime: lua or exec")
	pluginsCmd.AddCommand(pluginsListCmd, pluginsCheckCmd, pluginsNewCmd)
	rootCmd.AddCommand(pluginsCmd)
}

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Manage plugin commands",
	Long: `Plugins add commands to the calculator. They live in the plugin directory
(plugins.dir, default ~/.calc/plugins) as either:

  <name>.lua           a Lua script defining register()
  <name>.plugin.yaml   a manifest describing an external executable`,
}

// pluginRow represents a loaded plugin for display.
type pluginRow struct {
	Name    string `json:"name"`
	Runtime string `json:"runtime"`
	Path    string `json:"path"`
}

var pluginsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded plugin commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := config.Current()
		loader := plugin.NewLoader(logging.New(s.LogLevel, cmd.ErrOrStderr()))
		defer loader.Close()

		if _, err := loader.LoadAll(cmd.Context(), s.PluginsDir); err != nil {
			return err
		}

		rows := []pluginRow{}
		for _, e := range loader.Entries() {
			rows = append(rows, pluginRow{Name: e.Name, Runtime: e.Runtime, Path: e.Path})
		}

		out := cmd.OutOrStdout()
		if pluginsListJSON {
			data, err := json.MarshalIndent(rows, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling plugins: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if len(rows) == 0 {
			fmt.Fprintf(out, "No plugins found in %s\n", s.PluginsDir)
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tRUNTIME\tPATH")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.Runtime, r.Path)
		}
		return w.Flush()
	},
}

var pluginsCheckCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Load every plugin and report failures",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := config.Current().PluginsDir
		if len(args) == 1 {
			dir = config.ExpandPath(args[0])
		}
		// Failures are reported below; keep the logger quiet.
		loader := plugin.NewLoader(zap.NewNop())
		defer loader.Close()

		report, err := loader.LoadAll(cmd.Context(), dir)
		if err != nil {
			return err
		}
		printPluginReport(cmd.OutOrStdout(), report)
		if n := len(report.Failed); n > 0 {
			return fmt.Errorf("%d plugin(s) failed to load", n)
		}
		return nil
	},
}

var pluginsNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a plugin from a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := config.Current().PluginsDir
		res, err := scaffold.Generate(scaffold.NewData(args[0], pluginsNewRT), dir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created %s plugin %q in %s\n", pluginsNewRT, args[0], res.OutputDir)
		for _, f := range res.Files {
			fmt.Fprintf(out, "  %s\n", filepath.Join(res.OutputDir, f))
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  [WARN] %s\n", w)
		}
		return nil
	},
}

func printPluginReport(out io.Writer, report *plugin.Report) {
	fmt.Fprintf(out, "Plugins in %s:\n", report.Dir)
	if _, err := os.Stat(report.Dir); err != nil {
		fmt.Fprintf(out, "  [MISS] directory does not exist\n")
		return
	}
	if len(report.Loaded)+len(report.Shadowed)+len(report.Failed) == 0 {
		fmt.Fprintf(out, "  [INFO] no plugin files\n")
	}
	for _, e := range report.Loaded {
		fmt.Fprintf(out, "  [ OK ] %s (%s) %s\n", e.Name, e.Runtime, filepath.Base(e.Path))
	}
	for _, sh := range report.Shadowed {
		fmt.Fprintf(out, "  [SKIP] %s (%s) %s: replaced by %s\n", sh.Name, sh.Runtime, filepath.Base(sh.Path), filepath.Base(sh.By))
	}
	for _, f := range report.Failed {
		fmt.Fprintf(out, "  [FAIL] %s: %v\n", filepath.Base(f.Path), f.Err)
	}
}
