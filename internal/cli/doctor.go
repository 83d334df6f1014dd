package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentx-labs/calcx/internal/config"
	"github.com/agentx-labs/calcx/internal/history"
	"github.com/agentx-labs/calcx/internal/manifest"
	"github.com/agentx-labs/calcx/internal/plugin"
)

var (
	checkPlugins  bool
	checkHistory  bool
	checkManifest string
)

func init() {
	doctorCmd.Flags().BoolVar(&checkPlugins, "check-plugins", false, "Load every plugin and report failures")
	doctorCmd.Flags().BoolVar(&checkHistory, "check-history", false, "Verify the history store opens and loads")
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a plugin manifest file at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the calculator setup",
	Long:  `Run diagnostic checks on configuration, plugins and history storage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		anyFlag := checkPlugins || checkHistory || checkManifest != ""

		if !anyFlag {
			runAllChecks(cmd, out)
			return nil
		}
		if checkPlugins {
			if err := runPluginCheck(cmd, out); err != nil {
				return err
			}
		}
		if checkHistory {
			if err := runHistoryCheck(out); err != nil {
				return err
			}
		}
		if checkManifest != "" {
			if err := runManifestCheck(out, checkManifest); err != nil {
				return err
			}
		}
		return nil
	},
}

func runAllChecks(cmd *cobra.Command, out io.Writer) {
	runConfigCheck(out)
	runRuntimeCheck(out)
	if err := runPluginCheck(cmd, out); err != nil {
		fmt.Fprintf(out, "[WARN] Plugin check failed: %v\n", err)
	}
	if err := runHistoryCheck(out); err != nil {
		fmt.Fprintf(out, "[WARN] History check failed: %v\n", err)
	}
}

func runConfigCheck(out io.Writer) {
	fmt.Fprintln(out, "Config check:")
	path := config.FilePath()
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(out, "  [INFO] %s not found, using defaults\n", path)
		return
	}
	fmt.Fprintf(out, "  [ OK ] %s\n", path)
}

func runRuntimeCheck(out io.Writer) {
	fmt.Fprintln(out, "Runtime check:")
	fmt.Fprintln(out, "  [ OK ] lua runtime built in")
	path, err := exec.LookPath("sh")
	if err != nil {
		fmt.Fprintln(out, "  [MISS] sh not found (needed by scaffolded exec plugins)")
		return
	}
	fmt.Fprintf(out, "  [ OK ] sh found at %s\n", path)
}

func runPluginCheck(cmd *cobra.Command, out io.Writer) error {
	loader := plugin.NewLoader(zap.NewNop())
	defer loader.Close()

	report, err := loader.LoadAll(cmd.Context(), config.Current().PluginsDir)
	if err != nil {
		return err
	}
	printPluginReport(out, report)
	if n := len(report.Failed); n > 0 {
		return fmt.Errorf("%d plugin(s) failed to load", n)
	}
	return nil
}

func runHistoryCheck(out io.Writer) error {
	s := config.Current()
	fmt.Fprintf(out, "History check (%s):\n", s.HistoryBackend)

	store, err := history.OpenStore(s.HistoryBackend, s.HistoryFile)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return err
	}
	defer store.Close()

	records, err := store.Load()
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %s: %v\n", s.HistoryFile, err)
		return err
	}
	fmt.Fprintf(out, "  [ OK ] %s (%d records)\n", s.HistoryFile, len(records))
	return nil
}

func runManifestCheck(out io.Writer, path string) error {
	fmt.Fprintf(out, "Manifest validation: %s\n", path)

	result, err := manifest.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	if result.Valid {
		m, err := manifest.ParseFile(path)
		if err != nil {
			fmt.Fprintf(out, "  [FAIL] %v\n", err)
			return err
		}
		if err := m.CheckAPI(manifest.APIVersion); err != nil {
			fmt.Fprintf(out, "  [FAIL] %v\n", err)
			return err
		}
		version := m.Version
		if version == "" {
			version = "unversioned"
		}
		fmt.Fprintf(out, "  [ OK ] Valid plugin manifest: %s (%s)\n", m.Name, version)
		return nil
	}

	fmt.Fprintf(out, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "    - %s\n", issue)
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(result.Issues))
}
