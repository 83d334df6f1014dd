package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/calcx/internal/branding"
	"github.com/agentx-labs/calcx/internal/config"
)

func init() {
	configCmd.AddCommand(configSetCmd, configGetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write ` + branding.DisplayName() + ` configuration stored at ~/.` + branding.CLIName() + `/config.yaml.

Keys:
  plugins.dir        directory scanned for plugins
  history.file       history file path
  history.backend    csv, sqlite or bolt
  history.autosave   save history after every change (true/false)
  log.level          debug, info, warn or error

Every key can also be set through the environment, e.g. ` + branding.EnvVar("HISTORY_BACKEND") + `.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.FilePath())
		return nil
	},
}
