package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentx-labs/calcx/internal/branding"
	"github.com/agentx-labs/calcx/internal/config"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` is a command-line calculator with arithmetic and statistics
operations, a persistent calculation history and plugin commands written in Lua
or as external executables.

Run without arguments to start the interactive prompt.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
	RunE: runREPL,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("plugins-dir", "", "Directory to load plugins from (default ~/."+branding.CLIName()+"/plugins)")
	pf.String("history-file", "", "History file path")
	pf.String("history-backend", "", "History storage backend: csv, sqlite or bolt")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	_ = viper.BindPFlag(config.KeyPluginsDir, pf.Lookup("plugins-dir"))
	_ = viper.BindPFlag(config.KeyHistoryFile, pf.Lookup("history-file"))
	_ = viper.BindPFlag(config.KeyHistoryBackend, pf.Lookup("history-backend"))
	_ = viper.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.Execute()
	if err != nil {
		rootCmd.PrintErrln("Error:", err)
	}
	return err
}
