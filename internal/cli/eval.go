package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <command> [args...]",
	Short: "Evaluate commands without starting the prompt",
	Long: `Evaluate one line of calculator input and exit. Separate several commands
with ';' (quote the line in your shell):

  calc eval add 2 3
  calc eval "mean 1 2 3; sqrt 16"

Results of built-in operations are added to the history. The exit status is
non-zero when any command fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	s := a.session(cmd.OutOrStdout(), false)
	s.ExecLine(cmd.Context(), strings.Join(args, " "))
	if err := s.Flush(); err != nil {
		return err
	}
	if n := s.Failed(); n > 0 {
		return fmt.Errorf("%d command(s) failed", n)
	}
	return nil
}
