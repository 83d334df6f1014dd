package cli

import (
	"github.com/spf13/cobra"
)

func runREPL(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	in := cmd.InOrStdin()
	return a.session(cmd.OutOrStdout(), isInteractive(in)).Run(cmd.Context(), in)
}
