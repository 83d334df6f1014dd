package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentx-labs/calcx/internal/config"
	"github.com/agentx-labs/calcx/internal/history"
)

var historyShowJSON bool

func init() {
	historyShowCmd.Flags().BoolVar(&historyShowJSON, "json", false, "Output in JSON format")
	historyCmd.AddCommand(historyShowCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the calculation history",
}

// openHistory loads the configured history store into a fresh log.
func openHistory() (*history.Log, history.Store, error) {
	s := config.Current()
	store, err := history.OpenStore(s.HistoryBackend, s.HistoryFile)
	if err != nil {
		return nil, nil, err
	}
	log := history.NewLog()
	if err := history.LoadInto(log, store); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("loading history from %s: %w", s.HistoryFile, err)
	}
	return log, store, nil
}

var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the calculation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		if historyShowJSON {
			records := log.Records()
			if records == nil {
				records = []history.Record{}
			}
			data, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		return log.Render(cmd.OutOrStdout())
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every history record",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		n := log.Len()
		log.Clear()
		if err := store.Save(log.Records()); err != nil {
			return fmt.Errorf("saving history: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d record(s).\n", n)
		return nil
	},
}
