package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	records, err := appDB.RecentSearches(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read search history: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No searches recorded yet.")
		return nil
	}

	for _, rec := range records {
		term := rec.Term
		if term == "" {
			term = "(no term)"
		}
		cmd.Printf("  %s  %-30s  %d results in %dms\n",
			rec.SearchedAt.Format("2006-01-02 15:04"), term, rec.ResultCount, rec.DurationMS)
	}
	return nil
}
