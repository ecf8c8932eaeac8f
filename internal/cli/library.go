package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var libraryJSON bool

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List imported cards",
	RunE:  runLibrary,
}

func init() {
	libraryCmd.Flags().BoolVar(&libraryJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(libraryCmd)
}

func runLibrary(cmd *cobra.Command, args []string) error {
	cards, err := appDB.ListCharacters()
	if err != nil {
		return fmt.Errorf("failed to list library: %w", err)
	}

	if libraryJSON {
		return printJSON(cmd, cards)
	}

	if len(cards) == 0 {
		cmd.Println("The library is empty. Import cards with 'chub-search get' or the browse TUI.")
		return nil
	}

	cmd.Printf("%d imported cards:\n\n", len(cards))
	for _, card := range cards {
		cmd.Printf("  %s  (%s, %s)\n", card.FullPath, card.ContentKind, card.ImportedAt.Format("2006-01-02"))
		cmd.Printf("      %s by %s\n", card.Name, card.Author)
		if card.Tags != "" {
			cmd.Printf("      tags: %s\n", strings.ReplaceAll(card.Tags, ",", ", "))
		}
		cmd.Printf("      file: %s\n\n", card.FileName)
	}
	return nil
}
