package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/api"
	"github.com/JanMyst/Chub-Search-Fixedv2/internal/models"
	"github.com/JanMyst/Chub-Search-Fixedv2/internal/ui"
)

var (
	searchNameLike    string
	searchLanguage    string
	searchTags        string
	searchExclude     string
	searchOr          bool
	searchMinTokens   string
	searchMaxTokens   string
	searchMinTags     string
	searchMinChatted  string
	searchMaxDaysAgo  string
	searchMinAIRating string
	searchSort        string
	searchAsc         bool
	searchPage        int
	searchFirst       int
	searchJSON        bool
)

// requirement flags; only passed through when set on the command line
var searchBoolFlags = []string{
	"nsfw", "nsfl", "nsfw-only",
	"require-images", "require-example-dialogues", "require-alternate-greetings",
	"require-custom-prompt", "require-expressions",
	"require-lore", "require-lore-embedded", "require-lore-linked",
	"recommended-verified", "include-forks",
}

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search the catalog once and print the results",
	Long: `Runs one search against the remote catalog and prints the normalized
results. Flags left at their defaults fall back to the persisted settings;
requirement flags only count as explicit when actually set on the command
line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchNameLike, "namelike", "", "filter by partial character name")
	f.StringVar(&searchLanguage, "language", "", "filter by language")
	f.StringVar(&searchTags, "tags", "", "comma-separated tags to include")
	f.StringVar(&searchExclude, "exclude-tags", "", "comma-separated tags to exclude")
	f.BoolVar(&searchOr, "or", false, "match any included tag instead of all")
	f.StringVar(&searchMinTokens, "min-tokens", "", "minimum token count")
	f.StringVar(&searchMaxTokens, "max-tokens", "", "maximum token count")
	f.StringVar(&searchMinTags, "min-tags", "", "minimum number of tags")
	f.StringVar(&searchMinChatted, "min-users-chatted", "", "minimum users chatted")
	f.StringVar(&searchMaxDaysAgo, "max-days-ago", "", "only cards active within N days")
	f.StringVar(&searchMinAIRating, "min-ai-rating", "", "minimum AI rating")
	f.StringVar(&searchSort, "sort", "", "sort field (default: download_count)")
	f.BoolVar(&searchAsc, "asc", false, "sort ascending")
	f.IntVar(&searchPage, "page", 1, "page number")
	f.IntVarP(&searchFirst, "first", "n", 0, "results per page (default: persisted find_count)")
	f.BoolVar(&searchJSON, "json", false, "output results as JSON")

	for _, name := range searchBoolFlags {
		f.Bool(name, false, "requirement flag: "+strings.ReplaceAll(name, "-", " "))
	}

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	raw := api.RawOptions{
		NameLike:        searchNameLike,
		Language:        searchLanguage,
		IncludeTags:     searchTags,
		ExcludeTags:     searchExclude,
		MinTokens:       searchMinTokens,
		MaxTokens:       searchMaxTokens,
		MinTags:         searchMinTags,
		MinUsersChatted: searchMinChatted,
		MaxDaysAgo:      searchMaxDaysAgo,
		MinAIRating:     searchMinAIRating,
		SortField:       searchSort,
		PageSize:        searchFirst,
		PageNumber:      searchPage,
	}
	if len(args) > 0 {
		raw.SearchTerm = args[0]
	}
	if cmd.Flags().Changed("or") {
		raw.InclusiveOr = &searchOr
	}
	if cmd.Flags().Changed("asc") {
		raw.SortAscending = &searchAsc
	}
	applyBoolFlags(cmd, &raw)

	notifier := ui.NewLogNotifier(appLogger)
	session := ui.NewSearchSession(notifier)
	gen := session.Begin()

	var records []models.Character
	var searchErr error
	start := time.Now()
	err := spinner.New().
		Title("Searching the catalog...").
		Action(func() {
			records, searchErr = appClient.SearchCharacters(context.Background(), raw)
		}).
		Run()
	if err != nil {
		return fmt.Errorf("spinner failed: %w", err)
	}
	elapsed := time.Since(start)

	session.Apply(gen, records, searchErr)

	if searchErr == nil && appDB != nil {
		opts := api.NormalizeOptions(raw, appStore)
		rec := models.SearchRecord{
			Term:        raw.SearchTerm,
			Query:       api.EncodeQuery(opts).Encode(),
			ResultCount: len(session.Characters),
			DurationMS:  elapsed.Milliseconds(),
		}
		if err := appDB.RecordSearch(rec); err != nil {
			appLogger.Warn("failed to record search history", "err", err)
		}
	}

	if searchJSON {
		return printJSON(cmd, session.Characters)
	}
	printCharacters(cmd, session.Characters)
	return nil
}

// applyBoolFlags copies each requirement flag into the raw options only
// when it was explicitly set, preserving the explicit > persisted > default
// resolution order.
func applyBoolFlags(cmd *cobra.Command, raw *api.RawOptions) {
	targets := map[string]**bool{
		"nsfw":                        &raw.NSFW,
		"nsfl":                        &raw.NSFL,
		"nsfw-only":                   &raw.NSFWOnly,
		"require-images":              &raw.RequireImages,
		"require-example-dialogues":   &raw.RequireExampleDialogues,
		"require-alternate-greetings": &raw.RequireAlternateGreetings,
		"require-custom-prompt":       &raw.RequireCustomPrompt,
		"require-expressions":         &raw.RequireExpressions,
		"require-lore":                &raw.RequireLore,
		"require-lore-embedded":       &raw.RequireLoreEmbedded,
		"require-lore-linked":         &raw.RequireLoreLinked,
		"recommended-verified":        &raw.RecommendedVerified,
		"include-forks":               &raw.IncludeForks,
	}
	for name, target := range targets {
		if cmd.Flags().Changed(name) {
			v, _ := cmd.Flags().GetBool(name)
			*target = &v
		}
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printCharacters(cmd *cobra.Command, records []models.Character) {
	if len(records) == 0 {
		cmd.Println("No results.")
		return
	}

	cmd.Printf("%d results:\n\n", len(records))
	for i, ch := range records {
		cmd.Printf("  [%d] %s (%s)\n", i+1, ch.Name, ch.FullPath)
		if ch.Rating > 0 || ch.Tokens > 0 {
			cmd.Printf("      rating %.1f | %d tokens | %d chats\n", ch.Rating, ch.Tokens, ch.ChatCount)
		}
		if len(ch.Tags) > 0 {
			cmd.Printf("      tags: %s\n", strings.Join(ch.Tags, ", "))
		}
		cmd.Printf("      %s\n\n", ch.Description)
	}
}
