package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/api"
	"github.com/JanMyst/Chub-Search-Fixedv2/internal/settings"
)

// flag identifiers for the requirement multi-select
const (
	flagNSFW         = "nsfw"
	flagNSFL         = "nsfl"
	flagNSFWOnly     = "nsfw_only"
	flagImages       = "require_images"
	flagDialogues    = "require_example_dialogues"
	flagGreetings    = "require_alternate_greetings"
	flagPrompt       = "require_custom_prompt"
	flagExpressions  = "require_expressions"
	flagLore         = "require_lore"
	flagLoreEmbedded = "require_lore_embedded"
	flagLoreLinked   = "require_lore_linked"
	flagVerified     = "recommended_verified"
	flagForks        = "include_forks"
)

// RunFilterForm presents the search-filter form pre-filled from the current
// raw options (falling back to persisted settings for untouched flags) and
// returns the updated options. Everything the form emits is explicit, which
// makes it the top of the explicit > persisted > default resolution chain.
// The second return is false when the user cancelled.
func RunFilterForm(current api.RawOptions, st *settings.Store) (api.RawOptions, bool, error) {
	raw := current

	selected := selectedFlags(current, st)
	inclusiveOr := resolveBool(current.InclusiveOr, false)
	asc := resolveBool(current.SortAscending, st.Bool("asc"))

	sortField := current.SortField
	if sortField == "" {
		sortField = st.String("sort")
	}
	if sortField == "" {
		sortField = api.DefaultSortField
	}

	pageSize := strconv.Itoa(current.PageSize)
	if current.PageSize <= 0 {
		pageSize = strconv.Itoa(st.Int("find_count"))
	}

	sortOptions := make([]huh.Option[string], len(api.SortFields))
	for i, f := range api.SortFields {
		sortOptions[i] = huh.NewOption(f, f)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name contains").
				Placeholder("partial character name").
				Value(&raw.NameLike),
			huh.NewInput().
				Title("Language").
				Placeholder("e.g. english").
				Value(&raw.Language),
			huh.NewInput().
				Title("Include tags").
				Description("Comma-separated; order preserved").
				Placeholder("fantasy, elf").
				Value(&raw.IncludeTags),
			huh.NewInput().
				Title("Exclude tags").
				Placeholder("horror").
				Value(&raw.ExcludeTags),
			huh.NewConfirm().
				Title("Match any included tag (OR)?").
				Affirmative("Any (OR)").
				Negative("All (AND)").
				Value(&inclusiveOr),
		),
		huh.NewGroup(
			huh.NewInput().Title("Min tokens").Validate(validateCount).Value(&raw.MinTokens),
			huh.NewInput().Title("Max tokens").Validate(validateCount).Value(&raw.MaxTokens),
			huh.NewInput().Title("Min tags").Validate(validateCount).Value(&raw.MinTags),
			huh.NewInput().Title("Min users chatted").Validate(validateCount).Value(&raw.MinUsersChatted),
			huh.NewInput().Title("Max days ago").Validate(validateCount).Value(&raw.MaxDaysAgo),
			huh.NewInput().Title("Min AI rating").Validate(validateCount).Value(&raw.MinAIRating),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Requirements").
				Options(
					huh.NewOption("NSFW", flagNSFW),
					huh.NewOption("NSFL", flagNSFL),
					huh.NewOption("NSFW only", flagNSFWOnly),
					huh.NewOption("Has images", flagImages),
					huh.NewOption("Has example dialogues", flagDialogues),
					huh.NewOption("Has alternate greetings", flagGreetings),
					huh.NewOption("Has custom prompt", flagPrompt),
					huh.NewOption("Has expressions", flagExpressions),
					huh.NewOption("Has lore", flagLore),
					huh.NewOption("Has embedded lorebook", flagLoreEmbedded),
					huh.NewOption("Has linked lorebook", flagLoreLinked),
					huh.NewOption("Verified/recommended", flagVerified),
					huh.NewOption("Include forks", flagForks),
				).
				Value(&selected),
			huh.NewSelect[string]().
				Title("Sort by").
				Options(sortOptions...).
				Value(&sortField),
			huh.NewConfirm().
				Title("Ascending order?").
				Value(&asc),
			huh.NewInput().
				Title("Results per page").
				Validate(validateCount).
				Value(&pageSize),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return current, false, nil
		}
		return current, false, fmt.Errorf("filter form failed: %w", err)
	}

	raw.InclusiveOr = &inclusiveOr
	raw.SortAscending = &asc
	raw.SortField = sortField
	if n, err := strconv.Atoi(strings.TrimSpace(pageSize)); err == nil && n > 0 {
		raw.PageSize = n
	}
	applyFlags(&raw, selected)

	return raw, true, nil
}

// ConfirmDelete asks whether to remove one imported card.
func ConfirmDelete(name string) (bool, error) {
	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q from the library?", name)).
				Description("Removes both the file and the index entry").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirm),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return false, nil
		}
		return false, err
	}
	return confirm, nil
}

func validateCount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("enter a non-negative number or leave empty")
	}
	return nil
}

func resolveBool(explicit *bool, fallback bool) bool {
	if explicit != nil {
		return *explicit
	}
	return fallback
}

// selectedFlags resolves the initial multi-select state from explicit raw
// values, then the settings store.
func selectedFlags(raw api.RawOptions, st *settings.Store) []string {
	entries := []struct {
		id    string
		value *bool
	}{
		{flagNSFW, raw.NSFW},
		{flagNSFL, raw.NSFL},
		{flagNSFWOnly, raw.NSFWOnly},
		{flagImages, raw.RequireImages},
		{flagDialogues, raw.RequireExampleDialogues},
		{flagGreetings, raw.RequireAlternateGreetings},
		{flagPrompt, raw.RequireCustomPrompt},
		{flagExpressions, raw.RequireExpressions},
		{flagLore, raw.RequireLore},
		{flagLoreEmbedded, raw.RequireLoreEmbedded},
		{flagLoreLinked, raw.RequireLoreLinked},
		{flagVerified, raw.RecommendedVerified},
		{flagForks, raw.IncludeForks},
	}

	var selected []string
	for _, e := range entries {
		if resolveBool(e.value, st.Bool(e.id)) {
			selected = append(selected, e.id)
		}
	}
	return selected
}

// applyFlags turns the multi-select result back into explicit booleans:
// present means true, absent means false. Nothing stays tri-state after
// the form.
func applyFlags(raw *api.RawOptions, selected []string) {
	on := make(map[string]bool, len(selected))
	for _, id := range selected {
		on[id] = true
	}
	set := func(id string) *bool {
		v := on[id]
		return &v
	}
	raw.NSFW = set(flagNSFW)
	raw.NSFL = set(flagNSFL)
	raw.NSFWOnly = set(flagNSFWOnly)
	raw.RequireImages = set(flagImages)
	raw.RequireExampleDialogues = set(flagDialogues)
	raw.RequireAlternateGreetings = set(flagGreetings)
	raw.RequireCustomPrompt = set(flagPrompt)
	raw.RequireExpressions = set(flagExpressions)
	raw.RequireLore = set(flagLore)
	raw.RequireLoreEmbedded = set(flagLoreEmbedded)
	raw.RequireLoreLinked = set(flagLoreLinked)
	raw.RecommendedVerified = set(flagVerified)
	raw.IncludeForks = set(flagForks)
}
