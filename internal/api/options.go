package api

import (
	"strconv"
	"strings"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/settings"
)

// DefaultPageSize is used when neither the caller nor the settings store
// supplies a result count.
const DefaultPageSize = 30

// DefaultSortField orders results when no explicit sort is requested.
const DefaultSortField = "download_count"

// SortFields lists the sort keys the catalog accepts.
var SortFields = []string{
	"download_count",
	"rating",
	"rating_count",
	"n_favorites",
	"trending_downloads",
	"last_activity_at",
	"created_at",
	"name",
	"n_tokens",
	"random",
}

// RawOptions is the loosely-typed search input as collected from a form,
// command-line flags, or keystrokes. Numeric filters arrive as raw strings
// and may hold garbage; boolean flags are nil when not explicitly supplied.
type RawOptions struct {
	SearchTerm string
	NameLike   string
	Language   string

	IncludeTags string // free-text comma list
	ExcludeTags string
	InclusiveOr *bool

	MinTokens       string
	MaxTokens       string
	MinTags         string
	MinUsersChatted string
	MaxDaysAgo      string
	MinAIRating     string

	NSFW                      *bool
	NSFL                      *bool
	NSFWOnly                  *bool
	RequireImages             *bool
	RequireExampleDialogues   *bool
	RequireAlternateGreetings *bool
	RequireCustomPrompt       *bool
	RequireExpressions        *bool
	RequireLore               *bool
	RequireLoreEmbedded       *bool
	RequireLoreLinked         *bool
	RecommendedVerified       *bool
	IncludeForks              *bool

	SortField     string
	SortAscending *bool
	PageSize      int // 0 = absent
	PageNumber    int // 0 = absent
}

// SearchOptions is the canonical, fully-resolved form of a search request.
// Every boolean flag holds a concrete value and every numeric filter is
// either a resolved integer or an explicit nil ("not sent").
type SearchOptions struct {
	SearchTerm string
	NameLike   string
	Language   string

	IncludeTags []string
	ExcludeTags []string
	InclusiveOr bool

	MinTokens       *int
	MaxTokens       *int
	MinTags         *int
	MinUsersChatted *int
	MaxDaysAgo      *int
	MinAIRating     *int

	NSFW                      bool
	NSFL                      bool
	NSFWOnly                  bool
	RequireImages             bool
	RequireExampleDialogues   bool
	RequireAlternateGreetings bool
	RequireCustomPrompt       bool
	RequireExpressions        bool
	RequireLore               bool
	RequireLoreEmbedded       bool
	RequireLoreLinked         bool
	RecommendedVerified       bool
	IncludeForks              bool

	SortField     string
	SortAscending bool
	PageSize      int
	PageNumber    int
}

// boolOption declares one requirement flag: where it lives in the settings
// store, which query key carries it, and how to reach it on both option
// shapes. Normalization, encoding, and the settings write-back all walk
// this table, so there is exactly one place a key name can go wrong.
type boolOption struct {
	SettingsKey string
	QueryKey    string
	raw         func(RawOptions) *bool
	get         func(SearchOptions) bool
	set         func(*SearchOptions, bool)
}

var boolOptions = []boolOption{
	{"nsfw", "nsfw",
		func(r RawOptions) *bool { return r.NSFW },
		func(o SearchOptions) bool { return o.NSFW },
		func(o *SearchOptions, v bool) { o.NSFW = v }},
	{"nsfl", "nsfl",
		func(r RawOptions) *bool { return r.NSFL },
		func(o SearchOptions) bool { return o.NSFL },
		func(o *SearchOptions, v bool) { o.NSFL = v }},
	{"nsfw_only", "nsfw_only",
		func(r RawOptions) *bool { return r.NSFWOnly },
		func(o SearchOptions) bool { return o.NSFWOnly },
		func(o *SearchOptions, v bool) { o.NSFWOnly = v }},
	{"require_images", "require_images",
		func(r RawOptions) *bool { return r.RequireImages },
		func(o SearchOptions) bool { return o.RequireImages },
		func(o *SearchOptions, v bool) { o.RequireImages = v }},
	{"require_example_dialogues", "require_example_dialogues",
		func(r RawOptions) *bool { return r.RequireExampleDialogues },
		func(o SearchOptions) bool { return o.RequireExampleDialogues },
		func(o *SearchOptions, v bool) { o.RequireExampleDialogues = v }},
	{"require_alternate_greetings", "require_alternate_greetings",
		func(r RawOptions) *bool { return r.RequireAlternateGreetings },
		func(o SearchOptions) bool { return o.RequireAlternateGreetings },
		func(o *SearchOptions, v bool) { o.RequireAlternateGreetings = v }},
	{"require_custom_prompt", "require_custom_prompt",
		func(r RawOptions) *bool { return r.RequireCustomPrompt },
		func(o SearchOptions) bool { return o.RequireCustomPrompt },
		func(o *SearchOptions, v bool) { o.RequireCustomPrompt = v }},
	{"require_expressions", "require_expressions",
		func(r RawOptions) *bool { return r.RequireExpressions },
		func(o SearchOptions) bool { return o.RequireExpressions },
		func(o *SearchOptions, v bool) { o.RequireExpressions = v }},
	{"require_lore", "require_lore",
		func(r RawOptions) *bool { return r.RequireLore },
		func(o SearchOptions) bool { return o.RequireLore },
		func(o *SearchOptions, v bool) { o.RequireLore = v }},
	{"require_lore_embedded", "require_lore_embedded",
		func(r RawOptions) *bool { return r.RequireLoreEmbedded },
		func(o SearchOptions) bool { return o.RequireLoreEmbedded },
		func(o *SearchOptions, v bool) { o.RequireLoreEmbedded = v }},
	{"require_lore_linked", "require_lore_linked",
		func(r RawOptions) *bool { return r.RequireLoreLinked },
		func(o SearchOptions) bool { return o.RequireLoreLinked },
		func(o *SearchOptions, v bool) { o.RequireLoreLinked = v }},
	{"recommended_verified", "recommended_verified",
		func(r RawOptions) *bool { return r.RecommendedVerified },
		func(o SearchOptions) bool { return o.RecommendedVerified },
		func(o *SearchOptions, v bool) { o.RecommendedVerified = v }},
	{"include_forks", "include_forks",
		func(r RawOptions) *bool { return r.IncludeForks },
		func(o SearchOptions) bool { return o.IncludeForks },
		func(o *SearchOptions, v bool) { o.IncludeForks = v }},
}

// intOption declares one numeric filter and its query key.
type intOption struct {
	QueryKey string
	raw      func(RawOptions) string
	get      func(SearchOptions) *int
	set      func(*SearchOptions, *int)
}

var intOptions = []intOption{
	{"min_tokens",
		func(r RawOptions) string { return r.MinTokens },
		func(o SearchOptions) *int { return o.MinTokens },
		func(o *SearchOptions, v *int) { o.MinTokens = v }},
	{"max_tokens",
		func(r RawOptions) string { return r.MaxTokens },
		func(o SearchOptions) *int { return o.MaxTokens },
		func(o *SearchOptions, v *int) { o.MaxTokens = v }},
	{"min_tags",
		func(r RawOptions) string { return r.MinTags },
		func(o SearchOptions) *int { return o.MinTags },
		func(o *SearchOptions, v *int) { o.MinTags = v }},
	{"min_users_chatted",
		func(r RawOptions) string { return r.MinUsersChatted },
		func(o SearchOptions) *int { return o.MinUsersChatted },
		func(o *SearchOptions, v *int) { o.MinUsersChatted = v }},
	{"max_days_ago",
		func(r RawOptions) string { return r.MaxDaysAgo },
		func(o SearchOptions) *int { return o.MaxDaysAgo },
		func(o *SearchOptions, v *int) { o.MaxDaysAgo = v }},
	{"min_ai_rating",
		func(r RawOptions) string { return r.MinAIRating },
		func(o SearchOptions) *int { return o.MinAIRating },
		func(o *SearchOptions, v *int) { o.MinAIRating = v }},
}

// NormalizeOptions resolves raw input into canonical SearchOptions.
// Resolution order for boolean flags is explicit value > persisted setting;
// the store is pre-seeded with the built-in defaults, so the chain always
// terminates. The function is total: malformed input degrades to "field
// absent", never an error.
func NormalizeOptions(raw RawOptions, st *settings.Store) SearchOptions {
	opts := SearchOptions{
		SearchTerm: strings.TrimSpace(raw.SearchTerm),
		NameLike:   strings.TrimSpace(raw.NameLike),
		Language:   strings.TrimSpace(raw.Language),
	}

	opts.IncludeTags = SplitTags(raw.IncludeTags)
	opts.ExcludeTags = SplitTags(raw.ExcludeTags)
	if raw.InclusiveOr != nil {
		opts.InclusiveOr = *raw.InclusiveOr
	}

	for _, bo := range boolOptions {
		if v := bo.raw(raw); v != nil {
			bo.set(&opts, *v)
		} else {
			bo.set(&opts, st.Bool(bo.SettingsKey))
		}
	}

	for _, io := range intOptions {
		io.set(&opts, parseFilterInt(io.raw(raw)))
	}

	opts.SortField = raw.SortField
	if !validSortField(opts.SortField) {
		opts.SortField = DefaultSortField
	}
	if raw.SortAscending != nil {
		opts.SortAscending = *raw.SortAscending
	} else {
		opts.SortAscending = st.Bool("asc")
	}

	switch {
	case raw.PageSize > 0:
		opts.PageSize = raw.PageSize
	case st.Int("find_count") > 0:
		opts.PageSize = st.Int("find_count")
	default:
		opts.PageSize = DefaultPageSize
	}

	opts.PageNumber = raw.PageNumber
	if opts.PageNumber < 1 {
		opts.PageNumber = 1
	}

	return opts
}

// SplitTags splits a free-text comma list into trimmed, non-empty segments.
// Order is preserved and duplicates are kept.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// parseFilterInt parses a numeric filter string. Empty input, garbage, or
// a negative value all read as absent, never as zero.
func parseFilterInt(raw string) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

func validSortField(field string) bool {
	for _, f := range SortFields {
		if f == field {
			return true
		}
	}
	return false
}

// StorePreferences writes the effective preferences of a resolved search back
// to the settings store in one batch. The caller decides when to Save.
func StorePreferences(st *settings.Store, opts SearchOptions) {
	values := make(map[string]any, len(boolOptions)+3)
	for _, bo := range boolOptions {
		values[bo.SettingsKey] = bo.get(opts)
	}
	values["find_count"] = opts.PageSize
	values["sort"] = opts.SortField
	values["asc"] = opts.SortAscending
	st.Apply(values)
}
