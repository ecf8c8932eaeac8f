package api

import (
	"net/url"
	"strconv"
	"strings"
)

// maxTagListLen caps a joined tag-list value after encoding-irrelevant
// trimming; the catalog rejects longer values.
const maxTagListLen = 500

// EncodeQuery maps canonical SearchOptions onto the flat key/value query the
// catalog expects. Pure function. Each key appears at most once and only
// when its source field is meaningful: empty strings and nil numerics are
// omitted, while resolved booleans are always sent — a false is never
// silently dropped. url.Values.Encode handles percent-encoding.
func EncodeQuery(opts SearchOptions) url.Values {
	q := url.Values{}

	setNonEmpty(q, "search", opts.SearchTerm)
	setNonEmpty(q, "namelike", opts.NameLike)
	setNonEmpty(q, "language", opts.Language)

	setNonEmpty(q, "tags", joinTags(opts.IncludeTags))
	setNonEmpty(q, "exclude_tags", joinTags(opts.ExcludeTags))
	q.Set("inclusive_or", strconv.FormatBool(opts.InclusiveOr))

	for _, io := range intOptions {
		if v := io.get(opts); v != nil {
			q.Set(io.QueryKey, strconv.Itoa(*v))
		}
	}

	for _, bo := range boolOptions {
		q.Set(bo.QueryKey, strconv.FormatBool(bo.get(opts)))
	}

	q.Set("sort", opts.SortField)
	q.Set("asc", strconv.FormatBool(opts.SortAscending))
	q.Set("first", strconv.Itoa(opts.PageSize))
	q.Set("page", strconv.Itoa(opts.PageNumber))

	return q
}

func setNonEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// joinTags comma-joins a tag list, truncating the result to the catalog's
// 500-character limit. Empty segments were already dropped at normalization.
func joinTags(tags []string) string {
	joined := strings.Join(tags, ",")
	if len(joined) > maxTagListLen {
		joined = joined[:maxTagListLen]
	}
	return joined
}
