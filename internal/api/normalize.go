package api

import (
	"encoding/json"
	"strings"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/models"
)

// Defaults applied when the catalog omits a field.
const (
	PlaceholderImage   = "img/placeholder.png"
	DefaultName        = "Unnamed Character"
	DefaultDescription = "No description."
	UnknownAuthor      = "Unknown Author"
)

// NormalizeResponse maps a raw catalog response body onto canonical
// character records. The node list may sit at the top level ("nodes") or
// nested under "data". A missing or empty list, or a body that is not a
// JSON object, yields an empty slice rather than an error — the shape of
// this API is partially inferred, so unexpected layouts read as zero
// results. Node order is preserved.
func NormalizeResponse(body []byte) []models.Character {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	nodes, ok := raw["nodes"].([]any)
	if !ok {
		if data, isMap := raw["data"].(map[string]any); isMap {
			nodes, ok = data["nodes"].([]any)
		}
	}
	if !ok || len(nodes) == 0 {
		return nil
	}

	records := make([]models.Character, 0, len(nodes))
	for _, item := range nodes {
		node, isMap := item.(map[string]any)
		if !isMap {
			continue
		}
		if ch, ok := normalizeNode(node); ok {
			records = append(records, ch)
		}
	}
	return records
}

// normalizeNode builds one canonical record. Nodes without a fullPath carry
// no identity and are skipped.
func normalizeNode(node map[string]any) (models.Character, bool) {
	fullPath := stringField(node, "fullPath")
	if fullPath == "" {
		return models.Character{}, false
	}

	ch := models.Character{
		FullPath:    fullPath,
		Name:        stringField(node, "name"),
		Description: stringField(node, "tagline"),
		Author:      authorFromPath(fullPath),
		Tags:        stringSliceField(node, "topics"),
		ImageURL:    stringField(node, "avatar_url"),
		Rating:      floatField(node, "rating"),
		Tokens:      intField(node, "n_tokens"),
		ChatCount:   intField(node, "n_chats"),
	}

	if ch.Name == "" {
		ch.Name = DefaultName
	}
	if ch.Description == "" {
		ch.Description = DefaultDescription
	}
	if ch.ImageURL == "" {
		ch.ImageURL = stringField(node, "avatar")
	}
	if ch.ImageURL == "" {
		ch.ImageURL = PlaceholderImage
	}
	return ch, true
}

// authorFromPath derives the author from the segment before the first '/'.
// The catalog has no reliable dedicated author field, so this derivation is
// the only source.
func authorFromPath(fullPath string) string {
	author := fullPath
	if idx := strings.Index(fullPath, "/"); idx >= 0 {
		author = fullPath[:idx]
	}
	if author == "" {
		return UnknownAuthor
	}
	return author
}

func stringField(node map[string]any, key string) string {
	s, _ := node[key].(string)
	return s
}

func floatField(node map[string]any, key string) float64 {
	f, _ := node[key].(float64)
	return f
}

func intField(node map[string]any, key string) int {
	// JSON numbers decode as float64
	f, _ := node[key].(float64)
	return int(f)
}

func stringSliceField(node map[string]any, key string) []string {
	items, ok := node[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, isStr := item.(string); isStr {
			out = append(out, s)
		}
	}
	return out
}
