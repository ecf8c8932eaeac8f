package api

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeResponse_EmptyShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty nodes list", `{"nodes": []}`},
		{"no nodes key", `{}`},
		{"nodes wrong type", `{"nodes": "nope"}`},
		{"not an object", `[1,2,3]`},
		{"not json", `<html>error</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, NormalizeResponse([]byte(tt.body)))
		})
	}
}

func TestNormalizeResponse_NestedDataNodes(t *testing.T) {
	body := `{"data": {"nodes": [{"fullPath": "alice/my-char"}]}}`
	records := NormalizeResponse([]byte(body))
	require.Len(t, records, 1)
	assert.Equal(t, "alice/my-char", records[0].FullPath)
}

func TestNormalizeResponse_FieldFallbacks(t *testing.T) {
	body := `{"nodes": [{"fullPath": "alice/my-char", "name": "X"}]}`
	records := NormalizeResponse([]byte(body))
	require.Len(t, records, 1)

	ch := records[0]
	assert.Equal(t, "X", ch.Name)
	assert.Equal(t, "alice", ch.Author)
	assert.Equal(t, "No description.", ch.Description)
	assert.Equal(t, PlaceholderImage, ch.ImageURL)
	assert.Empty(t, ch.Tags)
}

func TestNormalizeResponse_NameDefault(t *testing.T) {
	body := `{"nodes": [{"fullPath": "bob/thing"}]}`
	records := NormalizeResponse([]byte(body))
	require.Len(t, records, 1)
	assert.Equal(t, "Unnamed Character", records[0].Name)
}

func TestNormalizeResponse_ImageFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		node string
		want string
	}{
		{"avatar_url preferred", `{"fullPath": "a/b", "avatar_url": "https://x/1.png", "avatar": "https://x/2.png"}`, "https://x/1.png"},
		{"avatar fallback", `{"fullPath": "a/b", "avatar": "https://x/2.png"}`, "https://x/2.png"},
		{"placeholder last", `{"fullPath": "a/b"}`, PlaceholderImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := NormalizeResponse([]byte(`{"nodes": [` + tt.node + `]}`))
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].ImageURL)
		})
	}
}

func TestNormalizeResponse_AuthorDerivation(t *testing.T) {
	tests := []struct {
		fullPath string
		want     string
	}{
		{"alice/my-char", "alice"},
		{"bob/deep/path", "bob"},
		{"loner", "loner"},
	}

	for _, tt := range tests {
		t.Run(tt.fullPath, func(t *testing.T) {
			records := NormalizeResponse([]byte(fmt.Sprintf(`{"nodes": [{"fullPath": %q}]}`, tt.fullPath)))
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].Author)
		})
	}
}

func TestNormalizeResponse_SkipsNodesWithoutIdentity(t *testing.T) {
	body := `{"nodes": [{"name": "no path"}, {"fullPath": ""}, {"fullPath": "kept/one"}, 42]}`
	records := NormalizeResponse([]byte(body))
	require.Len(t, records, 1)
	assert.Equal(t, "kept/one", records[0].FullPath)
}

func TestNormalizeResponse_OrderPreserved(t *testing.T) {
	nodes := make([]map[string]any, 10)
	for i := range nodes {
		nodes[i] = map[string]any{"fullPath": fmt.Sprintf("author%d/char%d", i, i)}
	}
	body, err := json.Marshal(map[string]any{"nodes": nodes})
	require.NoError(t, err)

	records := NormalizeResponse(body)
	require.Len(t, records, 10)
	for i, ch := range records {
		assert.Equal(t, fmt.Sprintf("author%d/char%d", i, i), ch.FullPath)
	}
}

func TestNormalizeResponse_ExtrasAndTags(t *testing.T) {
	body := `{"nodes": [{
		"fullPath": "alice/my-char",
		"tagline": "a tagline",
		"topics": ["fantasy", "elf", 7],
		"rating": 4.5,
		"n_tokens": 1200,
		"n_chats": 88
	}]}`
	records := NormalizeResponse([]byte(body))
	require.Len(t, records, 1)

	ch := records[0]
	assert.Equal(t, "a tagline", ch.Description)
	assert.Equal(t, []string{"fantasy", "elf"}, ch.Tags)
	assert.Equal(t, 4.5, ch.Rating)
	assert.Equal(t, 1200, ch.Tokens)
	assert.Equal(t, 88, ch.ChatCount)
}
