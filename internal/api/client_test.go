package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	t.Setenv("CHUB_SEARCH_URL", serverURL)
	return NewClient(nil, newTestStore(t))
}

func TestSearchCharacters_Success(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"nodes": [{"fullPath": "alice/my-char", "name": "X"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	records, err := client.SearchCharacters(context.Background(), RawOptions{
		SearchTerm: "dragon",
		PageNumber: 2,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alice/my-char", records[0].FullPath)

	assert.Contains(t, gotQuery, "search=dragon")
	assert.Contains(t, gotQuery, "page=2")
	assert.Contains(t, gotQuery, "first=30")
}

func TestSearchCharacters_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMessage string
	}{
		{"json message field", 400, "application/json", `{"message": "bad tag filter"}`, "bad tag filter"},
		{"json error field", 400, "application/json", `{"error": "nope"}`, "nope"},
		{"html error page", 503, "text/html", `<html><head><title>Service Unavailable</title></head></html>`, "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			records, err := client.SearchCharacters(context.Background(), RawOptions{})
			require.Error(t, err)
			assert.Empty(t, records)

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.Code)
			assert.Equal(t, tt.wantMessage, statusErr.Message)
		})
	}
}

func TestSearchCharacters_MissingNodesIsZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count": 0}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	records, err := client.SearchCharacters(context.Background(), RawOptions{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearchCharacters_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := newTestClient(t, server.URL)
	records, err := client.SearchCharacters(context.Background(), RawOptions{})
	require.Error(t, err)
	assert.Empty(t, records)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr), "transport failures should not be StatusError")
}

func TestSearchCharacters_PersistsEffectivePreferences(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"nodes": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.SearchCharacters(context.Background(), RawOptions{
		NSFW:     boolPtr(true),
		PageSize: 12,
	})
	require.NoError(t, err)

	assert.True(t, client.Settings().Bool("nsfw"))
	assert.Equal(t, 12, client.Settings().Int("find_count"))
}

func TestCatalogPageURL(t *testing.T) {
	assert.Equal(t, "https://chub.ai/characters/alice/my-char", CatalogPageURL("alice/my-char"))
}
