package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDownloadClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	t.Setenv("IMPORT_BASE_URL", serverURL)
	t.Setenv("IMPORT_AUTH_TOKEN", "test-token")
	return NewClient(nil, newTestStore(t))
}

func TestDownloadCharacter_Primary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, primaryImportPath, r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body map[string]string
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "alice/my-char", body["url"])

		w.Header().Set("X-Custom-Content-Type", "character")
		w.Header().Set("Content-Disposition", `attachment; filename="my-char.png"`)
		w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	client := newDownloadClient(t, server.URL)
	file, err := client.DownloadCharacter(context.Background(), "alice/my-char")
	require.NoError(t, err)

	assert.Equal(t, "my-char.png", file.Name)
	assert.Equal(t, KindCharacter, file.Kind)
	assert.Equal(t, []byte("png-bytes"), file.Data)
}

func TestDownloadCharacter_MultiValuedHeadersSurvive(t *testing.T) {
	var got []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Values("X-Extra")
		w.Header().Set("X-Custom-Content-Type", "character")
		w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	client := newDownloadClient(t, server.URL)
	client.SetHeaderProvider(func() http.Header {
		h := http.Header{}
		h.Add("X-Extra", "session=a")
		h.Add("X-Extra", "csrf=b")
		return h
	})

	_, err := client.DownloadCharacter(context.Background(), "alice/my-char")
	require.NoError(t, err)
	assert.Equal(t, []string{"session=a", "csrf=b"}, got)
}

func TestDownloadCharacter_FallsBackToLegacyPath(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == primaryImportPath {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("X-Custom-Content-Type", "lorebook")
		w.Write([]byte("book"))
	}))
	defer server.Close()

	client := newDownloadClient(t, server.URL)
	file, err := client.DownloadCharacter(context.Background(), "bob/tome")
	require.NoError(t, err)

	assert.Equal(t, []string{primaryImportPath, legacyImportPath}, paths)
	assert.Equal(t, KindLorebook, file.Kind)
	// no Content-Disposition: fall back to slug
	assert.Equal(t, "tome.png", file.Name)
}

func TestDownloadCharacter_BothEndpointsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newDownloadClient(t, server.URL)
	file, err := client.DownloadCharacter(context.Background(), "alice/my-char")
	require.Error(t, err)
	assert.Nil(t, file)

	var unavailable *ImportUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "alice/my-char", unavailable.FullPath)
	assert.Equal(t, "https://chub.ai/characters/alice/my-char", unavailable.PageURL)
	assert.Error(t, unavailable.Primary)
	assert.Error(t, unavailable.Fallback)
}

func TestKindFromHeader(t *testing.T) {
	tests := []struct {
		value string
		want  ContentKind
	}{
		{"character", KindCharacter},
		{"lorebook", KindLorebook},
		{"", KindUnknown},
		{"mystery-blob", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, KindFromHeader(tt.value))
		})
	}
}

func TestFileNameFromDisposition(t *testing.T) {
	tests := []struct {
		name        string
		disposition string
		fullPath    string
		want        string
	}{
		{"from header", `attachment; filename="card.png"`, "a/b", "card.png"},
		{"missing header", "", "alice/my-char", "my-char.png"},
		{"unparseable header", "%%%", "alice/my-char", "my-char.png"},
		{"no slash in path", "", "loner", "loner.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fileNameFromDisposition(tt.disposition, tt.fullPath))
		})
	}
}
