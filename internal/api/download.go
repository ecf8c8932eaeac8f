package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
)

const (
	primaryImportPath = "/api/content/importURL"
	legacyImportPath  = "/import_custom"

	contentKindHeader = "X-Custom-Content-Type"
	dispositionHeader = "Content-Disposition"
)

// ContentKind discriminates what a download payload contains.
type ContentKind string

const (
	KindCharacter ContentKind = "character"
	KindLorebook  ContentKind = "lorebook"
	KindUnknown   ContentKind = "unknown"
)

// knownKinds maps header discriminator values onto content kinds. New kinds
// slot in here without touching the download flow.
var knownKinds = map[string]ContentKind{
	"character": KindCharacter,
	"lorebook":  KindLorebook,
}

// KindFromHeader resolves a discriminator header value to a ContentKind.
func KindFromHeader(value string) ContentKind {
	if kind, ok := knownKinds[value]; ok {
		return kind
	}
	return KindUnknown
}

// ImportFile is a downloaded payload ready for ingestion.
type ImportFile struct {
	Name string
	Kind ContentKind
	Data []byte
}

// ImportUnavailableError reports that both import endpoints failed. PageURL
// points at the catalog page for the identifier so the user can fall back
// to a manual download.
type ImportUnavailableError struct {
	FullPath string
	PageURL  string
	Primary  error
	Fallback error
}

func (e *ImportUnavailableError) Error() string {
	return fmt.Sprintf("both import endpoints failed for %s (primary: %v, fallback: %v)",
		e.FullPath, e.Primary, e.Fallback)
}

// DownloadCharacter fetches a card by its fullPath. The primary import
// endpoint is tried first; on any failure the legacy path gets the same
// body. When both fail the caller receives *ImportUnavailableError carrying
// the manual-fallback page and nothing is retried further.
func (c *Client) DownloadCharacter(ctx context.Context, fullPath string) (*ImportFile, error) {
	body := fmt.Sprintf(`{"url":%q}`, fullPath)

	file, primaryErr := c.importRequest(ctx, c.importBase+primaryImportPath, body, fullPath)
	if primaryErr == nil {
		return file, nil
	}
	if c.logger != nil {
		c.logger.Warn("primary import endpoint failed, trying legacy path", "fullPath", fullPath, "err", primaryErr)
	}

	file, fallbackErr := c.importRequest(ctx, c.importBase+legacyImportPath, body, fullPath)
	if fallbackErr == nil {
		return file, nil
	}

	return nil, &ImportUnavailableError{
		FullPath: fullPath,
		PageURL:  CatalogPageURL(fullPath),
		Primary:  primaryErr,
		Fallback: fallbackErr,
	}
}

func (c *Client) importRequest(ctx context.Context, endpoint, body, fullPath string) (*ImportFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range c.headers() {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("import request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{
			Code:    resp.StatusCode,
			Message: serverMessage(raw, resp.Header.Get("Content-Type"), resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read download body: %w", err)
	}

	return &ImportFile{
		Name: fileNameFromDisposition(resp.Header.Get(dispositionHeader), fullPath),
		Kind: KindFromHeader(resp.Header.Get(contentKindHeader)),
		Data: data,
	}, nil
}

// fileNameFromDisposition pulls the filename out of a Content-Disposition
// header, falling back to "<slug>.png" when the header is missing or
// unparseable.
func fileNameFromDisposition(disposition, fullPath string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}

	slug := fullPath
	for i := len(fullPath) - 1; i >= 0; i-- {
		if fullPath[i] == '/' {
			slug = fullPath[i+1:]
			break
		}
	}
	return slug + ".png"
}
