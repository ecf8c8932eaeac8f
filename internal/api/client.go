package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/models"
	"github.com/JanMyst/Chub-Search-Fixedv2/internal/settings"
)

const (
	defaultSearchURL  = "https://api.chub.ai/search"
	defaultImportBase = "http://127.0.0.1:8000"
	catalogPageBase   = "https://chub.ai/characters"

	searchTimeout   = 30 * time.Second
	downloadTimeout = 120 * time.Second
)

// HeaderProvider supplies request headers for authenticated catalog calls.
// The client treats it as opaque.
type HeaderProvider func() http.Header

// EnvHeaderProvider assembles auth headers from the environment:
// IMPORT_AUTH_TOKEN becomes a bearer token, IMPORT_CSRF_TOKEN an
// X-CSRF-Token header.
func EnvHeaderProvider() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if token := os.Getenv("IMPORT_AUTH_TOKEN"); token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	if csrf := os.Getenv("IMPORT_CSRF_TOKEN"); csrf != "" {
		h.Set("X-CSRF-Token", csrf)
	}
	return h
}

// StatusError reports a non-2xx response from the catalog, carrying a
// best-effort server-supplied message.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog returned status %d: %s", e.Code, e.Message)
}

// Client talks to the remote character-card catalog.
type Client struct {
	searchURL      string
	importBase     string
	httpClient     *http.Client
	downloadClient *http.Client
	limiter        *rate.Limiter
	headers        HeaderProvider
	store          *settings.Store
	logger         *log.Logger
}

// NewClient creates a catalog client. Endpoints come from CHUB_SEARCH_URL
// and IMPORT_BASE_URL when set. The politeness limiter keeps the client at
// 2 requests per second against the catalog regardless of how fast the UI
// fires searches.
func NewClient(logger *log.Logger, st *settings.Store) *Client {
	searchURL := os.Getenv("CHUB_SEARCH_URL")
	if searchURL == "" {
		searchURL = defaultSearchURL
	}
	importBase := os.Getenv("IMPORT_BASE_URL")
	if importBase == "" {
		importBase = defaultImportBase
	}

	return &Client{
		searchURL:      searchURL,
		importBase:     strings.TrimRight(importBase, "/"),
		httpClient:     &http.Client{Timeout: searchTimeout},
		downloadClient: &http.Client{Timeout: downloadTimeout},
		limiter:        rate.NewLimiter(rate.Limit(2), 2),
		headers:        EnvHeaderProvider,
		store:          st,
		logger:         logger,
	}
}

// Settings exposes the store the client resolves preferences against.
func (c *Client) Settings() *settings.Store {
	return c.store
}

// SetHeaderProvider replaces the auth header source.
func (c *Client) SetHeaderProvider(p HeaderProvider) {
	if p != nil {
		c.headers = p
	}
}

// SearchCharacters runs one full search cycle: normalize the raw options,
// persist the effective preferences, encode the query, fetch, and normalize
// the response. A missing node list is zero results, not an error; non-2xx
// statuses surface as *StatusError.
func (c *Client) SearchCharacters(ctx context.Context, raw RawOptions) ([]models.Character, error) {
	opts := NormalizeOptions(raw, c.store)

	StorePreferences(c.store, opts)
	if err := c.store.Save(); err != nil && c.logger != nil {
		c.logger.Warn("failed to persist search preferences", "err", err)
	}

	query := EncodeQuery(opts)
	reqURL := c.searchURL + "?" + query.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug("search request", "url", c.searchURL, "page", opts.PageNumber, "first", opts.PageSize)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Code:    resp.StatusCode,
			Message: serverMessage(body, resp.Header.Get("Content-Type"), resp.Status),
		}
	}

	records := NormalizeResponse(body)
	if c.logger != nil {
		c.logger.Debug("search response", "status", resp.StatusCode, "results", len(records))
	}
	return records, nil
}

// CatalogPageURL returns the public catalog page for an identifier, used as
// the manual fallback when downloads fail.
func CatalogPageURL(fullPath string) string {
	return catalogPageBase + "/" + fullPath
}

// serverMessage extracts a human-readable error from a failure body: a JSON
// "message" or "error" field when present, the title or first text of an
// HTML error page otherwise, falling back to the HTTP status text.
func serverMessage(body []byte, contentType, status string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	if strings.Contains(contentType, "text/html") || strings.HasPrefix(strings.TrimSpace(string(body)), "<") {
		if msg := htmlText(body); msg != "" {
			return msg
		}
	}

	return status
}

// htmlText returns the <title> of an HTML document, or its first
// non-whitespace text node when there is no title.
func htmlText(body []byte) string {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return ""
	}

	var title, first string
	var walk func(n *html.Node, inTitle bool)
	walk = func(n *html.Node, inTitle bool) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if inTitle && title == "" {
					title = text
				}
				if first == "" {
					first = text
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child, inTitle || (n.Type == html.ElementNode && n.Data == "title"))
		}
	}
	walk(doc, false)

	if title != "" {
		return title
	}
	return first
}
