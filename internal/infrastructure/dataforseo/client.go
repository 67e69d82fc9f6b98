package dataforseo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/serpops/backend/internal/domain"
	"github.com/serpops/backend/internal/metrics"
)

const (
	serpPath           = "/v3/serp/google/organic/live/regular"
	contentParsingPath = "/v3/on_page/content_parsing/live"
)

// Client handles communication with the DataForSEO API
type Client struct {
	httpClient *http.Client
	login      string
	password   string
	baseURL    string
	debug      bool
}

// NewClient creates a new DataForSEO API client
func NewClient(login, password, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		login:    login,
		password: password,
		baseURL:  baseURL,
	}
}

// SetDebug toggles logging of raw provider responses
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// FetchListing returns the organic results for a keyword, ordered by rank and capped at MaxOrganicRank.
func (c *Client) FetchListing(ctx context.Context, query domain.ListingQuery) (_ []domain.RankedResult, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProvider("dataforseo", "serp", start, err) }()

	// Build task payload
	payload := []serpTask{{
		Keyword:      query.Keyword,
		LocationName: query.Location,
		LanguageName: query.Language,
		Depth:        query.Depth,
	}}

	// Execute request
	var resp serpResponse
	if err := c.post(ctx, serpPath, payload, &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}

	// Keep organic results only
	results := MapOrganicResults(resp.items())
	log.Printf("[DATAFORSEO] %d organic results for %q (%s, %s)", len(results), query.Keyword, query.Location, query.Language)
	return results, nil
}

// ParseContent returns the headings and body text of a page, rendered with JavaScript enabled.
func (c *Client) ParseContent(ctx context.Context, pageURL string) (_ *domain.PageContent, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProvider("dataforseo", "content_parsing", start, err) }()

	// Build task payload - pages are rendered with JavaScript
	payload := []contentParsingTask{{
		URL:                    pageURL,
		EnableJavascript:       true,
		EnableBrowserRendering: true,
	}}

	// Execute request
	var resp contentParsingResponse
	if err := c.post(ctx, contentParsingPath, payload, &resp); err != nil {
		return nil, err
	}
	if err := resp.check(); err != nil {
		return nil, err
	}
	if len(resp.Tasks) == 0 {
		return nil, fmt.Errorf("%w: content parsing returned no tasks", domain.ErrShapeMismatch)
	}

	return ExtractPageContent(&resp), nil
}

// post sends a JSON payload and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	// Create request
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.login, c.password)
	req.Header.Set("Content-Type", "application/json")

	// Execute request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	// Read body
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", domain.ErrProviderFailure, err)
	}

	if c.debug {
		log.Printf("[DATAFORSEO] %s -> %d: %s", path, resp.StatusCode, string(respBody))
	}

	// Check status code
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d, body: %s", domain.ErrProviderFailure, resp.StatusCode, string(respBody))
	}

	// Parse response
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrProviderFailure, err)
	}
	return nil
}
