package brightdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/serpops/backend/internal/domain"
	"github.com/serpops/backend/internal/metrics"
)

// Engines served through Bright Data datasets
const (
	EnginePerplexity = "perplexity"
	EngineCopilot    = "copilot"
)

// engine describes how a dataset is queried and where its answer text lives
type engine struct {
	datasetID  string
	targetURL  string
	textFields []string
}

// Client handles communication with the Bright Data datasets API
type Client struct {
	httpClient *http.Client
	token      string
	baseURL    string
	engines    map[string]engine
}

// NewClient creates a new Bright Data client
func NewClient(token, baseURL, perplexityDataset, copilotDataset string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 180 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
		baseURL:    baseURL,
		engines: map[string]engine{
			EnginePerplexity: {
				datasetID:  perplexityDataset,
				targetURL:  "https://www.perplexity.ai",
				textFields: []string{"answer_html", "answer", "answer_text", "Response"},
			},
			EngineCopilot: {
				datasetID:  copilotDataset,
				targetURL:  "https://copilot.microsoft.com/chats",
				textFields: []string{"answer_text", "answer_html", "answer", "Response"},
			},
		},
	}
}

// Configured reports whether a token is present
func (c *Client) Configured() bool {
	return c.token != ""
}

// Ask runs a synchronous scrape of the engine for prompt. Bright Data may hand back a
// snapshot id instead of records when the scrape outlives the request.
func (c *Client) Ask(ctx context.Context, engineName, prompt, country string) (_ *domain.AnswerResult, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProvider("brightdata", "scrape_"+engineName, start, err) }()

	eng, err := c.engine(engineName)
	if err != nil {
		return nil, err
	}

	// Build request URL
	params := url.Values{}
	params.Set("dataset_id", eng.datasetID)
	params.Set("notify", "false")
	params.Set("include_errors", "true")
	reqURL := fmt.Sprintf("%s/datasets/v3/scrape?%s", c.baseURL, params.Encode())

	payload := scrapeRequest{Input: []scrapeInput{{
		URL:     eng.targetURL,
		Prompt:  prompt,
		Country: country,
		Index:   1,
	}}}

	body, err := c.do(ctx, http.MethodPost, reqURL, payload)
	if err != nil {
		return nil, err
	}

	// A long scrape is handed back as a snapshot to poll later
	var pending struct {
		SnapshotID string `json:"snapshot_id"`
	}
	if json.Unmarshal(body, &pending) == nil && pending.SnapshotID != "" {
		log.Printf("[BRIGHTDATA] %s scrape pending as snapshot %s", engineName, pending.SnapshotID)
		return &domain.AnswerResult{SnapshotID: pending.SnapshotID}, nil
	}

	text := answerText(decodeRecords(body), eng.textFields)
	if text == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyAnswer, engineName)
	}
	return &domain.AnswerResult{Text: text}, nil
}

// Snapshot polls a snapshot once.
func (c *Client) Snapshot(ctx context.Context, engineName, snapshotID string) (_ *domain.SnapshotState, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProvider("brightdata", "snapshot", start, err) }()

	eng, err := c.engine(engineName)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/datasets/v3/snapshot/%s", c.baseURL, url.PathEscape(snapshotID))
	body, err := c.do(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	// Still running: {"status": "running"} or a bare {"message": ...}
	var status map[string]any
	if json.Unmarshal(body, &status) == nil {
		if _, hasMessage := status["message"]; hasMessage || status["status"] == "running" {
			return &domain.SnapshotState{Running: true}, nil
		}
	}

	return &domain.SnapshotState{Text: answerText(decodeRecords(body), eng.textFields)}, nil
}

func (c *Client) engine(name string) (engine, error) {
	if c.token == "" {
		return engine{}, fmt.Errorf("%w: bright data token", domain.ErrProviderNotConfigured)
	}
	eng, ok := c.engines[name]
	if !ok {
		return engine{}, fmt.Errorf("%w: %s", domain.ErrModelNotSupported, name)
	}
	return eng, nil
}

func (c *Client) do(ctx context.Context, method, reqURL string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	// Create request
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	// Execute request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	// Read body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrProviderFailure, err)
	}
	// Check status code
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrProviderFailure, resp.StatusCode, string(body))
	}
	return body, nil
}

type scrapeRequest struct {
	Input []scrapeInput `json:"input"`
}

type scrapeInput struct {
	URL     string `json:"url"`
	Prompt  string `json:"prompt"`
	Country string `json:"country"`
	Index   int    `json:"index"`
}

// decodeRecords accepts either a single record object or a list of records
func decodeRecords(body []byte) []map[string]any {
	var many []map[string]any
	if err := json.Unmarshal(body, &many); err == nil {
		return many
	}
	var one map[string]any
	if err := json.Unmarshal(body, &one); err == nil && one != nil {
		return []map[string]any{one}
	}
	return nil
}

// answerText returns the first non-empty string field of the first record, in preference order
func answerText(records []map[string]any, fields []string) string {
	if len(records) == 0 {
		return ""
	}
	for _, field := range fields {
		if text, ok := records[0][field].(string); ok && text != "" {
			return text
		}
	}
	return ""
}
