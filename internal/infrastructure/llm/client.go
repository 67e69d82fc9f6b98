package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
	"github.com/serpops/backend/internal/domain"
	"github.com/serpops/backend/internal/metrics"
)

const (
	// DefaultModel is used when a request does not name a model
	DefaultModel = "gpt-4o-mini"

	// GeminiBaseURL is Gemini's OpenAI-compatible endpoint
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
)

// Config holds configuration for an OpenAI-compatible client
type Config struct {
	Name       string // provider label used in logs and metrics
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client // optional (tests)
}

// Client talks to an OpenAI-compatible API through the official SDK.
// Requests are never retried.
type Client struct {
	name   string
	model  string
	client openai.Client
}

// NewClient creates a new OpenAI-compatible client
func NewClient(cfg Config) *Client {
	if cfg.Name == "" {
		cfg.Name = "openai"
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		name:   cfg.Name,
		model:  cfg.Model,
		client: openai.NewClient(opts...),
	}
}

// Name returns the provider label
func (c *Client) Name() string {
	return c.name
}

// Complete sends a chat completion request and returns choices[0].message.content.
func (c *Client) Complete(ctx context.Context, req *domain.CompletionRequest) (_ string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProvider(c.name, "chat", start, err) }()

	if req == nil || req.Prompt == "" {
		return "", fmt.Errorf("%w: prompt is required", domain.ErrInvalidRequest)
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.modelFor(req.Model)),
		Messages: messages,
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %s chat completion: %v", domain.ErrProviderFailure, c.name, mapOpenAIError(err))
	}
	if completion == nil || len(completion.Choices) == 0 {
		log.Printf("[LLM] %s returned no choices for model %s", c.name, params.Model)
		return "", fmt.Errorf("%w: %s response has no choices", domain.ErrShapeMismatch, c.name)
	}

	return completion.Choices[0].Message.Content, nil
}

// Respond sends a Responses API request and returns the assistant's output text.
// When the typed output has no output_text parts the raw envelope is searched as well.
func (c *Client) Respond(ctx context.Context, req *domain.ResponseRequest) (_ string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProvider(c.name, "responses", start, err) }()

	if req == nil || req.Prompt == "" {
		return "", fmt.Errorf("%w: prompt is required", domain.ErrInvalidRequest)
	}

	params := responses.ResponseNewParams{
		Model: c.modelFor(req.Model),
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(req.Prompt)},
	}
	if req.WebSearch {
		params.Tools = []responses.ToolUnionParam{{
			OfWebSearch: &responses.WebSearchToolParam{Type: responses.WebSearchToolTypeWebSearch},
		}}
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %s responses: %v", domain.ErrProviderFailure, c.name, mapOpenAIError(err))
	}

	// Typed output first
	if text := resp.OutputText(); text != "" {
		return text, nil
	}

	// Fall back to bare text items the typed union does not expose
	var envelope responsesEnvelope
	if raw := resp.RawJSON(); raw != "" {
		if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
			return "", fmt.Errorf("%w: %s response: %v", domain.ErrShapeMismatch, c.name, err)
		}
	}
	text, ok := envelope.outputText()
	if !ok {
		return "", fmt.Errorf("%w: %s response has no output text", domain.ErrShapeMismatch, c.name)
	}
	return text, nil
}

func (c *Client) modelFor(requested string) string {
	if requested != "" {
		return requested
	}
	return c.model
}

// mapOpenAIError flattens SDK API errors into a readable message
func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return fmt.Errorf("status %d: %s", apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("status %d", apiErr.StatusCode)
	}
	return err
}
