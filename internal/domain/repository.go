package domain

import "context"

// CompletionRequest is a single-turn text completion request
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	JSONMode    bool
	Temperature *float64
}

// ResponseRequest is a Responses API request, optionally with the hosted web search tool
type ResponseRequest struct {
	Model     string
	Prompt    string
	WebSearch bool
}

// TextCompleter sends a prompt to a chat completion model and returns the message content
type TextCompleter interface {
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
}

// Responder sends a prompt through the Responses API and returns the assistant output text
type Responder interface {
	Respond(ctx context.Context, req *ResponseRequest) (string, error)
}

// SerpProvider fetches the organic listing for a keyword
type SerpProvider interface {
	FetchListing(ctx context.Context, query ListingQuery) ([]RankedResult, error)
}

// ContentParser fetches the parsed content of a single page
type ContentParser interface {
	ParseContent(ctx context.Context, url string) (*PageContent, error)
}

// AnswerEngine scrapes an answer engine (Perplexity, Copilot) for a prompt
type AnswerEngine interface {
	Ask(ctx context.Context, engine, prompt, country string) (*AnswerResult, error)
	Snapshot(ctx context.Context, engine, snapshotID string) (*SnapshotState, error)
}

