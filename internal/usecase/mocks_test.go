package usecase

import (
	"context"
	"sync"

	"github.com/serpops/backend/internal/domain"
)

// MockSerpProvider is a mock implementation of domain.SerpProvider
type MockSerpProvider struct {
	listing   []domain.RankedResult
	err       error
	lastQuery domain.ListingQuery
	calls     int
}

func (m *MockSerpProvider) FetchListing(ctx context.Context, query domain.ListingQuery) ([]domain.RankedResult, error) {
	m.calls++
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}
	return m.listing, nil
}

// MockCompleter is a mock implementation of domain.TextCompleter, safe for concurrent use
type MockCompleter struct {
	mu       sync.Mutex
	respond  func(req *domain.CompletionRequest) (string, error)
	requests []*domain.CompletionRequest
}

func NewMockCompleter(content string, err error) *MockCompleter {
	return &MockCompleter{
		respond: func(*domain.CompletionRequest) (string, error) { return content, err },
	}
}

func (m *MockCompleter) Complete(ctx context.Context, req *domain.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.respond(req)
}

func (m *MockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// MockContentParser is a mock implementation of domain.ContentParser
type MockContentParser struct {
	content *domain.PageContent
	err     error
	lastURL string
}

func (m *MockContentParser) ParseContent(ctx context.Context, url string) (*domain.PageContent, error) {
	m.lastURL = url
	if m.err != nil {
		return nil, m.err
	}
	return m.content, nil
}

// MockResponder is a mock implementation of domain.Responder
type MockResponder struct {
	output  string
	err     error
	lastReq *domain.ResponseRequest
}

func (m *MockResponder) Respond(ctx context.Context, req *domain.ResponseRequest) (string, error) {
	m.lastReq = req
	if m.err != nil {
		return "", m.err
	}
	return m.output, nil
}

// MockAnswerEngine is a mock implementation of domain.AnswerEngine
type MockAnswerEngine struct {
	mu        sync.Mutex
	answers   map[string]*domain.AnswerResult
	askErr    error
	countries []string
	state     *domain.SnapshotState
	snapErr   error
	lastSnap  string
}

func (m *MockAnswerEngine) Ask(ctx context.Context, engine, prompt, country string) (*domain.AnswerResult, error) {
	m.mu.Lock()
	m.countries = append(m.countries, country)
	m.mu.Unlock()
	if m.askErr != nil {
		return nil, m.askErr
	}
	answer, ok := m.answers[engine]
	if !ok {
		return nil, domain.ErrEmptyAnswer
	}
	return answer, nil
}

func (m *MockAnswerEngine) Snapshot(ctx context.Context, engine, snapshotID string) (*domain.SnapshotState, error) {
	m.lastSnap = engine + "/" + snapshotID
	if m.snapErr != nil {
		return nil, m.snapErr
	}
	return m.state, nil
}

func listingOf(urls ...string) []domain.RankedResult {
	listing := make([]domain.RankedResult, len(urls))
	for i, url := range urls {
		rank := i + 1
		listing[i] = domain.RankedResult{
			Rank:        rank,
			URL:         url,
			Title:       "Title " + url,
			Description: "Description " + url,
		}
	}
	return listing
}
