package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/serpops/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageTypeClassifier_Classify(t *testing.T) {
	listing := listingOf("https://a.example.com", "https://b.example.com")

	tests := []struct {
		name    string
		content string
		want    map[int]string
	}{
		{
			name:    "plain json",
			content: `{"1": {"url": "https://a.example.com", "type": "blog article"}, "2": {"url": "https://b.example.com", "type": "directory"}}`,
			want:    map[int]string{1: "blog article", 2: "directory"},
		},
		{
			name:    "code fenced",
			content: "```json\n{\"2\": {\"url\": \"https://b.example.com\", \"type\": \"landing page\"}}\n```",
			want:    map[int]string{2: "landing page"},
		},
		{
			name:    "non rank keys dropped",
			content: `{"1": {"url": "https://a.example.com", "type": "blog article"}, "notes": {"text": "done"}}`,
			want:    map[int]string{1: "blog article"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := NewPageTypeClassifier(NewMockCompleter(tt.content, nil), "gpt-4o-mini")

			typed, err := classifier.Classify(context.Background(), listing)

			require.NoError(t, err)
			got := make(map[int]string, len(typed))
			for rank, label := range typed {
				got[rank] = label.Type
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageTypeClassifier_Failures(t *testing.T) {
	listing := listingOf("https://a.example.com")

	tests := []struct {
		name    string
		content string
		err     error
		want    error
	}{
		{"completion error", "", domain.ErrProviderFailure, domain.ErrProviderFailure},
		{"prose", "Sorry, I cannot browse.", nil, domain.ErrParseFailure},
		{"array", `[{"url": "https://a.example.com"}]`, nil, domain.ErrParseFailure},
		{"type not a string", `{"1": {"url": "https://a.example.com", "type": 3}}`, nil, domain.ErrParseFailure},
		{"empty object", `{}`, nil, domain.ErrShapeMismatch},
		{"wrapped ranks", `{"results": {"1": {"url": "https://a.example.com", "type": "blog article"}}}`, nil, domain.ErrShapeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := NewPageTypeClassifier(NewMockCompleter(tt.content, tt.err), "")

			_, err := classifier.Classify(context.Background(), listing)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPageTypeClassifier_RequestsModel(t *testing.T) {
	completer := NewMockCompleter(`{"1": {"url": "https://a.example.com", "type": "directory"}}`, nil)
	classifier := NewPageTypeClassifier(completer, "gpt-4.1-mini")

	_, err := classifier.Classify(context.Background(), listingOf("https://a.example.com"))

	require.NoError(t, err)
	require.Equal(t, 1, completer.Calls())
	assert.Equal(t, "gpt-4.1-mini", completer.requests[0].Model)
	assert.True(t, completer.requests[0].JSONMode)
}

func TestRankMappingJSON(t *testing.T) {
	listing := []domain.RankedResult{
		{Rank: 2, URL: "https://b.example.com", Title: "B"},
		{Rank: 10, URL: "https://j.example.com?a=1&b=2", Title: "J"},
	}

	got := rankMappingJSON(listing)

	assert.JSONEq(t, `{"2": {"url": "https://b.example.com"}, "10": {"url": "https://j.example.com?a=1&b=2"}}`, got)
	assert.Less(t, strings.Index(got, `"2"`), strings.Index(got, `"10"`))
}
