package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/serpops/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicPicker_Pick(t *testing.T) {
	responder := &MockResponder{output: "Here you go:\n```json\n[\"Milk frothing\", \"Boiler types\"]\n```"}
	picker := NewTopicPicker(responder, "gpt-4o-mini")

	result, err := picker.Pick(context.Background(), &domain.TopicPickRequest{
		PrimaryKeyword:    "espresso machines",
		SecondaryKeywords: []string{"coffee grinder", "latte"},
		AllTopics:         json.RawMessage(`["Milk frothing", "Boiler types", "Warranty"]`),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Milk frothing", "Boiler types"}, result.SelectedTopics)

	require.NotNil(t, responder.lastReq)
	assert.True(t, responder.lastReq.WebSearch)
	assert.Equal(t, "gpt-4o-mini", responder.lastReq.Model)
	assert.Contains(t, responder.lastReq.Prompt, `"espresso machines" in Singapore`)
	assert.Contains(t, responder.lastReq.Prompt, "coffee grinder, latte")
	assert.Contains(t, responder.lastReq.Prompt, `"Warranty"`)
}

func TestTopicPicker_Failures(t *testing.T) {
	tests := []struct {
		name      string
		responder *MockResponder
		request   *domain.TopicPickRequest
		want      error
	}{
		{"missing keyword", &MockResponder{}, &domain.TopicPickRequest{}, domain.ErrInvalidRequest},
		{"provider failure", &MockResponder{err: domain.ErrProviderFailure}, &domain.TopicPickRequest{PrimaryKeyword: "k"}, domain.ErrProviderFailure},
		{"no array", &MockResponder{output: "no topics today"}, &domain.TopicPickRequest{PrimaryKeyword: "k"}, domain.ErrParseFailure},
		{"non string items", &MockResponder{output: `[1, 2]`}, &domain.TopicPickRequest{PrimaryKeyword: "k"}, domain.ErrParseFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTopicPicker(tt.responder, "").Pick(context.Background(), tt.request)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuildPickPrompt_Defaults(t *testing.T) {
	prompt := buildPickPrompt(&domain.TopicPickRequest{PrimaryKeyword: "k", Location: "Malaysia"})

	assert.Contains(t, prompt, "in Malaysia")
	assert.Contains(t, prompt, "competitors:\n[]")
}
