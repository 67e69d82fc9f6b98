package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/serpops/backend/internal/domain"
	"github.com/serpops/backend/internal/infrastructure/llm"
)

// DefaultPickLocation is used when a pick request names no location
const DefaultPickLocation = "Singapore"

const selectedTopicsSchema = `{"type": "array", "items": {"type": "string"}}`

// TopicPicker asks a web-search enabled model to select the topics worth covering for a keyword
type TopicPicker struct {
	responder domain.Responder
	model     string
	schema    *jsonschema.Schema
}

// NewTopicPicker creates a new topic picker
func NewTopicPicker(responder domain.Responder, model string) *TopicPicker {
	return &TopicPicker{
		responder: responder,
		model:     model,
		schema:    llm.MustCompileSchema("selected_topics.json", selectedTopicsSchema),
	}
}

// Pick selects 15-25 prioritized topics from those gathered across competitors
func (p *TopicPicker) Pick(ctx context.Context, request *domain.TopicPickRequest) (*domain.TopicPickResult, error) {
	if request == nil || strings.TrimSpace(request.PrimaryKeyword) == "" {
		return nil, fmt.Errorf("%w: primary_keyword is required", domain.ErrInvalidRequest)
	}

	output, err := p.responder.Respond(ctx, &domain.ResponseRequest{
		Model:     p.model,
		Prompt:    buildPickPrompt(request),
		WebSearch: true,
	})
	if err != nil {
		return nil, err
	}

	raw, err := llm.ParseJSON(output, '[')
	if err != nil {
		return nil, err
	}
	if err := llm.Validate(p.schema, raw); err != nil {
		return nil, err
	}

	var topics []string
	if err := json.Unmarshal(raw, &topics); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParseFailure, err)
	}

	log.Printf("[TOPICS] Picked %d topics for %q", len(topics), request.PrimaryKeyword)
	return &domain.TopicPickResult{SelectedTopics: topics}, nil
}

func buildPickPrompt(request *domain.TopicPickRequest) string {
	location := request.Location
	if location == "" {
		location = DefaultPickLocation
	}
	allTopics := string(request.AllTopics)
	if strings.TrimSpace(allTopics) == "" || allTopics == "null" {
		allTopics = "[]"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an SEO expert. I have a list of content topics extracted from the top SERP competitors for the primary keyword: %q in %s.\n", request.PrimaryKeyword, location)
	fmt.Fprintf(&b, "Secondary keywords (lower priority): %s\n\n", strings.Join(request.SecondaryKeywords, ", "))
	fmt.Fprintf(&b, "Here are all the topics found across competitors:\n%s\n\n", allTopics)
	b.WriteString(`Your task:
1. Analyse these topics and cherry-pick the most important ones (around 15-25 topics).
2. Prioritize topics that:
   - Are highly relevant to the primary keyword.
   - Appear frequently across competitors (implied by the list).
   - Are essential for ranking well on Google for this specific intent.
3. Use the web_search tool to verify current SEO trends for this keyword to improve your selection.
4. Return ONLY a JSON list of the selected topic strings. No explanations.
Format: ["Topic 1", "Topic 2", ...]`)
	return b.String()
}
