package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/serpops/backend/internal/domain"
	"github.com/serpops/backend/internal/infrastructure/llm"
)

const classificationPrompt = "Go to each URL and ascertain, for SEO content page type purposes, whether the page is a blog article, landing page, directory, or product/service page. " +
	"Prioritize identifying pages as 'landing page' if they are focused on a specific offer or campaign with a clear call to action. " +
	"A landing page is primarily designed for a specific conversion goal. A product/service page focuses on info about a specific product. " +
	"A directory helps users find services near them. A blog article provides news and info. " +
	"CRITICAL: EVALUATE EVERY SINGLE URL PROVIDED. DO NOT SKIP ANY. " +
	"Add a \"type\" key to every entry and return in the exact same JSON format with double quotes: "

const classificationSchema = `{
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"properties": {
			"url": {"type": "string"},
			"type": {"type": "string"}
		}
	}
}`

// PageTypeClassifier labels listing URLs with a page type using a text completion model
type PageTypeClassifier struct {
	completer domain.TextCompleter
	model     string
	schema    *jsonschema.Schema
}

// NewPageTypeClassifier creates a classifier. An empty model uses the completer's default.
func NewPageTypeClassifier(completer domain.TextCompleter, model string) *PageTypeClassifier {
	return &PageTypeClassifier{
		completer: completer,
		model:     model,
		schema:    llm.MustCompileSchema("classification.json", classificationSchema),
	}
}

// Classify sends the listing URLs to the model and returns its labels keyed by rank.
// Any error means classification did not run and the caller should fall back to the raw listing.
// Output without a single integer rank key, such as {} or a wrapper object, is a shape mismatch.
func (c *PageTypeClassifier) Classify(ctx context.Context, listing []domain.RankedResult) (map[int]RankLabel, error) {
	prompt := classificationPrompt + rankMappingJSON(listing)

	content, err := c.completer.Complete(ctx, &domain.CompletionRequest{
		Model:    c.model,
		Prompt:   prompt,
		JSONMode: true,
	})
	if err != nil {
		return nil, err
	}

	raw, err := llm.ParseJSON(content, '{')
	if err != nil {
		return nil, err
	}
	if err := llm.Validate(c.schema, raw); err != nil {
		return nil, err
	}

	var byKey map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byKey); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParseFailure, err)
	}
	typed, err := NormalizeRankKeys(byKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParseFailure, err)
	}

	// A valid object that labels no rank at all is not a classification
	if len(listing) > 0 && len(typed) == 0 {
		return nil, fmt.Errorf("%w: no rank keys in model output", domain.ErrShapeMismatch)
	}
	if len(typed) < len(listing) {
		log.Printf("[CLASSIFY] Model labelled %d of %d URLs", len(typed), len(listing))
	}
	return typed, nil
}

// rankMappingJSON renders {"rank": {"url": ...}} in listing order
func rankMappingJSON(listing []domain.RankedResult) string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range listing {
		if i > 0 {
			buf.WriteString(", ")
		}
		url, _ := json.Marshal(r.URL)
		buf.WriteString(strconv.Quote(strconv.Itoa(r.Rank)))
		buf.WriteString(`: {"url": `)
		buf.Write(url)
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.String()
}
