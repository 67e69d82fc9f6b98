package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/serpops/backend/internal/domain"
	"github.com/serpops/backend/internal/infrastructure/llm"
)

const topicPrompt = `You are an expert SEO analyst performing content comparison for keyword research. Your goal is to identify the key content elements of a webpage to understand what sections are necessary to rank for a given keyword. Analyze the following headings and text extracted from a webpage, paying particular attention to the headings.

1. Identify Content Topics: Extract 5-15 distinct content topics covered on the page. Estimate the word count dedicated to each topic. Do not include company-specific names, product names, or service names.
2. Determine Page Type: Classify the webpage into one of the following categories: blog article, e-commerce, news, forum, database directory, landing page, product/service page, or social media page.

Output strict JSON only, in lowercase, in the format {"page_type": "<page type>", "topics": {"<topic 1>": <no. of words>, "<topic 2>": <no. of words>}}.`

const topicSchema = `{
	"type": "object",
	"required": ["topics"],
	"properties": {
		"page_type": {"type": "string"},
		"page type": {"type": "string"},
		"topics": {
			"type": "object",
			"additionalProperties": {"type": ["number", "string"]}
		}
	}
}`

var digitsRegex = regexp.MustCompile(`\d+`)

// TopicExtractor builds a per-URL topic and word count breakdown
type TopicExtractor struct {
	parser    domain.ContentParser
	completer domain.TextCompleter
	model     string
	schema    *jsonschema.Schema
}

// NewTopicExtractor creates a new topic extractor
func NewTopicExtractor(parser domain.ContentParser, completer domain.TextCompleter, model string) *TopicExtractor {
	return &TopicExtractor{
		parser:    parser,
		completer: completer,
		model:     model,
		schema:    llm.MustCompileSchema("topics.json", topicSchema),
	}
}

// Extract returns the breakdown for request.URL. Provider and model failures never surface
// as errors: they yield a breakdown with empty topics and page type. Only an invalid request
// is an error.
func (e *TopicExtractor) Extract(ctx context.Context, request *domain.TopicRequest) (*domain.TopicBreakdown, error) {
	if request == nil || strings.TrimSpace(request.URL) == "" {
		return nil, fmt.Errorf("%w: url is required", domain.ErrInvalidRequest)
	}

	target := NormalizeURL(request.URL)
	breakdown := domain.NewTopicBreakdown(target)

	content, err := e.parser.ParseContent(ctx, target)
	if err != nil {
		log.Printf("[TOPICS] Content parsing failed for %s: %v", target, err)
		return breakdown, nil
	}

	for level := 1; level <= domain.HeadingLevels; level++ {
		if lines := content.Headings[level]; len(lines) > 0 {
			breakdown.Headings[level] = lines
		}
	}
	breakdown.WordCount = CountWords(content)

	if breakdown.WordCount == 0 {
		log.Printf("[TOPICS] No content found for %s", target)
		return breakdown, nil
	}

	topics, pageType, err := e.summarize(ctx, request.Keyword, content)
	if err != nil {
		log.Printf("[TOPICS] Topic summary failed for %s: %v", target, err)
		return breakdown, nil
	}
	breakdown.Topics = topics
	breakdown.PageType = pageType

	return breakdown, nil
}

func (e *TopicExtractor) summarize(ctx context.Context, keyword string, content *domain.PageContent) (map[string]int, string, error) {
	pageText := map[string]any{"text": strings.Join(content.Text, " ")}
	for level := 1; level <= domain.HeadingLevels; level++ {
		lines := content.Headings[level]
		if lines == nil {
			lines = []string{}
		}
		pageText[fmt.Sprintf("h%d", level)] = lines
	}
	encoded, err := json.Marshal(pageText)
	if err != nil {
		return nil, "", err
	}

	prompt := topicPrompt + " The targeted keyword is " + keyword + ". Here is the page text: " + string(encoded)

	output, err := e.completer.Complete(ctx, &domain.CompletionRequest{
		Model:    e.model,
		Prompt:   prompt,
		JSONMode: true,
	})
	if err != nil {
		return nil, "", err
	}

	raw, err := llm.ParseJSON(output, '{')
	if err != nil {
		return nil, "", err
	}
	if err := llm.Validate(e.schema, raw); err != nil {
		return nil, "", err
	}

	var summary struct {
		PageType      string                     `json:"page_type"`
		PageTypeSpace string                     `json:"page type"`
		Topics        map[string]json.RawMessage `json:"topics"`
	}
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrParseFailure, err)
	}

	pageType := summary.PageType
	if pageType == "" {
		pageType = summary.PageTypeSpace
	}

	topics := make(map[string]int, len(summary.Topics))
	for topic, value := range summary.Topics {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			continue
		}
		topics[topic] = topicWords(value)
	}

	return topics, pageType, nil
}

// topicWords reads a word estimate emitted either as a number or as text such as "about 120 words"
func topicWords(value json.RawMessage) int {
	var n float64
	if err := json.Unmarshal(value, &n); err == nil {
		return int(math.Round(n))
	}
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		if digits := digitsRegex.FindString(s); digits != "" {
			words, _ := strconv.Atoi(digits)
			return words
		}
	}
	return 0
}

// NormalizeURL prefixes https:// when the URL carries no http(s) scheme
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if !strings.Contains(url, "https://") && !strings.Contains(url, "http://") {
		return "https://" + url
	}
	return url
}

// CountWords counts whitespace-delimited tokens across all headings and body text
func CountWords(content *domain.PageContent) int {
	if content == nil {
		return 0
	}
	count := 0
	for _, lines := range content.Headings {
		for _, line := range lines {
			count += len(strings.Fields(line))
		}
	}
	for _, text := range content.Text {
		count += len(strings.Fields(text))
	}
	return count
}
