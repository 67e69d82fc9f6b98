package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/serpops/backend/internal/domain"
	"github.com/serpops/backend/internal/infrastructure/brightdata"
	"github.com/serpops/backend/internal/infrastructure/llm"
)

// DefaultMentionLocation is used when a verify request names no location
const DefaultMentionLocation = "Global"

// maxGradedChars bounds the answer text sent to the grader
const maxGradedChars = 10000

const gradingSchema = `{
	"type": "object",
	"required": ["is_mentioned"],
	"properties": {
		"is_mentioned": {"type": "boolean"},
		"sentiment": {"type": "string"},
		"is_cited": {"type": "boolean"},
		"citation_urls": {"type": "array", "items": {"type": "string"}},
		"rank": {"type": ["integer", "null"]},
		"mention_snippet": {"type": ["string", "null"]},
		"visibility_score": {"type": ["integer", "null"]}
	}
}`

var answerTemperature = 0.7

// MentionServiceConfig holds configuration for the mention verifier
type MentionServiceConfig struct {
	GraderModel string
}

// MentionService asks several answer engines the same prompt and grades each answer for a brand
type MentionService struct {
	openai      domain.TextCompleter
	gemini      domain.TextCompleter
	engines     domain.AnswerEngine
	grader      domain.TextCompleter
	graderModel string
	schema      *jsonschema.Schema
}

// NewMentionService creates a new mention service. A nil openai or gemini completer marks that
// provider as not configured.
func NewMentionService(
	openai domain.TextCompleter,
	gemini domain.TextCompleter,
	engines domain.AnswerEngine,
	grader domain.TextCompleter,
	config MentionServiceConfig,
) *MentionService {
	graderModel := config.GraderModel
	if graderModel == "" {
		graderModel = llm.DefaultModel
	}

	return &MentionService{
		openai:      openai,
		gemini:      gemini,
		engines:     engines,
		grader:      grader,
		graderModel: graderModel,
		schema:      llm.MustCompileSchema("mention_grading.json", gradingSchema),
	}
}

// Verify queries every requested model concurrently and grades each answer.
// Per-model failures are reported in the verification list; only an invalid request is an error.
func (s *MentionService) Verify(ctx context.Context, request *domain.MentionRequest) (*domain.MentionReport, error) {
	if request == nil || strings.TrimSpace(request.Prompt) == "" || strings.TrimSpace(request.Brand) == "" {
		return nil, fmt.Errorf("%w: prompt and brand are required", domain.ErrInvalidRequest)
	}

	location := request.Location
	if location == "" {
		location = DefaultMentionLocation
	}
	models := request.Models
	if len(models) == 0 {
		models = domain.DefaultMentionModels
	}

	// One task per model; a failure only marks its own entry
	outcomes := RunAll(ctx, models, func(ctx context.Context, model string) (domain.ModelVerification, error) {
		return s.verifyModel(ctx, model, request.Prompt, location, request.Brand, request.URL)
	})

	report := &domain.MentionReport{
		Brand:        request.Brand,
		URL:          request.URL,
		Prompt:       request.Prompt,
		Location:     location,
		Verification: make([]domain.ModelVerification, 0, len(outcomes)),
	}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			log.Printf("[MENTIONS] %s failed: %v", outcome.Key, outcome.Err)
			report.Verification = append(report.Verification, domain.ModelVerification{
				Model:  outcome.Key,
				Status: domain.StatusError,
				Error:  outcome.Err.Error(),
			})
			continue
		}
		report.Verification = append(report.Verification, outcome.Value)
	}

	return report, nil
}

func (s *MentionService) verifyModel(ctx context.Context, model, prompt, location, brand, url string) (domain.ModelVerification, error) {
	answer, err := s.ask(ctx, model, prompt, location)
	if err != nil {
		return domain.ModelVerification{}, err
	}

	// Bright Data may answer later
	if answer.SnapshotID != "" {
		return domain.ModelVerification{
			Model:      model,
			Status:     domain.StatusSnapshotPending,
			SnapshotID: answer.SnapshotID,
		}, nil
	}

	text := StripHTML(answer.Text)
	if text == "" {
		return domain.ModelVerification{}, domain.ErrEmptyAnswer
	}

	// Grade; a grading failure still reports the answer text
	analysis, err := s.grade(ctx, text, brand, url)
	if err != nil {
		return domain.ModelVerification{
			Model:    model,
			Status:   domain.StatusError,
			Error:    fmt.Sprintf("grading failed: %v", err),
			Response: text,
		}, nil
	}

	return domain.ModelVerification{
		Model:    model,
		Status:   domain.StatusSuccess,
		Response: text,
		Analysis: analysis,
	}, nil
}

// ask routes a model name to its provider
func (s *MentionService) ask(ctx context.Context, model, prompt, location string) (*domain.AnswerResult, error) {
	name := strings.ToLower(model)

	switch {
	case strings.HasPrefix(name, "gpt"):
		if s.openai == nil {
			return nil, fmt.Errorf("%w: openai api key", domain.ErrProviderNotConfigured)
		}
		text, err := s.openai.Complete(ctx, &domain.CompletionRequest{
			Model:       model,
			System:      citationSystemPrompt(location),
			Prompt:      prompt,
			Temperature: &answerTemperature,
		})
		if err != nil {
			return nil, err
		}
		return &domain.AnswerResult{Text: text}, nil

	case strings.HasPrefix(name, "gemini"):
		if s.gemini == nil {
			return nil, fmt.Errorf("%w: gemini api key", domain.ErrProviderNotConfigured)
		}
		text, err := s.gemini.Complete(ctx, &domain.CompletionRequest{
			Model:  GeminiModel(model),
			Prompt: fmt.Sprintf("User Location: %s\n\n%s\n\nPlease include relevant citations and URLs in your response.", location, prompt),
		})
		if err != nil {
			return nil, err
		}
		return &domain.AnswerResult{Text: text}, nil

	case strings.Contains(name, "perplexity"), strings.Contains(name, "search"):
		return s.askEngine(ctx, brightdata.EnginePerplexity, prompt, location)

	case strings.Contains(name, "copilot"):
		return s.askEngine(ctx, brightdata.EngineCopilot, prompt, location)
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrModelNotSupported, model)
}

func (s *MentionService) askEngine(ctx context.Context, engine, prompt, location string) (*domain.AnswerResult, error) {
	if s.engines == nil {
		return nil, fmt.Errorf("%w: answer engine scraper", domain.ErrProviderNotConfigured)
	}
	return s.engines.Ask(ctx, engine, prompt, CountryCode(location))
}

// Snapshot polls a pending answer engine snapshot once and grades it when finished
func (s *MentionService) Snapshot(ctx context.Context, request *domain.SnapshotRequest) (*domain.SnapshotReport, error) {
	if request == nil || strings.TrimSpace(request.SnapshotID) == "" {
		return nil, fmt.Errorf("%w: missing snapshot_id", domain.ErrInvalidRequest)
	}
	if s.engines == nil {
		return nil, fmt.Errorf("%w: answer engine scraper", domain.ErrProviderNotConfigured)
	}

	engine := brightdata.EngineCopilot
	if name := strings.ToLower(request.Model); strings.Contains(name, "perplexity") || strings.Contains(name, "search") {
		engine = brightdata.EnginePerplexity
	}

	state, err := s.engines.Snapshot(ctx, engine, request.SnapshotID)
	if err != nil {
		return nil, err
	}
	if state.Running {
		return &domain.SnapshotReport{Status: domain.StatusRunning, Message: "Snapshot still processing"}, nil
	}

	text := StripHTML(state.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: snapshot finished but no content extracted", domain.ErrEmptyAnswer)
	}

	analysis, err := s.grade(ctx, text, request.Brand, request.URL)
	if err != nil {
		return nil, err
	}

	return &domain.SnapshotReport{
		Status:   domain.StatusSuccess,
		Model:    request.Model,
		Response: text,
		Analysis: analysis,
	}, nil
}

// grade asks the grader model for a structured verdict on one answer
func (s *MentionService) grade(ctx context.Context, text, brand, url string) (*domain.MentionAnalysis, error) {
	if runes := []rune(text); len(runes) > maxGradedChars {
		text = string(runes[:maxGradedChars])
	}

	prompt := fmt.Sprintf(`Analyze the following AI response for a specific brand mention.
BRAND TO TRACK: %s
TARGET URL: %s

AI RESPONSE:
---
%s
---

Output your analysis in strictly JSON format:
{
  "is_mentioned": boolean,
  "sentiment": "positive" | "negative" | "neutral",
  "is_cited": boolean (did it provide a link?),
  "citation_urls": ["list", "of", "urls", "found", "in", "the", "response"],
  "rank": integer (if it's a list, what position is the brand? 0 if not in list),
  "mention_snippet": "short quote of the mention",
  "visibility_score": integer (0-100 based on prominence and sentiment)
}`, brand, url, text)

	output, err := s.grader.Complete(ctx, &domain.CompletionRequest{
		Model:    s.graderModel,
		Prompt:   prompt,
		JSONMode: true,
	})
	if err != nil {
		return nil, err
	}

	raw, err := llm.ParseJSON(output, '{')
	if err != nil {
		return nil, err
	}
	if err := llm.Validate(s.schema, raw); err != nil {
		return nil, err
	}

	var analysis domain.MentionAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParseFailure, err)
	}
	return &analysis, nil
}

func citationSystemPrompt(location string) string {
	return fmt.Sprintf(`You are a highly intelligent assistant researching market presence.
The user is located in %s.
When recommending brands or explaining solutions, ALWAYS include real-world citations and URLs (e.g. [Brand Name](https://example.com)) if they are relevant to the query.
Provide a detailed, modern, and helpful response with active links.`, location)
}

// GeminiModel maps a requested Gemini model onto one the API still serves.
// Preview models pass through unchanged.
func GeminiModel(model string) string {
	name := strings.ToLower(model)
	switch {
	case strings.Contains(name, "gemini-3"):
		return "gemini-3-flash-preview"
	case strings.Contains(name, "preview"):
		return model
	case strings.Contains(name, "flash"):
		return "gemini-2.0-flash"
	default:
		return "gemini-2.5-pro"
	}
}

// CountryCode normalizes a free-form location into the two-letter code the scrapers expect.
// Short codes must match exactly so that e.g. "Australia" is not read as "US".
func CountryCode(location string) string {
	loc := strings.ToUpper(strings.TrimSpace(location))
	switch {
	case loc == "" || loc == "GLOBAL" || loc == "US" || loc == "USA" || strings.Contains(loc, "UNITED STATES"):
		return "US"
	case loc == "SG" || strings.Contains(loc, "SINGAPORE"):
		return "SG"
	case loc == "UK" || loc == "GB" || strings.Contains(loc, "UNITED KINGDOM") || strings.Contains(loc, "GREAT BRITAIN"):
		return "GB"
	}
	if runes := []rune(loc); len(runes) > 2 {
		return string(runes[:2])
	}
	return loc
}
