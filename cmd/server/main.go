package main

import (
	"fmt"
	"log"
	"os"

	"github.com/serpops/backend/config"
	httpDelivery "github.com/serpops/backend/internal/delivery/http"
	"github.com/serpops/backend/internal/domain"
	"github.com/serpops/backend/internal/infrastructure/brightdata"
	"github.com/serpops/backend/internal/infrastructure/dataforseo"
	"github.com/serpops/backend/internal/infrastructure/llm"
	"github.com/serpops/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting SerpOps Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	seoClient := dataforseo.NewClient(cfg.DataForSEO.Login, cfg.DataForSEO.Password, cfg.DataForSEO.BaseURL, cfg.DataForSEO.Timeout)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		seoClient.SetDebug(true)
		log.Printf("DataForSEO client debug mode enabled")
	}
	log.Printf("DataForSEO configured: %s (login: %s, depth: %d)", cfg.DataForSEO.BaseURL, cfg.DataForSEO.Login, cfg.DataForSEO.Depth)

	openaiClient := llm.NewClient(llm.Config{
		Name:    "openai",
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Timeout: cfg.OpenAI.Timeout,
	})
	log.Printf("OpenAI configured: model %s", cfg.OpenAI.Model)

	var geminiClient domain.TextCompleter
	if cfg.Gemini.APIKey != "" {
		geminiClient = llm.NewClient(llm.Config{
			Name:    "gemini",
			APIKey:  cfg.Gemini.APIKey,
			BaseURL: cfg.Gemini.BaseURL,
			Timeout: cfg.OpenAI.Timeout,
		})
		log.Printf("Gemini configured: %s", cfg.Gemini.BaseURL)
	} else {
		log.Printf("WARNING: Gemini API key not configured - gemini models will report errors")
	}

	answerEngines := brightdata.NewClient(
		cfg.BrightData.Token,
		cfg.BrightData.BaseURL,
		cfg.BrightData.PerplexityDataset,
		cfg.BrightData.CopilotDataset,
		cfg.BrightData.Timeout,
	)
	if !answerEngines.Configured() {
		log.Printf("WARNING: Bright Data token not configured - perplexity and copilot will report errors")
	}

	// Initialize usecase layer
	serpService := usecase.NewSerpService(
		seoClient,
		usecase.NewPageTypeClassifier(openaiClient, cfg.OpenAI.Model),
		usecase.SerpServiceConfig{
			DefaultLimit: cfg.Pipeline.DefaultLimit,
			Depth:        cfg.DataForSEO.Depth,
		},
	)
	topicExtractor := usecase.NewTopicExtractor(seoClient, openaiClient, cfg.OpenAI.Model)
	topicPicker := usecase.NewTopicPicker(openaiClient, cfg.OpenAI.Model)
	mentionService := usecase.NewMentionService(
		openaiClient,
		geminiClient,
		answerEngines,
		openaiClient,
		usecase.MentionServiceConfig{GraderModel: cfg.Pipeline.GraderModel},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(httpDelivery.Services{
		Serp:     serpService,
		Topics:   topicExtractor,
		Picker:   topicPicker,
		Mentions: mentionService,
	})

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
