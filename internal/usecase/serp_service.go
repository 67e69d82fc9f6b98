package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/serpops/backend/internal/domain"
	"github.com/serpops/backend/internal/metrics"
)

// SerpServiceConfig holds configuration for the page type pipeline
type SerpServiceConfig struct {
	DefaultLimit int
	Depth        int
}

// SerpService fetches a ranked listing, classifies page types and filters the result
type SerpService struct {
	provider     domain.SerpProvider
	classifier   *PageTypeClassifier
	defaultLimit int
	depth        int
}

// NewSerpService creates a new SERP service with dependencies
func NewSerpService(provider domain.SerpProvider, classifier *PageTypeClassifier, config SerpServiceConfig) *SerpService {
	defaultLimit := config.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	depth := config.Depth
	if depth <= 0 {
		depth = 100
	}

	return &SerpService{
		provider:     provider,
		classifier:   classifier,
		defaultLimit: defaultLimit,
		depth:        depth,
	}
}

// Run executes the pipeline for one request.
// Flow: fetch listing -> mark target -> classify -> join -> filter/limit.
// Only the listing fetch is fatal; classification problems fall back to the raw listing.
func (s *SerpService) Run(ctx context.Context, request *domain.SerpRequest) (*domain.SerpResponse, error) {
	if err := validateSerpRequest(request); err != nil {
		return nil, err
	}

	// Apply defaults
	limit := request.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	depth := request.Depth
	if depth <= 0 {
		depth = s.depth
	}

	// Fetch the organic listing - the only fatal step
	listing, err := s.provider.FetchListing(ctx, domain.ListingQuery{
		Keyword:  request.Keyword,
		Location: request.Location,
		Language: request.Language,
		Depth:    depth,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[SERP] %q in %s: %d organic results (limit %d, user %q)",
		request.Keyword, request.Location, len(listing), limit, request.User)

	// Nothing ranked, nothing to classify
	if len(listing) == 0 {
		return &domain.SerpResponse{Results: []domain.ClassifiedResult{}}, nil
	}

	// Target rank comes from the raw listing so it survives a classifier failure
	response := &domain.SerpResponse{TargetRank: MarkTarget(listing, request.TargetURL)}

	// Classify page types
	typed, err := s.classifier.Classify(ctx, listing)
	if err != nil {
		log.Printf("[SERP] Classification unavailable, returning raw listing: %v", err)
		metrics.RecordFallback("serp", "classifier_unavailable")
		response.Results = Truncate(RawResults(listing), limit)
		return response, nil
	}

	// Join titles back, then filter and limit
	response.Classified = true
	results, fellBack := SelectResults(Join(typed, listing), request.PageTypes, limit)
	if fellBack {
		log.Printf("[SERP] No results matched page types %v, returning unfiltered", []string(request.PageTypes))
		metrics.RecordFallback("serp", "filter_empty")
	}
	response.Results = results

	return response, nil
}

func validateSerpRequest(request *domain.SerpRequest) error {
	if request == nil {
		return domain.ErrInvalidRequest
	}
	missing := make([]string, 0, 3)
	if strings.TrimSpace(request.Keyword) == "" {
		missing = append(missing, "keyword")
	}
	if strings.TrimSpace(request.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(request.Language) == "" {
		missing = append(missing, "language")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrInvalidRequest, strings.Join(missing, ", "))
	}
	return nil
}
