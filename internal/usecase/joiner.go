package usecase

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/serpops/backend/internal/domain"
)

// RankLabel is one classifier output entry. Title and description are whatever the model echoed.
type RankLabel struct {
	URL         string `json:"url"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NormalizeRankKeys converts a rank-keyed JSON object into an int-keyed map.
// Keys such as "3" and " 3 " both become 3; keys that are not integers are dropped.
func NormalizeRankKeys(raw map[string]json.RawMessage) (map[int]RankLabel, error) {
	typed := make(map[int]RankLabel, len(raw))
	for key, value := range raw {
		rank, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || rank < 1 {
			continue
		}
		var entry RankLabel
		if err := json.Unmarshal(value, &entry); err != nil {
			return nil, err
		}
		typed[rank] = entry
	}
	return typed, nil
}

// Join merges classifier output back onto the original listing. Title and description always
// come from the original entry; ranks the classifier dropped are excluded, and ranks it made up
// pass through as emitted. Output is ordered by rank.
func Join(typed map[int]RankLabel, original []domain.RankedResult) []domain.ClassifiedResult {
	byRank := make(map[int]domain.RankedResult, len(original))
	for _, r := range original {
		byRank[r.Rank] = r
	}

	joined := make([]domain.ClassifiedResult, 0, len(typed))
	for rank, entry := range typed {
		result := domain.ClassifiedResult{
			Rank:        rank,
			URL:         entry.URL,
			Title:       entry.Title,
			Description: entry.Description,
			Type:        entry.Type,
		}
		if orig, ok := byRank[rank]; ok {
			result.Title = orig.Title
			result.Description = orig.Description
			if result.URL == "" {
				result.URL = orig.URL
			}
		}
		joined = append(joined, result)
	}

	sort.Slice(joined, func(i, j int) bool { return joined[i].Rank < joined[j].Rank })
	return joined
}

// RawResults converts the listing into untyped results, keeping its order
func RawResults(original []domain.RankedResult) []domain.ClassifiedResult {
	results := make([]domain.ClassifiedResult, len(original))
	for i, r := range original {
		results[i] = domain.ClassifiedResult{
			Rank:        r.Rank,
			URL:         r.URL,
			Title:       r.Title,
			Description: r.Description,
		}
	}
	return results
}

// MarkTarget returns the rank of the first listing entry whose URL contains target.
// An empty target never matches.
func MarkTarget(original []domain.RankedResult, target string) *int {
	if target == "" {
		return nil
	}
	for _, r := range original {
		if strings.Contains(r.URL, target) {
			rank := r.Rank
			return &rank
		}
	}
	return nil
}
