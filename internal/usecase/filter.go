package usecase

import (
	"strings"

	"github.com/serpops/backend/internal/domain"
)

// FilterByType keeps results whose type contains any of pageTypes, case-insensitively.
// "any" in pageTypes disables filtering.
func FilterByType(results []domain.ClassifiedResult, pageTypes []string) []domain.ClassifiedResult {
	wanted := make([]string, 0, len(pageTypes))
	for _, t := range pageTypes {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == domain.AnyPageType {
			return results
		}
		if t != "" {
			wanted = append(wanted, t)
		}
	}

	filtered := make([]domain.ClassifiedResult, 0, len(results))
	for _, r := range results {
		resultType := strings.ToLower(r.Type)
		for _, t := range wanted {
			if strings.Contains(resultType, t) {
				filtered = append(filtered, r)
				break
			}
		}
	}
	return filtered
}

// SelectResults applies the type filter and limit to a classified set.
// A filter that matches nothing falls back to the unfiltered set, so typed data is never
// hidden by an overly narrow filter. fellBack reports whether that happened.
func SelectResults(classified []domain.ClassifiedResult, pageTypes []string, limit int) (results []domain.ClassifiedResult, fellBack bool) {
	if len(classified) == 0 {
		return []domain.ClassifiedResult{}, false
	}

	filtered := FilterByType(classified, pageTypes)
	if len(filtered) == 0 {
		return Truncate(classified, limit), true
	}
	return Truncate(filtered, limit), false
}

// Truncate keeps the first limit results in their current order
func Truncate(results []domain.ClassifiedResult, limit int) []domain.ClassifiedResult {
	if limit >= 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
