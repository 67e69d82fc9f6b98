package dataforseo

import (
	"sort"
	"strings"

	"github.com/serpops/backend/internal/domain"
)

const (
	organicType           = "organic"
	contentParsingElement = "content_parsing_element"
	defaultTitle          = "No Title"
	defaultDescription    = "No Description"
)

// MapOrganicResults keeps organic items that carry both a URL and a rank, drops anything
// ranked deeper than MaxOrganicRank and returns them in ascending rank order.
// A repeated rank keeps the last item seen.
func MapOrganicResults(items []serpItem) []domain.RankedResult {
	byRank := make(map[int]domain.RankedResult, len(items))
	for _, item := range items {
		if item.Type != organicType || item.URL == "" || item.RankGroup == nil {
			continue
		}
		rank := *item.RankGroup
		if rank < 1 || rank > domain.MaxOrganicRank {
			continue
		}
		byRank[rank] = domain.RankedResult{
			Rank:        rank,
			URL:         item.URL,
			Title:       stringOr(item.Title, defaultTitle),
			Description: stringOr(item.Description, defaultDescription),
		}
	}

	results := make([]domain.RankedResult, 0, len(byRank))
	for _, result := range byRank {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Rank < results[j].Rank })
	return results
}

// ExtractPageContent walks every content parsing element and collects headings by level and body text.
// Headings outside h1..h6 are ignored.
func ExtractPageContent(resp *contentParsingResponse) *domain.PageContent {
	content := &domain.PageContent{
		Headings: make(map[int][]string, domain.HeadingLevels),
	}
	for level := 1; level <= domain.HeadingLevels; level++ {
		content.Headings[level] = []string{}
	}

	for _, task := range resp.Tasks {
		for _, result := range task.Result {
			for _, item := range result.Items {
				if item.Type != contentParsingElement || item.PageContent == nil {
					continue
				}
				collectPage(content, item.PageContent)
			}
		}
	}
	return content
}

func collectPage(content *domain.PageContent, page *pageContent) {
	for _, topics := range [][]topicBlock{page.MainTopic, page.SecondaryTopic} {
		for _, topic := range topics {
			if topic.Level >= 1 && topic.Level <= domain.HeadingLevels {
				content.Headings[topic.Level] = append(content.Headings[topic.Level], flatten(topic.HTitle))
			}
			content.Text = appendBlocks(content.Text, topic.PrimaryContent)
			content.Text = appendBlocks(content.Text, topic.SecondaryContent)
		}
	}

	if page.Header != nil {
		content.Text = appendBlocks(content.Text, page.Header.PrimaryContent)
		content.Text = appendBlocks(content.Text, page.Header.SecondaryContent)
	}
	if page.Footer != nil {
		content.Text = appendBlocks(content.Text, page.Footer.SecondaryContent)
	}
}

func appendBlocks(text []string, blocks []textBlock) []string {
	for _, block := range blocks {
		if line := flatten(block.Text); line != "" {
			text = append(text, line)
		}
	}
	return text
}

func flatten(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
