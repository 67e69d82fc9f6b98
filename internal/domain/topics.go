package domain

import (
	"encoding/json"
	"fmt"
)

// HeadingLevels is the number of heading levels tracked per page (h1..h6)
const HeadingLevels = 6

// TopicRequest asks for the topic breakdown of a single page
type TopicRequest struct {
	URL     string `json:"url"`
	Keyword string `json:"keyword"`
}

// PageContent is the parsed text of a page as reported by the content parsing provider
type PageContent struct {
	Headings map[int][]string
	Text     []string
}

// TopicBreakdown is the per-URL result of topic extraction.
// A nil Topics map is rendered as an empty string, the failure marker callers expect.
type TopicBreakdown struct {
	URL       string
	Headings  map[int][]string
	WordCount int
	Topics    map[string]int
	PageType  string
}

// NewTopicBreakdown returns an empty breakdown with every heading level present
func NewTopicBreakdown(url string) *TopicBreakdown {
	headings := make(map[int][]string, HeadingLevels)
	for level := 1; level <= HeadingLevels; level++ {
		headings[level] = []string{}
	}
	return &TopicBreakdown{URL: url, Headings: headings}
}

// MarshalJSON implements json.Marshaler
func (b TopicBreakdown) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, HeadingLevels+3)
	for level := 1; level <= HeadingLevels; level++ {
		lines := b.Headings[level]
		if lines == nil {
			lines = []string{}
		}
		out[fmt.Sprintf("h%d", level)] = lines
	}
	out["word_count"] = b.WordCount
	if b.Topics == nil {
		out["topics"] = ""
	} else {
		out["topics"] = b.Topics
	}
	out["page_type"] = b.PageType
	return json.Marshal(out)
}

// TopicPickRequest asks the model to select the most important topics gathered from competitors
type TopicPickRequest struct {
	PrimaryKeyword    string          `json:"primary_keyword"`
	SecondaryKeywords []string        `json:"secondary_keywords"`
	AllTopics         json.RawMessage `json:"all_topics"`
	Location          string          `json:"location"`
}

// TopicPickResult is the selected topic list
type TopicPickResult struct {
	SelectedTopics []string `json:"selected_topics"`
}
