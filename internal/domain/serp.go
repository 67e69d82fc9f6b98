package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MaxOrganicRank is the deepest rank kept from a listing fetch
const MaxOrganicRank = 101

// AnyPageType disables page type filtering
const AnyPageType = "any"

// RankedResult is one organic listing entry as returned by the SERP provider
type RankedResult struct {
	Rank        int    `json:"rank"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ClassifiedResult is a listing entry annotated with a page type label.
// Entries that never went through classification carry an empty Type.
type ClassifiedResult struct {
	Rank        int    `json:"-"`
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
}

// ListingQuery is the exact payload sent to the SERP provider
type ListingQuery struct {
	Keyword  string
	Location string
	Language string
	Depth    int
}

// StringList accepts either a single JSON string or a list of strings
type StringList []string

// UnmarshalJSON implements json.Unmarshaler
func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*l = many
	return nil
}

// SerpRequest is the inbound request for the page type pipeline
type SerpRequest struct {
	Keyword   string     `json:"keyword"`
	Location  string     `json:"location"`
	Language  string     `json:"language"`
	PageTypes StringList `json:"page_types"`
	TargetURL string     `json:"targeted_url,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Depth     int        `json:"depth,omitempty"`
	User      string     `json:"user,omitempty"`
}

// SerpResponse is the filtered, rank-ordered result of one pipeline run
type SerpResponse struct {
	Results    []ClassifiedResult
	TargetRank *int
	// Classified reports whether the page type classification step produced usable output
	Classified bool
}

// MarshalJSON renders the results as an object keyed by rank, keeping rank order.
func (r SerpResponse) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, result := range r.Results {
		if i > 0 {
			buf.WriteByte(',')
		}
		value, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(result.Rank)))
		buf.WriteByte(':')
		buf.Write(value)
	}
	if r.TargetRank != nil {
		if len(r.Results) > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`"target_rank":`)
		buf.WriteString(strconv.Itoa(*r.TargetRank))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
