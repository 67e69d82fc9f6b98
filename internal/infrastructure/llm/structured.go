package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/serpops/backend/internal/domain"
)

// MustCompileSchema compiles a JSON schema used to validate model output
func MustCompileSchema(name, src string) *jsonschema.Schema {
	return jsonschema.MustCompileString(name, src)
}

// ParseJSON parses JSON from model output, tolerating markdown code fences and
// surrounding prose. open is the delimiter of the expected top-level value ('{' or '[').
func ParseJSON(content string, open byte) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty output", domain.ErrParseFailure)
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" {
		candidates = append(candidates, stripped)
	}
	if extracted := extractDelimited(content, open); extracted != "" {
		candidates = append(candidates, extracted)
	}

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" || candidate[0] != open {
			continue
		}
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}
	return nil, fmt.Errorf("%w: no parseable JSON value", domain.ErrParseFailure)
}

// Validate checks raw JSON against schema
func Validate(schema *jsonschema.Schema, raw json.RawMessage) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrParseFailure, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrParseFailure, err)
	}
	return nil
}

func stripCodeFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return ""
	}

	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func extractDelimited(content string, open byte) string {
	closeChar := byte('}')
	if open == '[' {
		closeChar = ']'
	}

	start := strings.IndexByte(content, open)
	end := strings.LastIndexByte(content, closeChar)
	if start < 0 || end < start {
		return ""
	}
	return content[start : end+1]
}
