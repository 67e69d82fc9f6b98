package llm

import (
	"testing"

	"github.com/serpops/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		open    byte
		want    string
		wantErr bool
	}{
		{name: "plain object", content: `{"a": 1}`, open: '{', want: `{"a": 1}`},
		{name: "fenced object", content: "```json\n{\"a\": 1}\n```", open: '{', want: `{"a": 1}`},
		{name: "object in prose", content: `Here you go: {"a": 1} hope it helps`, open: '{', want: `{"a": 1}`},
		{name: "fenced array", content: "```\n[\"x\", \"y\"]\n```", open: '[', want: `["x", "y"]`},
		{name: "array in prose", content: `Topics: ["x"]`, open: '[', want: `["x"]`},
		{name: "wrong kind", content: `["x"]`, open: '{', wantErr: true},
		{name: "empty", content: "   ", open: '{', wantErr: true},
		{name: "broken", content: `{"a": `, open: '{', wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ParseJSON(tt.content, tt.open)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrParseFailure)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}

func TestValidate(t *testing.T) {
	schema := MustCompileSchema("test.json", `{
		"type": "object",
		"required": ["topics"],
		"properties": {"topics": {"type": "object"}}
	}`)

	assert.NoError(t, Validate(schema, []byte(`{"topics": {"a": 1}}`)))
	assert.ErrorIs(t, Validate(schema, []byte(`{"topics": "none"}`)), domain.ErrParseFailure)
	assert.ErrorIs(t, Validate(schema, []byte(`{}`)), domain.ErrParseFailure)
	assert.ErrorIs(t, Validate(schema, []byte(`not json`)), domain.ErrParseFailure)
}
