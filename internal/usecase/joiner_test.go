package usecase

import (
	"encoding/json"
	"testing"

	"github.com/serpops/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRankKeys(t *testing.T) {
	raw := map[string]json.RawMessage{
		"1":           json.RawMessage(`{"url": "https://a.example.com", "type": "blog article"}`),
		" 3 ":         json.RawMessage(`{"url": "https://c.example.com", "type": "directory"}`),
		"target_rank": json.RawMessage(`4`),
		"0":           json.RawMessage(`{"url": "https://zero.example.com"}`),
	}

	typed, err := NormalizeRankKeys(raw)

	require.NoError(t, err)
	assert.Len(t, typed, 2)
	assert.Equal(t, "blog article", typed[1].Type)
	assert.Equal(t, "directory", typed[3].Type)
}

func TestNormalizeRankKeys_BadEntry(t *testing.T) {
	_, err := NormalizeRankKeys(map[string]json.RawMessage{"1": json.RawMessage(`"blog"`)})
	assert.Error(t, err)
}

func TestJoin(t *testing.T) {
	original := listingOf("https://a.example.com", "https://b.example.com", "https://c.example.com", "https://d.example.com")

	t.Run("restores title and description from the listing", func(t *testing.T) {
		typed := map[int]RankLabel{
			2: {URL: "https://b.example.com", Type: "landing page", Title: "Hallucinated", Description: "Truncated..."},
		}

		joined := Join(typed, original)

		require.Len(t, joined, 1)
		assert.Equal(t, original[1].Title, joined[0].Title)
		assert.Equal(t, original[1].Description, joined[0].Description)
		assert.Equal(t, "landing page", joined[0].Type)
	})

	t.Run("size equals rank intersection for a strict subset", func(t *testing.T) {
		typed := map[int]RankLabel{
			4: {URL: "https://d.example.com", Type: "blog article"},
			1: {URL: "https://a.example.com", Type: "blog article"},
		}

		joined := Join(typed, original)

		require.Len(t, joined, 2)
		assert.Equal(t, 1, joined[0].Rank)
		assert.Equal(t, 4, joined[1].Rank)
	})

	t.Run("typed only ranks pass through", func(t *testing.T) {
		typed := map[int]RankLabel{
			9: {URL: "https://extra.example.com", Type: "directory", Title: "From model"},
		}

		joined := Join(typed, original)

		require.Len(t, joined, 1)
		assert.Equal(t, "From model", joined[0].Title)
		assert.Equal(t, "https://extra.example.com", joined[0].URL)
	})

	t.Run("missing url is restored", func(t *testing.T) {
		joined := Join(map[int]RankLabel{3: {Type: "directory"}}, original)

		require.Len(t, joined, 1)
		assert.Equal(t, "https://c.example.com", joined[0].URL)
	})
}

func TestMarkTarget(t *testing.T) {
	listing := []domain.RankedResult{
		{Rank: 1, URL: "https://example.com"},
		{Rank: 4, URL: "https://acme.com/pricing"},
		{Rank: 6, URL: "https://blog.acme.com/post"},
	}

	tests := []struct {
		name   string
		target string
		want   *int
	}{
		{"first match wins", "acme.com", intPtr(4)},
		{"plain substring", "/post", intPtr(6)},
		{"no match", "globex.com", nil},
		{"empty target", "", nil},
		{"not normalized", "ACME.COM", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MarkTarget(listing, tt.target))
		})
	}
}

func intPtr(v int) *int { return &v }
