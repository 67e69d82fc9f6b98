package brightdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/serpops/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(token, server.URL, "gd_perplexity", "gd_copilot", time.Second)
}

func TestAsk_ReturnsAnswerText(t *testing.T) {
	client := newTestClient(t, "token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets/v3/scrape", r.URL.Path)
		assert.Equal(t, "gd_perplexity", r.URL.Query().Get("dataset_id"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		var body scrapeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Input, 1)
		assert.Equal(t, "https://www.perplexity.ai", body.Input[0].URL)
		assert.Equal(t, "SG", body.Input[0].Country)
		assert.Equal(t, 1, body.Input[0].Index)

		w.Write([]byte(`[{"answer_html": "", "answer": "Try <b>Acme</b>"}]`))
	})

	result, err := client.Ask(context.Background(), EnginePerplexity, "best espresso machine", "SG")

	require.NoError(t, err)
	assert.Equal(t, "Try <b>Acme</b>", result.Text)
	assert.Empty(t, result.SnapshotID)
}

func TestAsk_CopilotFieldPreference(t *testing.T) {
	client := newTestClient(t, "token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gd_copilot", r.URL.Query().Get("dataset_id"))
		w.Write([]byte(`{"answer_html": "<p>html</p>", "answer_text": "plain"}`))
	})

	result, err := client.Ask(context.Background(), EngineCopilot, "q", "US")

	require.NoError(t, err)
	assert.Equal(t, "plain", result.Text)
}

func TestAsk_SnapshotPending(t *testing.T) {
	client := newTestClient(t, "token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"snapshot_id": "s_123"}`))
	})

	result, err := client.Ask(context.Background(), EngineCopilot, "q", "US")

	require.NoError(t, err)
	assert.Equal(t, "s_123", result.SnapshotID)
}

func TestAsk_Errors(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		client := NewClient("", "http://unused", "a", "b", time.Second)
		_, err := client.Ask(context.Background(), EnginePerplexity, "q", "US")
		assert.ErrorIs(t, err, domain.ErrProviderNotConfigured)
		assert.False(t, client.Configured())
	})

	t.Run("unknown engine", func(t *testing.T) {
		client := NewClient("token", "http://unused", "a", "b", time.Second)
		_, err := client.Ask(context.Background(), "bard", "q", "US")
		assert.ErrorIs(t, err, domain.ErrModelNotSupported)
	})

	t.Run("no text", func(t *testing.T) {
		client := newTestClient(t, "token", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"error": "blocked"}]`))
		})
		_, err := client.Ask(context.Background(), EnginePerplexity, "q", "US")
		assert.ErrorIs(t, err, domain.ErrEmptyAnswer)
	})

	t.Run("http failure", func(t *testing.T) {
		client := newTestClient(t, "token", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := client.Ask(context.Background(), EnginePerplexity, "q", "US")
		assert.ErrorIs(t, err, domain.ErrProviderFailure)
	})
}

func TestSnapshot(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantRunning bool
		wantText    string
	}{
		{"running status", `{"status": "running"}`, true, ""},
		{"message means not ready", `{"message": "Snapshot is not ready yet, try again in 10s"}`, true, ""},
		{"finished list", `[{"answer_text": "done"}]`, false, "done"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, "token", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/datasets/v3/snapshot/s_1", r.URL.Path)
				assert.Equal(t, http.MethodGet, r.Method)
				w.Write([]byte(tt.body))
			})

			state, err := client.Snapshot(context.Background(), EngineCopilot, "s_1")

			require.NoError(t, err)
			assert.Equal(t, tt.wantRunning, state.Running)
			assert.Equal(t, tt.wantText, state.Text)
		})
	}
}
