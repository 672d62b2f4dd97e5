package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/club-outreach/internal/config"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(config.OpenAIConfig{
		BaseURL:      srv.URL,
		APIKey:       "test-key",
		SearchModel:  "o3",
		ContentModel: "gpt-4.1-nano",
	})
}

func TestResearchParsesUsage(t *testing.T) {
	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "research blob"}}],
			"usage": {"prompt_tokens": 1200, "completion_tokens": 800, "prompt_tokens_details": {"cached_tokens": 200}}
		}`))
	}))
	defer srv.Close()

	raw, usage, err := newTestClient(srv).Research(context.Background(), "Harrow Camera Club", "https://harrowcc.example", "UK")
	require.NoError(t, err)
	assert.Equal(t, "research blob", raw)
	assert.Equal(t, 1200, usage.InputTokens)
	assert.Equal(t, 800, usage.OutputTokens)
	assert.Equal(t, 200, usage.CachedTokens)

	assert.Equal(t, "o3", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[1].Content, "Harrow Camera Club")
}

func TestPersonalizeUsesContentModel(t *testing.T) {
	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "fragment"}}], "usage": {"prompt_tokens": 10, "completion_tokens": 5}}`))
	}))
	defer srv.Close()

	fragment, _, err := newTestClient(srv).Personalize(context.Background(), "club", "section")
	require.NoError(t, err)
	assert.Equal(t, "fragment", fragment)
	assert.Equal(t, "gpt-4.1-nano", got.Model)
}

func TestAPIErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [], "error": {"message": "rate limited", "type": "rate_limit"}}`))
	}))
	defer srv.Close()

	_, _, err := newTestClient(srv).Research(context.Background(), "club", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	_, _, err := newTestClient(srv).Research(context.Background(), "club", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}
