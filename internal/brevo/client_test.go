package brevo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/club-outreach/internal/config"
	"github.com/ignite/club-outreach/internal/domain"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(config.BrevoConfig{
		BaseURL:     srv.URL,
		APIKey:      "test-key",
		SenderName:  "Ignite",
		SenderEmail: "hello@ignite.example",
	})
}

func TestSendEmailPayload(t *testing.T) {
	var got sendRequest
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/smtp/email", r.URL.Path)
		apiKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"messageId":"msg-123"}`))
	}))
	defer srv.Close()

	id, err := newTestClient(srv).SendEmail(context.Background(), SendInput{
		ToEmail: "alex@example.com",
		ToName:  "Alex",
		Subject: "Hello from Ignite",
		Body:    "Hi there",
		Club:    "Harrow Camera Club",
		Stage:   domain.StageIntroduction,
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-123", id)
	assert.Equal(t, "test-key", apiKey)

	assert.Equal(t, "hello@ignite.example", got.Sender.Email)
	require.Len(t, got.To, 1)
	assert.Equal(t, "alex@example.com", got.To[0].Email)
	assert.Equal(t, "Hi there", got.TextContent)
	assert.Equal(t, []string{"club:Harrow Camera Club", "type:introduction"}, got.Tags)
}

func TestSendEmailAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid key"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).SendEmail(context.Background(), SendInput{ToEmail: "a@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestFetchEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/smtp/statistics/events", r.URL.Path)
		assert.Equal(t, "30", r.URL.Query().Get("days"))
		w.Write([]byte(`{"events":[
			{"event":"replied","email":"alex@example.com","tag":"club:Harrow Camera Club,type:introduction","date":"2026-08-28 10:00:00"},
			{"event":"delivered","email":"alex@example.com"}
		]}`))
	}))
	defer srv.Close()

	events, err := newTestClient(srv).FetchEvents(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "replied", events[0].Event)
	assert.Equal(t, "club:Harrow Camera Club,type:introduction", events[0].Tag)
}

func TestTestConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/account", r.URL.Path)
		w.Write([]byte(`{"email":"hello@ignite.example"}`))
	}))
	defer srv.Close()

	assert.NoError(t, newTestClient(srv).TestConnection(context.Background()))
}
