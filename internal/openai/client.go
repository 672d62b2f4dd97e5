// Package openai calls the OpenAI chat completions API for club research
// (search model with web search) and email personalization (content model).
// It is the ContentGenerator collaborator behind the research cache and the
// email content service.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ignite/club-outreach/internal/config"
	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/pkg/httpretry"
)

// Client is an OpenAI chat completions client
type Client struct {
	baseURL      string
	apiKey       string
	searchModel  string
	contentModel string
	httpClient   httpretry.HTTPDoer
}

// NewClient creates a new OpenAI client
func NewClient(cfg config.OpenAIConfig) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		searchModel:  cfg.SearchModel,
		contentModel: cfg.ContentModel,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// ChatMessage represents a message in the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request to chat completions
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the response from chat completions
type ChatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index   int         `json:"index"`
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens        int `json:"prompt_tokens"`
		CompletionTokens    int `json:"completion_tokens"`
		PromptTokensDetails struct {
			CachedTokens int `json:"cached_tokens"`
		} `json:"prompt_tokens_details"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// complete runs one chat completion and returns the text plus token usage.
func (c *Client) complete(ctx context.Context, model, system, user string) (string, domain.TokenUsage, error) {
	reqBody := ChatRequest{
		Model: model,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", domain.TokenUsage{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", domain.TokenUsage{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.TokenUsage{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.TokenUsage{}, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", domain.TokenUsage{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result ChatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", domain.TokenUsage{}, fmt.Errorf("parsing response: %w", err)
	}
	if result.Error != nil {
		return "", domain.TokenUsage{}, fmt.Errorf("API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", domain.TokenUsage{}, fmt.Errorf("empty response from model %s", model)
	}

	usage := domain.TokenUsage{
		InputTokens:  result.Usage.PromptTokens,
		OutputTokens: result.Usage.CompletionTokens,
		CachedTokens: result.Usage.PromptTokensDetails.CachedTokens,
	}
	return result.Choices[0].Message.Content, usage, nil
}

// Research runs the search model over one club and returns the raw
// three-section research blob. Satisfies research.Generator.
func (c *Client) Research(ctx context.Context, clubName, website, country string) (string, domain.TokenUsage, error) {
	return c.complete(ctx, c.searchModel, researchSystemPrompt, researchPrompt(clubName, website, country))
}

// Personalize runs the content model over a research section and returns
// the short personalized fragment. Satisfies content.Generator.
func (c *Client) Personalize(ctx context.Context, clubName, researchSection string) (string, domain.TokenUsage, error) {
	return c.complete(ctx, c.contentModel, personalizeSystemPrompt, personalizePrompt(clubName, researchSection))
}
