// Package brevo is a thin client for the Brevo transactional email API.
// Only the narrow surface the outreach workflow needs is implemented:
// sending one email, listing delivery events, and a connection test.
package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ignite/club-outreach/internal/config"
	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/pkg/httpretry"
)

// Client is a Brevo API client
type Client struct {
	baseURL     string
	apiKey      string
	senderName  string
	senderEmail string
	httpClient  httpretry.HTTPDoer
}

// NewClient creates a new Brevo API client
func NewClient(cfg config.BrevoConfig) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		senderName:  cfg.SenderName,
		senderEmail: cfg.SenderEmail,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// doRequest makes an HTTP request to the Brevo API with api-key auth
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	fullURL := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// SendInput describes one outbound email.
type SendInput struct {
	ToEmail string
	ToName  string
	Subject string
	Body    string
	Club    string
	Stage   domain.Stage
}

type sendRequest struct {
	Sender      contact   `json:"sender"`
	To          []contact `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"htmlContent"`
	TextContent string    `json:"textContent"`
	Tags        []string  `json:"tags,omitempty"`
}

type contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type sendResponse struct {
	MessageID string `json:"messageId"`
}

// SendEmail delivers one outreach email and returns the Brevo message id.
// The club and stage are attached as tags so inbound events can be mapped
// back without a local message-id index.
func (c *Client) SendEmail(ctx context.Context, in SendInput) (string, error) {
	payload := sendRequest{
		Sender:      contact{Name: c.senderName, Email: c.senderEmail},
		To:          []contact{{Name: in.ToName, Email: in.ToEmail}},
		Subject:     in.Subject,
		HTMLContent: "<html><body><p>" + in.Body + "</p></body></html>",
		TextContent: in.Body,
		Tags:        []string{"club:" + in.Club, "type:" + string(in.Stage)},
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/smtp/email", payload)
	if err != nil {
		return "", fmt.Errorf("send email to %s: %w", in.ToEmail, err)
	}

	var result sendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parse send response: %w", err)
	}
	return result.MessageID, nil
}

// Event is one entry from the Brevo transactional event feed.
type Event struct {
	Event     string `json:"event"`
	Email     string `json:"email"`
	MessageID string `json:"messageId"`
	Date      string `json:"date"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag"`
	From      string `json:"from"`
}

type eventsResponse struct {
	Events []Event `json:"events"`
}

// FetchEvents returns transactional events from the last daysBack days.
func (c *Client) FetchEvents(ctx context.Context, daysBack int) ([]Event, error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(daysBack))
	params.Set("limit", "500")

	body, err := c.doRequest(ctx, http.MethodGet, "/smtp/statistics/events?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}

	var result eventsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse events response: %w", err)
	}
	return result.Events, nil
}

// TestConnection verifies the API key against the account endpoint.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/account", nil)
	return err
}
