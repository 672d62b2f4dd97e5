package responses

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/ignite/club-outreach/internal/brevo"
	"github.com/ignite/club-outreach/internal/domain"
)

// BrevoSource adapts the Brevo event feed into inbound replies. Outbound
// emails are tagged "club:<name>" and "type:<stage>", so replied events can
// be mapped back to a club and stage from their tag alone.
type BrevoSource struct {
	client       *brevo.Client
	lookbackDays int
}

// NewBrevoSource creates a reply source polling the last lookbackDays of
// events (default 30).
func NewBrevoSource(client *brevo.Client, lookbackDays int) *BrevoSource {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	return &BrevoSource{client: client, lookbackDays: lookbackDays}
}

// FetchReplies returns one InboundReply per replied event that carries
// usable club/stage tags. Events that can't be mapped are logged and
// skipped rather than failing the sweep.
func (b *BrevoSource) FetchReplies(ctx context.Context) ([]InboundReply, error) {
	events, err := b.client.FetchEvents(ctx, b.lookbackDays)
	if err != nil {
		return nil, err
	}

	var replies []InboundReply
	for _, ev := range events {
		if ev.Event != "replied" {
			continue
		}
		club, stage, ok := parseTag(ev.Tag)
		if !ok {
			log.Printf("[responses] replied event from %s has no club/stage tag, skipping", ev.Email)
			continue
		}
		receivedAt, err := time.Parse(time.RFC3339, ev.Date)
		if err != nil {
			receivedAt = time.Now()
		}
		replies = append(replies, InboundReply{
			ClubName:     club,
			ContactEmail: ev.Email,
			Stage:        stage,
			Content:      "Reply received via Brevo: " + ev.Subject,
			ReceivedAt:   receivedAt,
		})
	}
	return replies, nil
}

// parseTag extracts "club:<name>" and "type:<stage>" from the event tag,
// which Brevo reports as a comma-joined string.
func parseTag(tag string) (club string, stage domain.Stage, ok bool) {
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "club:"):
			club = strings.TrimPrefix(part, "club:")
		case strings.HasPrefix(part, "type:"):
			if s, err := domain.ParseStage(strings.TrimPrefix(part, "type:")); err == nil {
				stage = s
			}
		}
	}
	return club, stage, club != "" && stage.Valid()
}
