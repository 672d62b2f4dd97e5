package content

import (
	"context"

	"github.com/ignite/club-outreach/internal/brevo"
)

// BrevoSender adapts the Brevo client to the Sender interface.
type BrevoSender struct {
	client *brevo.Client
}

// NewBrevoSender wraps a Brevo client for outbound delivery.
func NewBrevoSender(client *brevo.Client) *BrevoSender {
	return &BrevoSender{client: client}
}

func (s *BrevoSender) Send(ctx context.Context, msg OutboundMessage) (string, error) {
	return s.client.SendEmail(ctx, brevo.SendInput{
		ToEmail: msg.ToEmail,
		ToName:  msg.ToName,
		Subject: msg.Subject,
		Body:    msg.Body,
		Club:    msg.Club,
		Stage:   msg.Stage,
	})
}
