package content

import (
	"context"

	"github.com/ignite/club-outreach/internal/domain"
)

// Repository defines the data access contract for generated emails.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns the email for (club, stage). Returns ErrNotFound if none
	// has been generated.
	Get(ctx context.Context, clubName string, stage domain.Stage) (*domain.EmailRecord, error)

	// Upsert inserts or replaces the record for its (club, stage) key.
	Upsert(ctx context.Context, rec *domain.EmailRecord) error

	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, clubName string, stage domain.Stage) error

	// List returns every generated email.
	List(ctx context.Context) ([]domain.EmailRecord, error)
}

// Generator produces the short personalized fragment for one email from the
// club's research. May fail; the service substitutes a fallback fragment.
type Generator interface {
	Personalize(ctx context.Context, clubName, researchSection string) (content string, usage domain.TokenUsage, err error)
}

// ResearchProvider is the slice of the research cache the service needs.
type ResearchProvider interface {
	Get(ctx context.Context, club domain.Club, stage domain.Stage) (string, *domain.ResearchRecord, error)
}

// Tracker is the slice of the campaign state tracker the service needs.
type Tracker interface {
	RecordSent(ctx context.Context, club domain.Club, stage domain.Stage, notes string) (*domain.StatusRecord, error)
}

// OutboundMessage is one email handed to the delivery provider.
type OutboundMessage struct {
	Club    string
	Stage   domain.Stage
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

// Sender delivers emails through the mail provider. Optional; when absent
// sends are recorded without delivery (the operator sends by hand).
type Sender interface {
	Send(ctx context.Context, msg OutboundMessage) (messageID string, err error)
}
