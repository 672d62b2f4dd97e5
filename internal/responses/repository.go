package responses

import (
	"context"

	"github.com/ignite/club-outreach/internal/domain"
)

// Repository defines the data access contract for stored replies.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Insert stores a new reply.
	Insert(ctx context.Context, rec *domain.ResponseRecord) error

	// Exists reports whether a reply is already stored for the tuple.
	Exists(ctx context.Context, clubName string, stage domain.Stage, contactEmail string) (bool, error)

	// List returns stored replies, optionally filtered by club (empty string
	// means all), newest first.
	List(ctx context.Context, clubName string) ([]domain.ResponseRecord, error)

	// ListUnprocessed returns replies not yet marked processed, oldest first.
	ListUnprocessed(ctx context.Context) ([]domain.ResponseRecord, error)

	// MarkProcessed flags a reply as handled. Returns false if the id does
	// not exist.
	MarkProcessed(ctx context.Context, id string) (bool, error)

	// Delete removes a stored reply. Unknown ids are not an error.
	Delete(ctx context.Context, id string) error
}
