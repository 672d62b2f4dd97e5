package status

import (
	"context"

	"github.com/ignite/club-outreach/internal/domain"
)

// Repository defines the data access contract for status records.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns one club's record. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, clubName string) (*domain.StatusRecord, error)

	// Upsert inserts or replaces a club's record as a whole unit.
	Upsert(ctx context.Context, rec *domain.StatusRecord) error

	// List returns every status record.
	List(ctx context.Context) ([]domain.StatusRecord, error)
}
