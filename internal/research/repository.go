package research

import (
	"context"

	"github.com/ignite/club-outreach/internal/domain"
)

// Repository defines the data access contract for research records.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns one club's record. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, clubName string) (*domain.ResearchRecord, error)

	// Upsert inserts or replaces a club's record as a whole unit.
	Upsert(ctx context.Context, rec *domain.ResearchRecord) error

	// Delete removes a club's record. Deleting a missing record is not an
	// error.
	Delete(ctx context.Context, clubName string) error

	// List returns every research record, current and expired.
	List(ctx context.Context) ([]domain.ResearchRecord, error)
}

// Generator produces raw research for one club. A single call must cover all
// three email stages. May fail; the cache converts failures to fallback
// content.
type Generator interface {
	Research(ctx context.Context, clubName, website, country string) (raw string, usage domain.TokenUsage, err error)
}
