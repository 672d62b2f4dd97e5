package memory

import (
	"context"
	"sync"

	"github.com/ignite/club-outreach/internal/content"
	"github.com/ignite/club-outreach/internal/domain"
)

type emailKey struct {
	club  string
	stage domain.Stage
}

// EmailRepo implements content.Repository over a map keyed by (club, stage).
type EmailRepo struct {
	mu      sync.RWMutex
	records map[emailKey]domain.EmailRecord
}

// NewEmailRepo creates an empty in-memory email store.
func NewEmailRepo() *EmailRepo {
	return &EmailRepo{records: make(map[emailKey]domain.EmailRecord)}
}

func (r *EmailRepo) Get(_ context.Context, clubName string, stage domain.Stage) (*domain.EmailRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[emailKey{clubName, stage}]
	if !ok {
		return nil, content.ErrNotFound
	}
	cp := rec
	return &cp, nil
}

func (r *EmailRepo) Upsert(_ context.Context, rec *domain.EmailRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[emailKey{rec.ClubName, rec.Stage}] = *rec
	return nil
}

func (r *EmailRepo) Delete(_ context.Context, clubName string, stage domain.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, emailKey{clubName, stage})
	return nil
}

func (r *EmailRepo) List(_ context.Context) ([]domain.EmailRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.EmailRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out, nil
}
