package memory

import (
	"context"
	"sync"

	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/research"
)

// ResearchRepo implements research.Repository over a map keyed by club name.
type ResearchRepo struct {
	mu      sync.RWMutex
	records map[string]domain.ResearchRecord
}

// NewResearchRepo creates an empty in-memory research store.
func NewResearchRepo() *ResearchRepo {
	return &ResearchRepo{records: make(map[string]domain.ResearchRecord)}
}

func (r *ResearchRepo) Get(_ context.Context, clubName string) (*domain.ResearchRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[clubName]
	if !ok {
		return nil, research.ErrNotFound
	}
	cp := rec
	return &cp, nil
}

func (r *ResearchRepo) Upsert(_ context.Context, rec *domain.ResearchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ClubName] = *rec
	return nil
}

func (r *ResearchRepo) Delete(_ context.Context, clubName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, clubName)
	return nil
}

func (r *ResearchRepo) List(_ context.Context) ([]domain.ResearchRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ResearchRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out, nil
}
