package memory

import (
	"context"
	"sync"

	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/status"
)

// StatusRepo implements status.Repository over a map keyed by club name.
type StatusRepo struct {
	mu      sync.RWMutex
	records map[string]domain.StatusRecord
}

// NewStatusRepo creates an empty in-memory status store.
func NewStatusRepo() *StatusRepo {
	return &StatusRepo{records: make(map[string]domain.StatusRecord)}
}

func (r *StatusRepo) Get(_ context.Context, clubName string) (*domain.StatusRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[clubName]
	if !ok {
		return nil, status.ErrNotFound
	}
	return copyStatus(rec), nil
}

func (r *StatusRepo) Upsert(_ context.Context, rec *domain.StatusRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ClubName] = *copyStatus(*rec)
	return nil
}

func (r *StatusRepo) List(_ context.Context) ([]domain.StatusRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.StatusRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *copyStatus(rec))
	}
	return out, nil
}

// copyStatus clones the record including its stage map, so callers can't
// mutate stored state through the shared map reference.
func copyStatus(rec domain.StatusRecord) *domain.StatusRecord {
	cp := rec
	cp.Stages = make(map[domain.Stage]domain.StageTracking, len(rec.Stages))
	for k, v := range rec.Stages {
		cp.Stages[k] = v
	}
	return &cp
}
