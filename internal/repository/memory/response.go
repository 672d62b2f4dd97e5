package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ignite/club-outreach/internal/domain"
)

type responseKey struct {
	club  string
	stage domain.Stage
	email string
}

// ResponseRepo implements responses.Repository over maps keyed by id and by
// the (club, stage, contact) dedup tuple.
type ResponseRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.ResponseRecord
	byTuple map[responseKey]string
}

// NewResponseRepo creates an empty in-memory response store.
func NewResponseRepo() *ResponseRepo {
	return &ResponseRepo{
		byID:    make(map[string]domain.ResponseRecord),
		byTuple: make(map[responseKey]string),
	}
}

func (r *ResponseRepo) Insert(_ context.Context, rec *domain.ResponseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rec.ID] = *rec
	r.byTuple[responseKey{rec.ClubName, rec.Stage, rec.ContactEmail}] = rec.ID
	return nil
}

func (r *ResponseRepo) Exists(_ context.Context, clubName string, stage domain.Stage, contactEmail string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byTuple[responseKey{clubName, stage, contactEmail}]
	return ok, nil
}

func (r *ResponseRepo) List(_ context.Context, clubName string) ([]domain.ResponseRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.ResponseRecord
	for _, rec := range r.byID {
		if clubName != "" && rec.ClubName != clubName {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.After(out[j].ReceivedAt) })
	return out, nil
}

func (r *ResponseRepo) ListUnprocessed(_ context.Context) ([]domain.ResponseRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.ResponseRecord
	for _, rec := range r.byID {
		if !rec.Processed {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.Before(out[j].ReceivedAt) })
	return out, nil
}

func (r *ResponseRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return nil
	}
	delete(r.byID, id)
	delete(r.byTuple, responseKey{rec.ClubName, rec.Stage, rec.ContactEmail})
	return nil
}

func (r *ResponseRepo) MarkProcessed(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	rec.Processed = true
	r.byID[id] = rec
	return true, nil
}
