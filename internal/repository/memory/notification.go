package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ignite/club-outreach/internal/domain"
)

// NotificationRepo implements notify.Repository over an append-only slice.
type NotificationRepo struct {
	mu      sync.RWMutex
	entries []domain.Notification
	byID    map[string]int
}

// NewNotificationRepo creates an empty in-memory notification log.
func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{byID: make(map[string]int)}
}

func (r *NotificationRepo) Append(_ context.Context, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[n.ID] = len(r.entries)
	r.entries = append(r.entries, n)
	return nil
}

func (r *NotificationRepo) ListUnread(_ context.Context) ([]domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Notification
	for _, n := range r.entries {
		if !n.IsRead {
			out = append(out, n)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *NotificationRepo) List(_ context.Context) ([]domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Notification, len(r.entries))
	copy(out, r.entries)
	sortNewestFirst(out)
	return out, nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, id string, readAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	if !r.entries[idx].IsRead {
		r.entries[idx].IsRead = true
		r.entries[idx].ReadAt = &readAt
	}
	return true, nil
}

func sortNewestFirst(ns []domain.Notification) {
	sort.SliceStable(ns, func(i, j int) bool {
		return ns[i].CreatedAt.After(ns[j].CreatedAt)
	})
}
