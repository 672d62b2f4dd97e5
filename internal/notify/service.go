package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/club-outreach/internal/domain"
)

// Service implements the notification center on top of a Repository.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a notification center backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Emit appends an unread notification. Every call stores a new entry, even
// if an identical one already exists.
func (s *Service) Emit(ctx context.Context, clubName string, stage domain.Stage, kind domain.NotificationKind, message string) (domain.Notification, error) {
	n := domain.Notification{
		ID:        uuid.New().String(),
		ClubName:  clubName,
		Stage:     stage,
		Kind:      kind,
		Message:   message,
		IsRead:    false,
		CreatedAt: s.now(),
	}
	if err := s.repo.Append(ctx, n); err != nil {
		return domain.Notification{}, fmt.Errorf("append notification: %w", err)
	}
	return n, nil
}

// ListUnread returns all unread notifications, most recent first.
func (s *Service) ListUnread(ctx context.Context) ([]domain.Notification, error) {
	return s.repo.ListUnread(ctx)
}

// List returns the full notification log, most recent first.
func (s *Service) List(ctx context.Context) ([]domain.Notification, error) {
	return s.repo.List(ctx)
}

// MarkRead marks a notification as read. Idempotent: returns true when the
// notification exists (whether or not it was already read), false when it
// doesn't. Storage errors are logged and reported as false rather than
// surfaced, since the caller only needs a success flag.
func (s *Service) MarkRead(ctx context.Context, id string) bool {
	ok, err := s.repo.MarkRead(ctx, id, s.now())
	if err != nil {
		log.Printf("[notify] mark read %s: %v", id, err)
		return false
	}
	return ok
}
