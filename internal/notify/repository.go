package notify

import (
	"context"
	"time"

	"github.com/ignite/club-outreach/internal/domain"
)

// Repository defines the data access contract for notifications.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Append stores a new notification.
	Append(ctx context.Context, n domain.Notification) error

	// ListUnread returns unread notifications, most recent first.
	ListUnread(ctx context.Context) ([]domain.Notification, error)

	// List returns the full log, most recent first.
	List(ctx context.Context) ([]domain.Notification, error)

	// MarkRead flips is_read and stamps read_at. Returns false if the id
	// does not exist. Marking an already-read notification is a no-op that
	// still reports true.
	MarkRead(ctx context.Context, id string, readAt time.Time) (bool, error)
}
