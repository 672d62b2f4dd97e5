package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/ignite/club-outreach/internal/domain"
)

// NotificationRepo implements notify.Repository against PostgreSQL.
type NotificationRepo struct{ db *sql.DB }

// NewNotificationRepo creates a Postgres-backed notification repository.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

const notificationColumns = `
	id, club_name, stage, kind, message, is_read, created_at, read_at`

func scanNotification(row interface{ Scan(...interface{}) error }) (*domain.Notification, error) {
	n := &domain.Notification{}
	var readAt sql.NullTime
	err := row.Scan(
		&n.ID, &n.ClubName, &n.Stage, &n.Kind, &n.Message, &n.IsRead, &n.CreatedAt, &readAt,
	)
	if err != nil {
		return nil, err
	}
	if readAt.Valid {
		v := readAt.Time
		n.ReadAt = &v
	}
	return n, nil
}

func (r *NotificationRepo) Append(ctx context.Context, n domain.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO outreach_notifications
			(id, club_name, stage, kind, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.ID, n.ClubName, string(n.Stage), string(n.Kind), n.Message, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("append notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) ListUnread(ctx context.Context) ([]domain.Notification, error) {
	return r.list(ctx, `
		SELECT`+notificationColumns+`
		FROM outreach_notifications
		WHERE is_read = false
		ORDER BY created_at DESC
	`)
}

func (r *NotificationRepo) List(ctx context.Context) ([]domain.Notification, error) {
	return r.list(ctx, `
		SELECT`+notificationColumns+`
		FROM outreach_notifications
		ORDER BY created_at DESC
	`)
}

func (r *NotificationRepo) list(ctx context.Context, q string) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			log.Printf("[postgres] skipping unreadable notification row: %v", err)
			continue
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id string, readAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE outreach_notifications
		SET is_read = true, read_at = $1
		WHERE id = $2 AND is_read = false
	`, readAt, id)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return true, nil
	}

	// Already-read notifications still count as found.
	var exists bool
	if err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM outreach_notifications WHERE id = $1)
	`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check notification: %w", err)
	}
	return exists, nil
}
