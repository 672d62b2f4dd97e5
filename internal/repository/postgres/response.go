package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/ignite/club-outreach/internal/domain"
)

// ResponseRepo implements responses.Repository against PostgreSQL.
type ResponseRepo struct{ db *sql.DB }

// NewResponseRepo creates a Postgres-backed response repository.
func NewResponseRepo(db *sql.DB) *ResponseRepo { return &ResponseRepo{db: db} }

const responseColumns = `
	id, club_name, contact_name, contact_email, stage, kind, content,
	received_at, detection_method, processed, created_at`

func scanResponse(row interface{ Scan(...interface{}) error }) (*domain.ResponseRecord, error) {
	rec := &domain.ResponseRecord{}
	err := row.Scan(
		&rec.ID, &rec.ClubName, &rec.ContactName, &rec.ContactEmail,
		&rec.Stage, &rec.Kind, &rec.Content,
		&rec.ReceivedAt, &rec.DetectionMethod, &rec.Processed, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *ResponseRepo) Insert(ctx context.Context, rec *domain.ResponseRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO outreach_responses
			(id, club_name, contact_name, contact_email, stage, kind, content,
			 received_at, detection_method, processed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, rec.ID, rec.ClubName, rec.ContactName, rec.ContactEmail,
		string(rec.Stage), string(rec.Kind), rec.Content,
		rec.ReceivedAt, rec.DetectionMethod, rec.Processed, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

func (r *ResponseRepo) Exists(ctx context.Context, clubName string, stage domain.Stage, contactEmail string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM outreach_responses
			WHERE club_name = $1 AND stage = $2 AND contact_email = $3
		)
	`, clubName, string(stage), contactEmail).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check response: %w", err)
	}
	return exists, nil
}

func (r *ResponseRepo) List(ctx context.Context, clubName string) ([]domain.ResponseRecord, error) {
	q := `
		SELECT` + responseColumns + `
		FROM outreach_responses`
	args := []interface{}{}
	if clubName != "" {
		q += ` WHERE club_name = $1`
		args = append(args, clubName)
	}
	q += ` ORDER BY received_at DESC`
	return r.list(ctx, q, args...)
}

func (r *ResponseRepo) ListUnprocessed(ctx context.Context) ([]domain.ResponseRecord, error) {
	return r.list(ctx, `
		SELECT`+responseColumns+`
		FROM outreach_responses
		WHERE processed = false
		ORDER BY received_at ASC
	`)
}

func (r *ResponseRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.ResponseRecord, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var out []domain.ResponseRecord
	for rows.Next() {
		rec, err := scanResponse(rows)
		if err != nil {
			log.Printf("[postgres] skipping unreadable response row: %v", err)
			continue
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *ResponseRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM outreach_responses WHERE id = $1
	`, id); err != nil {
		return fmt.Errorf("delete response: %w", err)
	}
	return nil
}

func (r *ResponseRepo) MarkProcessed(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE outreach_responses SET processed = true WHERE id = $1
	`, id)
	if err != nil {
		return false, fmt.Errorf("mark response processed: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
