package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/ignite/club-outreach/internal/content"
	"github.com/ignite/club-outreach/internal/domain"
)

// EmailRepo implements content.Repository against PostgreSQL.
type EmailRepo struct{ db *sql.DB }

// NewEmailRepo creates a Postgres-backed email repository.
func NewEmailRepo(db *sql.DB) *EmailRepo { return &EmailRepo{db: db} }

const emailColumns = `
	club_name, stage, personalized_content, full_email,
	content_cost, total_cost, sent_at, created_at`

func scanEmail(row interface{ Scan(...interface{}) error }) (*domain.EmailRecord, error) {
	rec := &domain.EmailRecord{}
	var sentAt sql.NullTime
	err := row.Scan(
		&rec.ClubName, &rec.Stage, &rec.PersonalizedContent, &rec.FullEmail,
		&rec.Costs.ContentCost, &rec.Costs.TotalCost, &sentAt, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sentAt.Valid {
		v := sentAt.Time
		rec.SentAt = &v
	}
	return rec, nil
}

func (r *EmailRepo) Get(ctx context.Context, clubName string, stage domain.Stage) (*domain.EmailRecord, error) {
	rec, err := scanEmail(r.db.QueryRowContext(ctx, `
		SELECT`+emailColumns+`
		FROM outreach_emails
		WHERE club_name = $1 AND stage = $2
	`, clubName, string(stage)))
	if err == sql.ErrNoRows {
		return nil, content.ErrNotFound
	}
	if err != nil {
		log.Printf("[postgres] unreadable email row for %s/%s: %v", clubName, stage, err)
		return nil, content.ErrNotFound
	}
	return rec, nil
}

func (r *EmailRepo) Upsert(ctx context.Context, rec *domain.EmailRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO outreach_emails
			(club_name, stage, personalized_content, full_email,
			 content_cost, total_cost, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (club_name, stage) DO UPDATE SET
			personalized_content = EXCLUDED.personalized_content,
			full_email = EXCLUDED.full_email,
			content_cost = EXCLUDED.content_cost,
			total_cost = EXCLUDED.total_cost,
			sent_at = EXCLUDED.sent_at
	`, rec.ClubName, string(rec.Stage), rec.PersonalizedContent, rec.FullEmail,
		rec.Costs.ContentCost, rec.Costs.TotalCost, rec.SentAt, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert email: %w", err)
	}
	return nil
}

func (r *EmailRepo) Delete(ctx context.Context, clubName string, stage domain.Stage) error {
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM outreach_emails WHERE club_name = $1 AND stage = $2
	`, clubName, string(stage)); err != nil {
		return fmt.Errorf("delete email: %w", err)
	}
	return nil
}

func (r *EmailRepo) List(ctx context.Context) ([]domain.EmailRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+emailColumns+`
		FROM outreach_emails
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list emails: %w", err)
	}
	defer rows.Close()

	var out []domain.EmailRecord
	for rows.Next() {
		rec, err := scanEmail(rows)
		if err != nil {
			log.Printf("[postgres] skipping unreadable email row: %v", err)
			continue
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}
