package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/status"
)

// StatusRepo implements status.Repository against PostgreSQL. The per-stage
// tracking map is flattened into one column group per stage so the table
// stays queryable with plain SQL.
type StatusRepo struct{ db *sql.DB }

// NewStatusRepo creates a Postgres-backed status repository.
func NewStatusRepo(db *sql.DB) *StatusRepo { return &StatusRepo{db: db} }

const statusColumns = `
	club_name, country, website,
	introduction_status, introduction_sent_at, introduction_response_at, introduction_response_kind, introduction_notes,
	checkup_status, checkup_sent_at, checkup_response_at, checkup_response_kind, checkup_notes,
	acceptance_status, acceptance_sent_at, acceptance_response_at, acceptance_response_kind, acceptance_notes,
	current_stage, priority, created_at, updated_at, last_activity_at`

type stageScan struct {
	status       string
	sentAt       sql.NullTime
	responseAt   sql.NullTime
	responseKind sql.NullString
	notes        sql.NullString
}

func (s *stageScan) tracking() domain.StageTracking {
	t := domain.StageTracking{
		Status: domain.StageStatus(s.status),
		Notes:  s.notes.String,
	}
	if s.sentAt.Valid {
		v := s.sentAt.Time
		t.SentAt = &v
	}
	if s.responseAt.Valid {
		v := s.responseAt.Time
		t.ResponseAt = &v
	}
	if s.responseKind.Valid {
		t.ResponseKind = domain.ResponseKind(s.responseKind.String)
	}
	return t
}

func scanStatus(row interface{ Scan(...interface{}) error }) (*domain.StatusRecord, error) {
	rec := &domain.StatusRecord{}
	var intro, checkup, accept stageScan
	err := row.Scan(
		&rec.ClubName, &rec.Country, &rec.Website,
		&intro.status, &intro.sentAt, &intro.responseAt, &intro.responseKind, &intro.notes,
		&checkup.status, &checkup.sentAt, &checkup.responseAt, &checkup.responseKind, &checkup.notes,
		&accept.status, &accept.sentAt, &accept.responseAt, &accept.responseKind, &accept.notes,
		&rec.CurrentStage, &rec.Priority, &rec.CreatedAt, &rec.UpdatedAt, &rec.LastActivityAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Stages = map[domain.Stage]domain.StageTracking{
		domain.StageIntroduction: intro.tracking(),
		domain.StageCheckup:      checkup.tracking(),
		domain.StageAcceptance:   accept.tracking(),
	}
	return rec, nil
}

func (r *StatusRepo) Get(ctx context.Context, clubName string) (*domain.StatusRecord, error) {
	rec, err := scanStatus(r.db.QueryRowContext(ctx, `
		SELECT`+statusColumns+`
		FROM outreach_status
		WHERE club_name = $1
	`, clubName))
	if err == sql.ErrNoRows {
		return nil, status.ErrNotFound
	}
	if err != nil {
		log.Printf("[postgres] unreadable status row for %s: %v", clubName, err)
		return nil, status.ErrNotFound
	}
	return rec, nil
}

func stageArgs(t domain.StageTracking) []interface{} {
	var kind interface{}
	if t.ResponseKind != "" {
		kind = string(t.ResponseKind)
	}
	return []interface{}{string(t.Status), t.SentAt, t.ResponseAt, kind, t.Notes}
}

func (r *StatusRepo) Upsert(ctx context.Context, rec *domain.StatusRecord) error {
	args := []interface{}{rec.ClubName, rec.Country, rec.Website}
	args = append(args, stageArgs(rec.Stage(domain.StageIntroduction))...)
	args = append(args, stageArgs(rec.Stage(domain.StageCheckup))...)
	args = append(args, stageArgs(rec.Stage(domain.StageAcceptance))...)
	args = append(args, string(rec.CurrentStage), string(rec.Priority),
		rec.CreatedAt, rec.UpdatedAt, rec.LastActivityAt)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO outreach_status
			(club_name, country, website,
			 introduction_status, introduction_sent_at, introduction_response_at, introduction_response_kind, introduction_notes,
			 checkup_status, checkup_sent_at, checkup_response_at, checkup_response_kind, checkup_notes,
			 acceptance_status, acceptance_sent_at, acceptance_response_at, acceptance_response_kind, acceptance_notes,
			 current_stage, priority, created_at, updated_at, last_activity_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (club_name) DO UPDATE SET
			country = EXCLUDED.country,
			website = EXCLUDED.website,
			introduction_status = EXCLUDED.introduction_status,
			introduction_sent_at = EXCLUDED.introduction_sent_at,
			introduction_response_at = EXCLUDED.introduction_response_at,
			introduction_response_kind = EXCLUDED.introduction_response_kind,
			introduction_notes = EXCLUDED.introduction_notes,
			checkup_status = EXCLUDED.checkup_status,
			checkup_sent_at = EXCLUDED.checkup_sent_at,
			checkup_response_at = EXCLUDED.checkup_response_at,
			checkup_response_kind = EXCLUDED.checkup_response_kind,
			checkup_notes = EXCLUDED.checkup_notes,
			acceptance_status = EXCLUDED.acceptance_status,
			acceptance_sent_at = EXCLUDED.acceptance_sent_at,
			acceptance_response_at = EXCLUDED.acceptance_response_at,
			acceptance_response_kind = EXCLUDED.acceptance_response_kind,
			acceptance_notes = EXCLUDED.acceptance_notes,
			current_stage = EXCLUDED.current_stage,
			priority = EXCLUDED.priority,
			updated_at = EXCLUDED.updated_at,
			last_activity_at = EXCLUDED.last_activity_at
	`, args...)
	if err != nil {
		return fmt.Errorf("upsert status: %w", err)
	}
	return nil
}

func (r *StatusRepo) List(ctx context.Context) ([]domain.StatusRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+statusColumns+`
		FROM outreach_status
		ORDER BY last_activity_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list status: %w", err)
	}
	defer rows.Close()

	var out []domain.StatusRecord
	for rows.Next() {
		rec, err := scanStatus(rows)
		if err != nil {
			log.Printf("[postgres] skipping unreadable status row: %v", err)
			continue
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}
