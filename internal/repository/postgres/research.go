package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/research"
)

// ResearchRepo implements research.Repository against PostgreSQL.
type ResearchRepo struct{ db *sql.DB }

// NewResearchRepo creates a Postgres-backed research repository.
func NewResearchRepo(db *sql.DB) *ResearchRepo { return &ResearchRepo{db: db} }

const researchColumns = `
	club_name, country, website,
	introduction_research, checkup_research, acceptance_research, full_research,
	research_cost, flat_cost, total_cost,
	researched_at, expires_at, is_valid`

func scanResearch(row interface{ Scan(...interface{}) error }) (*domain.ResearchRecord, error) {
	rec := &domain.ResearchRecord{}
	err := row.Scan(
		&rec.ClubName, &rec.Country, &rec.Website,
		&rec.IntroductionResearch, &rec.CheckupResearch, &rec.AcceptanceResearch, &rec.FullResearch,
		&rec.Costs.ResearchCost, &rec.Costs.FlatCost, &rec.Costs.TotalCost,
		&rec.ResearchedAt, &rec.ExpiresAt, &rec.IsValid,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *ResearchRepo) Get(ctx context.Context, clubName string) (*domain.ResearchRecord, error) {
	rec, err := scanResearch(r.db.QueryRowContext(ctx, `
		SELECT`+researchColumns+`
		FROM outreach_research
		WHERE club_name = $1
	`, clubName))
	if err == sql.ErrNoRows {
		return nil, research.ErrNotFound
	}
	if err != nil {
		// An unreadable row is treated like a missing one so a corrupt
		// record never blocks a re-research.
		log.Printf("[postgres] unreadable research row for %s: %v", clubName, err)
		return nil, research.ErrNotFound
	}
	return rec, nil
}

func (r *ResearchRepo) Upsert(ctx context.Context, rec *domain.ResearchRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO outreach_research
			(club_name, country, website,
			 introduction_research, checkup_research, acceptance_research, full_research,
			 research_cost, flat_cost, total_cost,
			 researched_at, expires_at, is_valid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (club_name) DO UPDATE SET
			country = EXCLUDED.country,
			website = EXCLUDED.website,
			introduction_research = EXCLUDED.introduction_research,
			checkup_research = EXCLUDED.checkup_research,
			acceptance_research = EXCLUDED.acceptance_research,
			full_research = EXCLUDED.full_research,
			research_cost = EXCLUDED.research_cost,
			flat_cost = EXCLUDED.flat_cost,
			total_cost = EXCLUDED.total_cost,
			researched_at = EXCLUDED.researched_at,
			expires_at = EXCLUDED.expires_at,
			is_valid = EXCLUDED.is_valid
	`, rec.ClubName, rec.Country, rec.Website,
		rec.IntroductionResearch, rec.CheckupResearch, rec.AcceptanceResearch, rec.FullResearch,
		rec.Costs.ResearchCost, rec.Costs.FlatCost, rec.Costs.TotalCost,
		rec.ResearchedAt, rec.ExpiresAt, rec.IsValid)
	if err != nil {
		return fmt.Errorf("upsert research: %w", err)
	}
	return nil
}

func (r *ResearchRepo) Delete(ctx context.Context, clubName string) error {
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM outreach_research WHERE club_name = $1
	`, clubName); err != nil {
		return fmt.Errorf("delete research: %w", err)
	}
	return nil
}

func (r *ResearchRepo) List(ctx context.Context) ([]domain.ResearchRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+researchColumns+`
		FROM outreach_research
		ORDER BY researched_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list research: %w", err)
	}
	defer rows.Close()

	var out []domain.ResearchRecord
	for rows.Next() {
		rec, err := scanResearch(rows)
		if err != nil {
			log.Printf("[postgres] skipping unreadable research row: %v", err)
			continue
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}
