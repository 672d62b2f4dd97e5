package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/club-outreach/internal/content"
	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/research"
	"github.com/ignite/club-outreach/internal/status"
)

var ctx = context.Background()

func TestResearchRepoGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM outreach_research").
		WithArgs("Nowhere Club").
		WillReturnRows(sqlmock.NewRows([]string{"club_name"}))

	_, err = NewResearchRepo(db).Get(ctx, "Nowhere Club")
	assert.ErrorIs(t, err, research.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResearchRepoGetScansRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"club_name", "country", "website",
		"introduction_research", "checkup_research", "acceptance_research", "full_research",
		"research_cost", "flat_cost", "total_cost",
		"researched_at", "expires_at", "is_valid",
	}).AddRow(
		"Harrow Camera Club", "UK", "https://harrowcc.example",
		"intro", "checkup", "acceptance", "full",
		0.4, 0.01, 0.41,
		now, now.Add(30*24*time.Hour), true,
	)
	mock.ExpectQuery("FROM outreach_research").
		WithArgs("Harrow Camera Club").
		WillReturnRows(rows)

	rec, err := NewResearchRepo(db).Get(ctx, "Harrow Camera Club")
	require.NoError(t, err)
	assert.Equal(t, "intro", rec.IntroductionResearch)
	assert.InDelta(t, 0.41, rec.Costs.TotalCost, 1e-9)
	assert.True(t, rec.IsValid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResearchRepoUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	rec := &domain.ResearchRecord{
		ClubName:     "Harrow Camera Club",
		ResearchedAt: now,
		ExpiresAt:    now.Add(30 * 24 * time.Hour),
		IsValid:      true,
	}

	mock.ExpectExec("INSERT INTO outreach_research").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewResearchRepo(db).Upsert(ctx, rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResearchRepoGetCorruptRowTreatedAsMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"club_name", "country", "website",
		"introduction_research", "checkup_research", "acceptance_research", "full_research",
		"research_cost", "flat_cost", "total_cost",
		"researched_at", "expires_at", "is_valid",
	}).AddRow(
		"Harrow Camera Club", "UK", "",
		"intro", "checkup", "acceptance", "full",
		"bogus", 0.01, 0.41,
		now, now, true,
	)
	mock.ExpectQuery("FROM outreach_research").
		WithArgs("Harrow Camera Club").
		WillReturnRows(rows)

	_, err = NewResearchRepo(db).Get(ctx, "Harrow Camera Club")
	assert.ErrorIs(t, err, research.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResearchRepoListSkipsUnreadableRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"club_name", "country", "website",
		"introduction_research", "checkup_research", "acceptance_research", "full_research",
		"research_cost", "flat_cost", "total_cost",
		"researched_at", "expires_at", "is_valid",
	}).AddRow(
		"Broken Club", "UK", "",
		"intro", "checkup", "acceptance", "full",
		"bogus", 0.01, 0.41,
		now, now, true,
	).AddRow(
		"Harrow Camera Club", "UK", "",
		"intro", "checkup", "acceptance", "full",
		0.4, 0.01, 0.41,
		now, now, true,
	)
	mock.ExpectQuery("FROM outreach_research").WillReturnRows(rows)

	out, err := NewResearchRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Harrow Camera Club", out[0].ClubName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusRepoGetRebuildsStageMap(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	sentAt := now.Add(-48 * time.Hour)
	rows := sqlmock.NewRows([]string{
		"club_name", "country", "website",
		"introduction_status", "introduction_sent_at", "introduction_response_at", "introduction_response_kind", "introduction_notes",
		"checkup_status", "checkup_sent_at", "checkup_response_at", "checkup_response_kind", "checkup_notes",
		"acceptance_status", "acceptance_sent_at", "acceptance_response_at", "acceptance_response_kind", "acceptance_notes",
		"current_stage", "priority", "created_at", "updated_at", "last_activity_at",
	}).AddRow(
		"Harrow Camera Club", "UK", "",
		"positive_response", sentAt, now, "positive_response", "keen reply",
		"not_contacted", nil, nil, nil, "",
		"not_contacted", nil, nil, nil, "",
		"checkup", "high", sentAt, now, now,
	)
	mock.ExpectQuery("FROM outreach_status").
		WithArgs("Harrow Camera Club").
		WillReturnRows(rows)

	rec, err := NewStatusRepo(db).Get(ctx, "Harrow Camera Club")
	require.NoError(t, err)

	intro := rec.Stage(domain.StageIntroduction)
	assert.Equal(t, domain.StatusPositiveResponse, intro.Status)
	require.NotNil(t, intro.SentAt)
	assert.Equal(t, sentAt, *intro.SentAt)
	assert.Equal(t, domain.ResponsePositive, intro.ResponseKind)
	assert.Equal(t, "keen reply", intro.Notes)

	checkup := rec.Stage(domain.StageCheckup)
	assert.Equal(t, domain.StatusNotContacted, checkup.Status)
	assert.Nil(t, checkup.SentAt)
	assert.Empty(t, checkup.ResponseKind)

	assert.Equal(t, domain.PipelineCheckup, rec.CurrentStage)
	assert.Equal(t, domain.PriorityHigh, rec.Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusRepoGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM outreach_status").
		WithArgs("Nowhere Club").
		WillReturnRows(sqlmock.NewRows([]string{"club_name"}))

	_, err = NewStatusRepo(db).Get(ctx, "Nowhere Club")
	assert.ErrorIs(t, err, status.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusRepoGetCorruptRowTreatedAsMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"club_name", "country", "website",
		"introduction_status", "introduction_sent_at", "introduction_response_at", "introduction_response_kind", "introduction_notes",
		"checkup_status", "checkup_sent_at", "checkup_response_at", "checkup_response_kind", "checkup_notes",
		"acceptance_status", "acceptance_sent_at", "acceptance_response_at", "acceptance_response_kind", "acceptance_notes",
		"current_stage", "priority", "created_at", "updated_at", "last_activity_at",
	}).AddRow(
		"Harrow Camera Club", "UK", "",
		"sent", now, nil, nil, "",
		"not_contacted", nil, nil, nil, "",
		"not_contacted", nil, nil, nil, "",
		"introduction", "normal", "bogus", now, now,
	)
	mock.ExpectQuery("FROM outreach_status").
		WithArgs("Harrow Camera Club").
		WillReturnRows(rows)

	_, err = NewStatusRepo(db).Get(ctx, "Harrow Camera Club")
	assert.ErrorIs(t, err, status.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusRepoUpsertFlattensStages(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	rec := domain.NewStatusRecord(domain.Club{Name: "Harrow Camera Club"}, now)
	rec.ApplySent(domain.StageIntroduction, "", now)

	mock.ExpectExec("INSERT INTO outreach_status").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewStatusRepo(db).Upsert(ctx, rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailRepoGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM outreach_emails").
		WithArgs("club", "introduction").
		WillReturnRows(sqlmock.NewRows([]string{"club_name"}))

	_, err = NewEmailRepo(db).Get(ctx, "club", domain.StageIntroduction)
	assert.ErrorIs(t, err, content.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepoMarkReadAlreadyRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Update touches no rows, existence check still finds the id.
	mock.ExpectExec("UPDATE outreach_notifications").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("n1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := NewNotificationRepo(db).MarkRead(ctx, "n1", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseRepoExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("club", "introduction", "a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := NewResponseRepo(db).Exists(ctx, "club", domain.StageIntroduction, "a@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
