package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/club-outreach/internal/content"
	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/research"
	"github.com/ignite/club-outreach/internal/status"
)

var ctx = context.Background()

func TestResearchRepoRoundTrip(t *testing.T) {
	repo := NewResearchRepo()

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, research.ErrNotFound)

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	rec := &domain.ResearchRecord{
		ClubName:             "Harrow Camera Club",
		Country:              "UK",
		Website:              "https://harrowcc.example",
		IntroductionResearch: "intro",
		CheckupResearch:      "checkup",
		AcceptanceResearch:   "acceptance",
		FullResearch:         "full",
		Costs:                domain.CostBreakdown{ResearchCost: 0.4, FlatCost: 0.01, TotalCost: 0.41},
		ResearchedAt:         now,
		ExpiresAt:            now.Add(30 * 24 * time.Hour),
		IsValid:              true,
	}
	require.NoError(t, repo.Upsert(ctx, rec))

	got, err := repo.Get(ctx, "Harrow Camera Club")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// One record per club: upsert replaces wholesale.
	rec2 := *rec
	rec2.FullResearch = "replaced"
	require.NoError(t, repo.Upsert(ctx, &rec2))
	recs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "replaced", recs[0].FullResearch)

	require.NoError(t, repo.Delete(ctx, "Harrow Camera Club"))
	require.NoError(t, repo.Delete(ctx, "Harrow Camera Club")) // missing is not an error
	_, err = repo.Get(ctx, "Harrow Camera Club")
	assert.ErrorIs(t, err, research.ErrNotFound)
}

func TestStatusRepoDeepCopiesStages(t *testing.T) {
	repo := NewStatusRepo()

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, status.ErrNotFound)

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	rec := domain.NewStatusRecord(domain.Club{Name: "Harrow Camera Club", Country: "UK"}, now)
	rec.ApplySent(domain.StageIntroduction, "first batch", now)
	require.NoError(t, repo.Upsert(ctx, rec))

	got, err := repo.Get(ctx, "Harrow Camera Club")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// Mutating the returned record must not touch stored state.
	got.Stages[domain.StageIntroduction] = domain.StageTracking{Status: domain.StatusNegativeResponse}
	again, err := repo.Get(ctx, "Harrow Camera Club")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEmailSent, again.Stage(domain.StageIntroduction).Status)
}

func TestEmailRepoKeyedByClubAndStage(t *testing.T) {
	repo := NewEmailRepo()

	_, err := repo.Get(ctx, "club", domain.StageIntroduction)
	assert.ErrorIs(t, err, content.ErrNotFound)

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	intro := &domain.EmailRecord{ClubName: "club", Stage: domain.StageIntroduction, FullEmail: "intro body", CreatedAt: now}
	checkup := &domain.EmailRecord{ClubName: "club", Stage: domain.StageCheckup, FullEmail: "checkup body", CreatedAt: now}
	require.NoError(t, repo.Upsert(ctx, intro))
	require.NoError(t, repo.Upsert(ctx, checkup))

	got, err := repo.Get(ctx, "club", domain.StageCheckup)
	require.NoError(t, err)
	assert.Equal(t, "checkup body", got.FullEmail)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, repo.Delete(ctx, "club", domain.StageIntroduction))
	_, err = repo.Get(ctx, "club", domain.StageIntroduction)
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestNotificationRepoOrderingAndMarkRead(t *testing.T) {
	repo := NewNotificationRepo()

	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"n1", "n2", "n3"} {
		require.NoError(t, repo.Append(ctx, domain.Notification{
			ID:        id,
			ClubName:  "club",
			Kind:      domain.NotificationEmailSent,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	unread, err := repo.ListUnread(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 3)
	assert.Equal(t, "n3", unread[0].ID)

	ok, err := repo.MarkRead(ctx, "n3", base.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkRead(ctx, "nope", base)
	require.NoError(t, err)
	assert.False(t, ok)

	unread, err = repo.ListUnread(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 2)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestResponseRepoDedupAndOrdering(t *testing.T) {
	repo := NewResponseRepo()

	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	older := &domain.ResponseRecord{
		ID: "r1", ClubName: "club", Stage: domain.StageIntroduction,
		ContactEmail: "a@example.com", ReceivedAt: base,
	}
	newer := &domain.ResponseRecord{
		ID: "r2", ClubName: "club", Stage: domain.StageCheckup,
		ContactEmail: "a@example.com", ReceivedAt: base.Add(time.Hour),
	}
	require.NoError(t, repo.Insert(ctx, older))
	require.NoError(t, repo.Insert(ctx, newer))

	exists, err := repo.Exists(ctx, "club", domain.StageIntroduction, "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "club", domain.StageAcceptance, "a@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	listed, err := repo.List(ctx, "club")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "r2", listed[0].ID)

	unprocessed, err := repo.ListUnprocessed(ctx)
	require.NoError(t, err)
	require.Len(t, unprocessed, 2)
	assert.Equal(t, "r1", unprocessed[0].ID)

	ok, err := repo.MarkProcessed(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, ok)

	unprocessed, err = repo.ListUnprocessed(ctx)
	require.NoError(t, err)
	require.Len(t, unprocessed, 1)
	assert.Equal(t, "r2", unprocessed[0].ID)
}

func TestResponseRepoDeleteClearsDedupTuple(t *testing.T) {
	repo := NewResponseRepo()

	rec := &domain.ResponseRecord{
		ID: "r1", ClubName: "club", Stage: domain.StageIntroduction,
		ContactEmail: "a@example.com", ReceivedAt: time.Now(),
	}
	require.NoError(t, repo.Insert(ctx, rec))
	require.NoError(t, repo.Delete(ctx, "r1"))

	exists, err := repo.Exists(ctx, "club", domain.StageIntroduction, "a@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	// Unknown ids are a no-op.
	require.NoError(t, repo.Delete(ctx, "r1"))
}
