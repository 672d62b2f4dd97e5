package content

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/club-outreach/internal/costs"
	"github.com/ignite/club-outreach/internal/domain"
)

type fakeRepo struct {
	mu      sync.Mutex
	records map[string]domain.EmailRecord
}

func key(clubName string, stage domain.Stage) string {
	return clubName + "|" + string(stage)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]domain.EmailRecord)}
}

func (r *fakeRepo) Get(_ context.Context, clubName string, stage domain.Stage) (*domain.EmailRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[key(clubName, stage)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := rec
	return &cp, nil
}

func (r *fakeRepo) Upsert(_ context.Context, rec *domain.EmailRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[key(rec.ClubName, rec.Stage)] = *rec
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, clubName string, stage domain.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, key(clubName, stage))
	return nil
}

func (r *fakeRepo) List(_ context.Context) ([]domain.EmailRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EmailRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out, nil
}

type fakeGenerator struct {
	calls    int
	fragment string
	usage    domain.TokenUsage
	err      error
}

func (g *fakeGenerator) Personalize(_ context.Context, clubName, researchSection string) (string, domain.TokenUsage, error) {
	g.calls++
	return g.fragment, g.usage, g.err
}

type fakeResearch struct{ section string }

func (f *fakeResearch) Get(_ context.Context, club domain.Club, stage domain.Stage) (string, *domain.ResearchRecord, error) {
	return f.section, &domain.ResearchRecord{ClubName: club.Name}, nil
}

type fakeTracker struct {
	mu    sync.Mutex
	sends []domain.Stage
}

func (f *fakeTracker) RecordSent(_ context.Context, club domain.Club, stage domain.Stage, notes string) (*domain.StatusRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, stage)
	return &domain.StatusRecord{ClubName: club.Name}, nil
}

type fakeSender struct {
	sent []OutboundMessage
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg OutboundMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "msg-123", nil
}

var club = domain.Club{Name: "Harrow Camera Club", Country: "UK"}

func newTestService(gen *fakeGenerator) (*Service, *fakeRepo, *fakeTracker, *costs.Ledger) {
	repo := newFakeRepo()
	tracker := &fakeTracker{}
	ledger := costs.NewLedger(nil)
	svc := NewService(repo, gen, &fakeResearch{section: "club research"}, tracker, ledger, Options{})
	return svc, repo, tracker, ledger
}

func TestGenerateStoresDraftWithCost(t *testing.T) {
	gen := &fakeGenerator{
		fragment: "Your print competitions are impressive.",
		usage:    domain.TokenUsage{InputTokens: 1_000_000},
	}
	svc, _, _, ledger := newTestService(gen)

	rec, err := svc.Generate(context.Background(), club, domain.StageIntroduction)
	require.NoError(t, err)

	assert.Equal(t, "Your print competitions are impressive.", rec.PersonalizedContent)
	assert.Contains(t, rec.FullEmail, "Hi Harrow Camera Club team")
	assert.Contains(t, rec.FullEmail, rec.PersonalizedContent)
	assert.False(t, rec.Sent())
	assert.InDelta(t, 0.100, rec.Costs.TotalCost, 1e-9)
	assert.InDelta(t, rec.Costs.TotalCost, ledger.Totals().GrandTotal, 1e-9)
}

func TestGenerateFallsBackOnModelFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model down")}
	svc, _, _, ledger := newTestService(gen)

	rec, err := svc.Generate(context.Background(), club, domain.StageIntroduction)
	require.NoError(t, err)
	assert.Contains(t, rec.PersonalizedContent, club.Name)
	assert.Zero(t, rec.Costs.TotalCost)
	assert.Zero(t, ledger.Totals().GrandTotal)
}

func TestGenerateRejectsUnknownStage(t *testing.T) {
	svc, _, _, _ := newTestService(&fakeGenerator{})
	_, err := svc.Generate(context.Background(), club, domain.Stage("goodbye"))
	assert.Error(t, err)
}

func TestMarkSentStampsAndTracks(t *testing.T) {
	gen := &fakeGenerator{fragment: "fragment"}
	svc, _, tracker, _ := newTestService(gen)

	_, err := svc.Generate(context.Background(), club, domain.StageIntroduction)
	require.NoError(t, err)

	rec, err := svc.MarkSent(context.Background(), club, domain.StageIntroduction, Recipient{})
	require.NoError(t, err)
	assert.True(t, rec.Sent())
	require.Len(t, tracker.sends, 1)
	assert.Equal(t, domain.StageIntroduction, tracker.sends[0])
}

func TestMarkSentWithoutDraft(t *testing.T) {
	svc, _, _, _ := newTestService(&fakeGenerator{})
	_, err := svc.MarkSent(context.Background(), club, domain.StageIntroduction, Recipient{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkSentDeliversWhenRecipientGiven(t *testing.T) {
	gen := &fakeGenerator{fragment: "fragment"}
	svc, _, tracker, _ := newTestService(gen)
	sender := &fakeSender{}
	svc.WithSender(sender)

	_, err := svc.Generate(context.Background(), club, domain.StageIntroduction)
	require.NoError(t, err)

	_, err = svc.MarkSent(context.Background(), club, domain.StageIntroduction,
		Recipient{Name: "Jordan", Email: "jordan@harrowcc.example"})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "jordan@harrowcc.example", sender.sent[0].ToEmail)
	assert.Equal(t, Subject(domain.StageIntroduction), sender.sent[0].Subject)
	assert.Len(t, tracker.sends, 1)
}

func TestMarkSentDeliveryFailureLeavesDraftUnsent(t *testing.T) {
	gen := &fakeGenerator{fragment: "fragment"}
	svc, repo, tracker, _ := newTestService(gen)
	svc.WithSender(&fakeSender{err: errors.New("smtp rejected")})

	_, err := svc.Generate(context.Background(), club, domain.StageIntroduction)
	require.NoError(t, err)

	_, err = svc.MarkSent(context.Background(), club, domain.StageIntroduction,
		Recipient{Email: "jordan@harrowcc.example"})
	require.Error(t, err)

	stored, err := repo.Get(context.Background(), club.Name, domain.StageIntroduction)
	require.NoError(t, err)
	assert.False(t, stored.Sent())
	assert.Empty(t, tracker.sends)
}

func TestRegenerateReplacesDraft(t *testing.T) {
	gen := &fakeGenerator{fragment: "first"}
	svc, _, _, _ := newTestService(gen)

	_, err := svc.Generate(context.Background(), club, domain.StageIntroduction)
	require.NoError(t, err)

	gen.fragment = "second"
	rec, err := svc.Regenerate(context.Background(), club, domain.StageIntroduction)
	require.NoError(t, err)
	assert.Equal(t, "second", rec.PersonalizedContent)
	assert.Equal(t, 2, gen.calls)
}

func TestLedgerMatchesStoredCostsAfterReplacement(t *testing.T) {
	gen := &fakeGenerator{
		fragment: "fragment",
		usage:    domain.TokenUsage{InputTokens: 1_000_000},
	}
	svc, repo, _, ledger := newTestService(gen)

	_, err := svc.Generate(context.Background(), club, domain.StageIntroduction)
	require.NoError(t, err)
	_, err = svc.Regenerate(context.Background(), club, domain.StageIntroduction)
	require.NoError(t, err)
	_, err = svc.Generate(context.Background(), club, domain.StageIntroduction)
	require.NoError(t, err)

	// Only the surviving draft's cost may remain in the ledger.
	recs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.InDelta(t, recs[0].Costs.TotalCost, ledger.Totals().GrandTotal, 1e-9)
}

func TestDeleteReversesCost(t *testing.T) {
	gen := &fakeGenerator{
		fragment: "fragment",
		usage:    domain.TokenUsage{InputTokens: 1_000_000},
	}
	svc, _, _, ledger := newTestService(gen)

	_, err := svc.Generate(context.Background(), club, domain.StageIntroduction)
	require.NoError(t, err)
	require.Greater(t, ledger.Totals().GrandTotal, 0.0)

	require.NoError(t, svc.Delete(context.Background(), club.Name, domain.StageIntroduction))
	assert.InDelta(t, 0.0, ledger.Totals().GrandTotal, 1e-9)
}
