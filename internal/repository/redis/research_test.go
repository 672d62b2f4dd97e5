package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/repository/memory"
	"github.com/ignite/club-outreach/internal/research"
)

var ctx = context.Background()

type countingRepo struct {
	research.Repository
	gets int
}

func (c *countingRepo) Get(ctx context.Context, clubName string) (*domain.ResearchRecord, error) {
	c.gets++
	return c.Repository.Get(ctx, clubName)
}

func newCache(t *testing.T) (*ResearchCache, *countingRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	inner := &countingRepo{Repository: memory.NewResearchRepo()}
	return NewResearchCache(rdb, inner), inner, mr
}

func validRecord(club string) *domain.ResearchRecord {
	now := time.Now().UTC()
	return &domain.ResearchRecord{
		ClubName:     club,
		FullResearch: "full",
		ResearchedAt: now,
		ExpiresAt:    now.Add(30 * 24 * time.Hour),
		IsValid:      true,
	}
}

func TestGetReadsThroughAndCaches(t *testing.T) {
	cache, inner, mr := newCache(t)

	require.NoError(t, inner.Upsert(ctx, validRecord("Harrow Camera Club")))

	rec, err := cache.Get(ctx, "Harrow Camera Club")
	require.NoError(t, err)
	assert.Equal(t, "full", rec.FullResearch)
	assert.Equal(t, 1, inner.gets)
	assert.True(t, mr.Exists(keyPrefix+"Harrow Camera Club"))

	// Second read is served from Redis without touching the inner store.
	rec, err = cache.Get(ctx, "Harrow Camera Club")
	require.NoError(t, err)
	assert.Equal(t, "full", rec.FullResearch)
	assert.Equal(t, 1, inner.gets)
}

func TestGetMissPropagatesNotFound(t *testing.T) {
	cache, inner, _ := newCache(t)

	_, err := cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, research.ErrNotFound)
	assert.Equal(t, 1, inner.gets)
}

func TestUpsertWritesThrough(t *testing.T) {
	cache, inner, mr := newCache(t)

	require.NoError(t, cache.Upsert(ctx, validRecord("club")))
	assert.True(t, mr.Exists(keyPrefix+"club"))

	// Durable store has it too.
	rec, err := inner.Repository.Get(ctx, "club")
	require.NoError(t, err)
	assert.Equal(t, "full", rec.FullResearch)
}

func TestDeleteInvalidatesCache(t *testing.T) {
	cache, _, mr := newCache(t)

	require.NoError(t, cache.Upsert(ctx, validRecord("club")))
	require.True(t, mr.Exists(keyPrefix+"club"))

	require.NoError(t, cache.Delete(ctx, "club"))
	assert.False(t, mr.Exists(keyPrefix+"club"))

	_, err := cache.Get(ctx, "club")
	assert.ErrorIs(t, err, research.ErrNotFound)
}

func TestExpiredRecordsAreNotCached(t *testing.T) {
	cache, _, mr := newCache(t)

	rec := validRecord("stale")
	rec.ExpiresAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, cache.Upsert(ctx, rec))

	assert.False(t, mr.Exists(keyPrefix+"stale"))
}

func TestCorruptEntryFallsBackToInner(t *testing.T) {
	cache, inner, mr := newCache(t)

	require.NoError(t, inner.Upsert(ctx, validRecord("club")))
	mr.Set(keyPrefix+"club", "{not json")

	rec, err := cache.Get(ctx, "club")
	require.NoError(t, err)
	assert.Equal(t, "full", rec.FullResearch)
	assert.Equal(t, 1, inner.gets)
}
