// Package redis provides a Redis read-through cache layered over the
// durable research repository. It is optional and enabled by REDIS_ADDR.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/research"
)

const keyPrefix = "outreach:research:"

// ResearchCache implements research.Repository by caching records in Redis
// in front of an inner repository. Cache entries expire with the record's own
// TTL so Redis never serves research the durable store considers stale.
type ResearchCache struct {
	rdb   *redis.Client
	inner research.Repository
}

// NewResearchCache wraps the inner repository with a Redis cache.
func NewResearchCache(rdb *redis.Client, inner research.Repository) *ResearchCache {
	return &ResearchCache{rdb: rdb, inner: inner}
}

func (c *ResearchCache) Get(ctx context.Context, clubName string) (*domain.ResearchRecord, error) {
	data, err := c.rdb.Get(ctx, keyPrefix+clubName).Bytes()
	if err == nil {
		rec := &domain.ResearchRecord{}
		if err := json.Unmarshal(data, rec); err == nil {
			return rec, nil
		}
		log.Printf("[redis] dropping unreadable cache entry for %s", clubName)
		c.rdb.Del(ctx, keyPrefix+clubName)
	} else if err != redis.Nil {
		log.Printf("[redis] get %s: %v", clubName, err)
	}

	rec, err := c.inner.Get(ctx, clubName)
	if err != nil {
		return nil, err
	}
	c.set(ctx, rec)
	return rec, nil
}

func (c *ResearchCache) Upsert(ctx context.Context, rec *domain.ResearchRecord) error {
	if err := c.inner.Upsert(ctx, rec); err != nil {
		return err
	}
	c.set(ctx, rec)
	return nil
}

func (c *ResearchCache) Delete(ctx context.Context, clubName string) error {
	if err := c.inner.Delete(ctx, clubName); err != nil {
		return err
	}
	if err := c.rdb.Del(ctx, keyPrefix+clubName).Err(); err != nil {
		log.Printf("[redis] del %s: %v", clubName, err)
	}
	return nil
}

// List always hits the durable store; scanning Redis would miss records whose
// cache entries expired.
func (c *ResearchCache) List(ctx context.Context) ([]domain.ResearchRecord, error) {
	return c.inner.List(ctx)
}

func (c *ResearchCache) set(ctx context.Context, rec *domain.ResearchRecord) {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		log.Printf("[redis] marshal %s: %v", rec.ClubName, err)
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+rec.ClubName, data, ttl).Err(); err != nil {
		log.Printf("[redis] set %s: %v", rec.ClubName, err)
	}
}

// Ping verifies connectivity at startup.
func Ping(ctx context.Context, rdb *redis.Client) error {
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
