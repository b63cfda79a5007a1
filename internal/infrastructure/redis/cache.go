package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// AnalyticsCache stores serialized dashboard views per owner. Each owner
// has one hash keyed by view name, so invalidation after a ledger
// mutation is a single DEL. All calls go through a circuit breaker: if
// Redis is down the dashboards fall through to Postgres instead of
// waiting on a dead connection.
type AnalyticsCache struct {
	client *redis.Client
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker[[]byte]
}

// NewAnalyticsCache creates an AnalyticsCache.
func NewAnalyticsCache(client *redis.Client, ttl time.Duration, failureThreshold uint32, openTimeout time.Duration) *AnalyticsCache {
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "analytics-cache",
		Timeout: openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
	})

	return &AnalyticsCache{
		client: client,
		ttl:    ttl,
		cb:     cb,
	}
}

func ownerKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("analytics:%s", ownerID)
}

// Get returns the cached payload for a view, or (nil, false) on miss or
// when the cache is unavailable.
func (c *AnalyticsCache) Get(ctx context.Context, ownerID uuid.UUID, view string) ([]byte, bool) {
	payload, err := c.cb.Execute(func() ([]byte, error) {
		data, err := c.client.HGet(ctx, ownerKey(ownerID), view).Bytes()
		if err == redis.Nil {
			return nil, nil
		}
		return data, err
	})
	if err != nil || len(payload) == 0 {
		return nil, false
	}
	return payload, true
}

// Set stores a view payload. Failures are absorbed: a cache write is
// never allowed to fail the request.
func (c *AnalyticsCache) Set(ctx context.Context, ownerID uuid.UUID, view string, payload []byte) {
	c.cb.Execute(func() ([]byte, error) { //nolint:errcheck
		key := ownerKey(ownerID)
		pipe := c.client.TxPipeline()
		pipe.HSet(ctx, key, view, payload)
		pipe.Expire(ctx, key, c.ttl)
		_, err := pipe.Exec(ctx)
		return nil, err
	})
}

// Invalidate drops every cached view for an owner.
func (c *AnalyticsCache) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	c.cb.Execute(func() ([]byte, error) { //nolint:errcheck
		return nil, c.client.Del(ctx, ownerKey(ownerID)).Err()
	})
}
