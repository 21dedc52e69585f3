package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/punchclock/punchclock/internal/model"
)

const (
	// summaryKeyPrefix is the Redis key prefix for cached summaries.
	summaryKeyPrefix = "summary:"

	// DefaultSummaryTTL bounds how stale a cached summary may be.
	DefaultSummaryTTL = 30 * time.Second
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// GetSummary retrieves a cached summary for a user.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetSummary(ctx context.Context, userID string) (*model.Summary, error) {
	key := summaryKeyPrefix + userID

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var summary model.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("decode cached summary: %w", err)
	}

	return &summary, nil
}

// SetSummary stores a summary for a user with the given TTL.
// A zero TTL falls back to DefaultSummaryTTL.
func (c *Cache) SetSummary(ctx context.Context, userID string, summary *model.Summary, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	key := summaryKeyPrefix + userID
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

// InvalidateSummary drops the cached summary for a user.
// Called after every ledger mutation so reads never serve stale buckets
// past the TTL window.
func (c *Cache) InvalidateSummary(ctx context.Context, userID string) error {
	key := summaryKeyPrefix + userID
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}
