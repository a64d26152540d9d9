package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/studysphere/backend/internal/models"
	"github.com/studysphere/backend/internal/progress"
)

const DefaultStatsTTL = 5 * time.Minute

// Client is the subset of redis commands the stats cache needs.
// *redis.Client satisfies it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// StatsCache fronts a progress.Source and caches aggregate stats per user.
// Attempt fetches always go to the underlying source. Redis failures are
// logged and the request falls through to the source.
//
// Entries are keyed by a per-user version. Invalidate bumps the version, so a
// read that fetched before an invalidation can only write under the old
// version, which no later read looks at.
type StatsCache struct {
	source progress.Source
	client Client
	ttl    time.Duration
}

func NewStatsCache(source progress.Source, client Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = DefaultStatsTTL
	}
	return &StatsCache{source: source, client: client, ttl: ttl}
}

func VersionKey(userID int64) string {
	return fmt.Sprintf("progress:stats:%d:version", userID)
}

func StatsKey(userID, version int64) string {
	return fmt.Sprintf("progress:stats:%d:v%d", userID, version)
}

func (c *StatsCache) FetchAttempts(ctx context.Context, userID int64, limit int) ([]models.AttemptRecord, error) {
	return c.source.FetchAttempts(ctx, userID, limit)
}

func (c *StatsCache) FetchUserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	version, err := c.version(ctx, userID)
	if err != nil {
		log.Printf("[cache] version lookup for user %d failed: %v", userID, err)
		return c.source.FetchUserStats(ctx, userID)
	}
	key := StatsKey(userID, version)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var stats models.UserStats
		jsonErr := json.Unmarshal(raw, &stats)
		if jsonErr == nil {
			return &stats, nil
		}
		log.Printf("[cache] discarding malformed entry %s: %v", key, jsonErr)
	case errors.Is(err, redis.Nil):
	default:
		log.Printf("[cache] get %s failed: %v", key, err)
	}

	stats, err := c.source.FetchUserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, nil
	}

	data, err := json.Marshal(stats)
	if err != nil {
		log.Printf("[cache] marshal stats for user %d: %v", userID, err)
		return stats, nil
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("[cache] set %s failed: %v", key, err)
	}
	return stats, nil
}

// Invalidate retires every cached stats entry for a user.
func (c *StatsCache) Invalidate(ctx context.Context, userID int64) error {
	if err := c.client.Incr(ctx, VersionKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate stats for user %d: %w", userID, err)
	}
	return nil
}

// version returns the user's current stats version; a missing key is 0.
func (c *StatsCache) version(ctx context.Context, userID int64) (int64, error) {
	v, err := c.client.Get(ctx, VersionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}
