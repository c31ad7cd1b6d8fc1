package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const reportVersionKey = "utpad:capacity:version"

// ReportCache memoizes capacity reports. Every cached key embeds a version
// counter; Invalidate bumps the counter, so any write to groups, leaves,
// holidays or participations makes every prior entry unreachable at once
// instead of deleting keys one by one. Old entries expire via TTL.
type ReportCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewReportCache accepts a nil client; a nil-backed cache misses every Get
// and ignores writes, so the server can run without redis.
func NewReportCache(client *Client, ttl time.Duration) *ReportCache {
	cache := &ReportCache{ttl: ttl}
	if client != nil {
		cache.rdb = client.Client()
	}
	return cache
}

func (c *ReportCache) key(ctx context.Context, suffix string) (string, error) {
	version, err := c.rdb.Get(ctx, reportVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("utpad:capacity:v%d:%s", version, suffix), nil
}

// Get unmarshals a cached report into dest, reporting whether it was found.
func (c *ReportCache) Get(ctx context.Context, suffix string, dest interface{}) (bool, error) {
	if c.rdb == nil {
		return false, nil
	}
	key, err := c.key(ctx, suffix)
	if err != nil {
		return false, err
	}
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *ReportCache) Set(ctx context.Context, suffix string, value interface{}) error {
	if c.rdb == nil {
		return nil
	}
	key, err := c.key(ctx, suffix)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, payload, c.ttl).Err()
}

func (c *ReportCache) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Incr(ctx, reportVersionKey).Err()
}
