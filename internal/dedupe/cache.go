// Package dedupe provides a Redis-backed cache that remembers recently
// processed webhook events so redelivered payloads can skip the Graph API
// round trip. The database unique constraint remains the durable guard; this
// cache is an optimization and fails open.
package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leadhook/leadhook/pkg/logging"
)

const keyPrefix = "webhook:event:"

// Cache marks webhook events as seen with a TTL. A key is claimed atomically
// with SETNX, so concurrent deliveries of the same event race safely: exactly
// one caller observes the event as new.
type Cache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCache creates a dedupe cache. ttl bounds how long an event id is
// remembered; zero or negative falls back to 24 hours, matching the window
// in which the platform retries failed deliveries.
func NewCache(redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// Seen claims the key and reports whether it had already been claimed.
// The first caller for a given key gets false; everyone after gets true
// until the TTL expires.
func (c *Cache) Seen(ctx context.Context, key string) (bool, error) {
	set, err := c.redis.SetNX(ctx, keyPrefix+key, 1, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedupe: setnx %s failed: %w", key, err)
	}
	return !set, nil
}
