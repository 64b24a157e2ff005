package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/tiny/internal/shortener"
	"go.uber.org/zap"
)

// RedisDigestCache is a shortener.DigestCache shared by every instance using
// the same Redis. Backend errors are logged and the computed digest is returned.
type RedisDigestCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisDigestCache creates a Redis-backed digest cache whose entries live for ttl.
func NewRedisDigestCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisDigestCache {
	return &RedisDigestCache{
		client: client,
		prefix: "digest:",
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisDigestCache) GetOrCompute(ctx context.Context, normalizedURL string, compute func() string) string {
	key, ok := shortener.CacheKey(normalizedURL)
	if !ok {
		return compute()
	}

	key = c.prefix + key

	digest, err := c.client.Get(ctx, key).Result()
	if err == nil {
		return digest
	}

	if !errors.Is(err, redis.Nil) {
		c.logger.Warn("digest cache unavailable", zap.Error(err))

		return compute()
	}

	digest = compute()

	stored, err := c.client.SetNX(ctx, key, digest, c.ttl).Result()
	if err != nil {
		c.logger.Warn("failed to store digest", zap.Error(err))

		return digest
	}

	if !stored {
		if existing, err := c.client.Get(ctx, key).Result(); err == nil {
			return existing
		}
	}

	return digest
}

// Compile-time check.
var _ shortener.DigestCache = (*RedisDigestCache)(nil)
