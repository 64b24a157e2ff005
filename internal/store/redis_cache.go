package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/tiny/internal/shortener"
	"go.uber.org/zap"
)

// RedisCacheRepository wraps a Repository with a Redis read-through cache for
// lookups by tiny. Records are immutable apart from the usage count, so a cached
// record can only lag on UsageCount, by at most ttl.
type RedisCacheRepository struct {
	store  shortener.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(
	store shortener.Repository, client *redis.Client, ttl time.Duration, logger *zap.Logger,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		prefix: "cache:url:",
		ttl:    ttl,
		logger: logger,
	}
}

func (r *RedisCacheRepository) FindByTarget(ctx context.Context, target string) (*shortener.URL, error) {
	return r.store.FindByTarget(ctx, target)
}

// FindByTiny checks the cache first and populates it on a store hit.
// Misses are never cached, so a free tiny is always confirmed by the store.
func (r *RedisCacheRepository) FindByTiny(ctx context.Context, tiny shortener.Tiny) (*shortener.URL, error) {
	if url, err := r.getFromCache(ctx, tiny); err == nil {
		return url, nil
	}

	url, err := r.store.FindByTiny(ctx, tiny)
	if err != nil {
		return nil, err
	}

	r.cacheURL(ctx, url)

	return url, nil
}

// Insert stores the record in the underlying store and then caches it.
func (r *RedisCacheRepository) Insert(ctx context.Context, url *shortener.URL) error {
	if err := r.store.Insert(ctx, url); err != nil {
		return err
	}

	r.cacheURL(ctx, url)

	return nil
}

func (r *RedisCacheRepository) IncrementUsage(ctx context.Context, tiny shortener.Tiny) error {
	return r.store.IncrementUsage(ctx, tiny)
}

func (r *RedisCacheRepository) TopByUsage(ctx context.Context, n int) ([]*shortener.URL, error) {
	return r.store.TopByUsage(ctx, n)
}

func (r *RedisCacheRepository) getFromCache(ctx context.Context, tiny shortener.Tiny) (*shortener.URL, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+string(tiny)).Result()
	if err != nil {
		return nil, err
	}

	return parseRecord(result)
}

func (r *RedisCacheRepository) cacheURL(ctx context.Context, url *shortener.URL) {
	pipe := r.client.Pipeline()
	key := r.prefix + string(url.Tiny)

	pipe.HSet(ctx, key, map[string]interface{}{
		"target":      url.Target,
		"tiny":        string(url.Tiny),
		"created":     url.Created.UnixNano(),
		"usage_count": url.UsageCount,
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("failed to cache url", zap.String("tiny", string(url.Tiny)), zap.Error(err))
	}
}

// Shutdown is a no-op for RedisCacheRepository (client managed externally).
func (r *RedisCacheRepository) Shutdown() error {
	return nil
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheRepository)(nil)
