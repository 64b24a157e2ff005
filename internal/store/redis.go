package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/tiny/internal/shortener"
)

// insertScript writes a record only if neither its target nor its tiny is taken.
// KEYS: tiny hash, target key, usage sorted set. ARGV: target, tiny, created.
var insertScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 or redis.call('EXISTS', KEYS[2]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'target', ARGV[1], 'tiny', ARGV[2], 'created', ARGV[3], 'usage_count', 0)
redis.call('SET', KEYS[2], ARGV[2])
redis.call('ZADD', KEYS[3], 0, ARGV[2])
return 1
`)

// incrementScript bumps the counter of an existing record.
// KEYS: tiny hash, usage sorted set. ARGV: tiny.
var incrementScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
redis.call('ZINCRBY', KEYS[2], 1, ARGV[1])
return redis.call('HINCRBY', KEYS[1], 'usage_count', 1)
`)

// RedisStore is a Redis implementation of shortener.Repository.
// Records live in hashes keyed by tiny, with a target index and a usage sorted set.
type RedisStore struct {
	client    *redis.Client
	prefix    string // "url:" for tiny -> record (hash)
	targetKey string // "target:" for target -> tiny (string)
	usageKey  string // "url_usage" for tiny scored by usage (sorted set)
}

// NewRedisStore creates a new Redis-backed URL store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:    client,
		prefix:    "url:",
		targetKey: "target:",
		usageKey:  "url_usage",
	}
}

func (r *RedisStore) FindByTarget(ctx context.Context, target string) (*shortener.URL, error) {
	tiny, err := r.client.Get(ctx, r.targetKey+target).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return r.FindByTiny(ctx, shortener.Tiny(tiny))
}

func (r *RedisStore) FindByTiny(ctx context.Context, tiny shortener.Tiny) (*shortener.URL, error) {
	fields, err := r.client.HGetAll(ctx, r.prefix+string(tiny)).Result()
	if err != nil {
		return nil, err
	}

	return parseRecord(fields)
}

func (r *RedisStore) Insert(ctx context.Context, url *shortener.URL) error {
	keys := []string{r.prefix + string(url.Tiny), r.targetKey + url.Target, r.usageKey}

	inserted, err := insertScript.Run(ctx, r.client, keys,
		url.Target, string(url.Tiny), url.Created.UnixNano(),
	).Int()
	if err != nil {
		return err
	}

	if inserted == 0 {
		return shortener.ErrUniqueViolation
	}

	return nil
}

func (r *RedisStore) IncrementUsage(ctx context.Context, tiny shortener.Tiny) error {
	keys := []string{r.prefix + string(tiny), r.usageKey}

	count, err := incrementScript.Run(ctx, r.client, keys, string(tiny)).Int64()
	if err != nil {
		return err
	}

	if count < 0 {
		return shortener.ErrNotFound
	}

	return nil
}

// TopByUsage reads the usage sorted set. Ties are ordered by tiny, not by creation.
func (r *RedisStore) TopByUsage(ctx context.Context, n int) ([]*shortener.URL, error) {
	if n <= 0 {
		return []*shortener.URL{}, nil
	}

	tinies, err := r.client.ZRevRange(ctx, r.usageKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(tinies))

	for i, tiny := range tinies {
		cmds[i] = pipe.HGetAll(ctx, r.prefix+tiny)
	}

	if _, err = pipe.Exec(ctx); err != nil {
		return nil, err
	}

	urls := make([]*shortener.URL, 0, len(cmds))

	for _, cmd := range cmds {
		url, err := parseRecord(cmd.Val())
		if errors.Is(err, shortener.ErrNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		urls = append(urls, url)
	}

	return urls, nil
}

func parseRecord(fields map[string]string) (*shortener.URL, error) {
	if len(fields) == 0 {
		return nil, shortener.ErrNotFound
	}

	url := &shortener.URL{
		Target: fields["target"],
		Tiny:   shortener.Tiny(fields["tiny"]),
	}

	if ts, ok := fields["created"]; ok {
		nanos, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return nil, err
		}

		url.Created = time.Unix(0, nanos).UTC()
	}

	if count, ok := fields["usage_count"]; ok {
		n, err := strconv.ParseInt(count, 10, 64)
		if err != nil {
			return nil, err
		}

		url.UsageCount = n
	}

	return url, nil
}

// Compile-time check.
var _ shortener.Repository = (*RedisStore)(nil)
