package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/serroba/tiny/internal/shortener"
)

// MemoryDigestCache is an in-process shortener.DigestCache with per-entry expiry.
type MemoryDigestCache struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemoryDigestCache creates a digest cache whose entries live for ttl.
func NewMemoryDigestCache(ttl time.Duration) *MemoryDigestCache {
	return &MemoryDigestCache{
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (c *MemoryDigestCache) GetOrCompute(_ context.Context, normalizedURL string, compute func() string) string {
	key, ok := shortener.CacheKey(normalizedURL)
	if !ok {
		return compute()
	}

	if v, found := c.cache.Get(key); found {
		return v.(string)
	}

	digest := compute()

	// Add fails when another caller stored the key first; that value wins.
	if err := c.cache.Add(key, digest, c.ttl); err != nil {
		if v, found := c.cache.Get(key); found {
			return v.(string)
		}
	}

	return digest
}

// Len reports the number of live entries.
func (c *MemoryDigestCache) Len() int {
	return c.cache.ItemCount()
}

// Compile-time check.
var _ shortener.DigestCache = (*MemoryDigestCache)(nil)
