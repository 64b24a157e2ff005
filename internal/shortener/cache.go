package shortener

import (
	"context"
	"encoding/base64"
)

// MaxCacheKeyLength caps digest cache keys.
const MaxCacheKeyLength = 244

// DigestCache memoizes full-length digests for a short time.
//
// GetOrCompute returns the stored digest for the URL, or calls compute, stores the
// result and returns it. Storing is set-if-absent per key, so concurrent callers
// for the same URL all observe the first stored value. Implementations must not
// fail: when the backend is unavailable they return the computed digest.
type DigestCache interface {
	GetOrCompute(ctx context.Context, normalizedURL string, compute func() string) string
}

// CacheKey is the transport-safe key for a normalized URL. It reports false when
// the encoded URL is longer than MaxCacheKeyLength: a truncated key could be
// shared by two different URLs, so such URLs are not cached at all.
func CacheKey(normalizedURL string) (string, bool) {
	if base64.URLEncoding.EncodedLen(len(normalizedURL)) > MaxCacheKeyLength {
		return "", false
	}

	return base64.URLEncoding.EncodeToString([]byte(normalizedURL)), true
}

// NopDigestCache computes the digest on every call.
type NopDigestCache struct{}

func (NopDigestCache) GetOrCompute(_ context.Context, _ string, compute func() string) string {
	return compute()
}
