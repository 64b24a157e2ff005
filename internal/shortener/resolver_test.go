package shortener_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/serroba/tiny/internal/shortener"
	"github.com/serroba/tiny/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var defaultResolverConfig = shortener.ResolverConfig{MinLength: 8, MaxExtraTries: 24}

func occupy(t *testing.T, s *store.MemoryStore, tinies ...shortener.Tiny) {
	t.Helper()

	for _, tiny := range tinies {
		require.NoError(t, s.Insert(context.Background(), &shortener.URL{
			Target: "http://occupied.example/" + string(tiny),
			Tiny:   tiny,
		}))
	}
}

func TestResolver_Resolve(t *testing.T) {
	t.Run("returns the minimum length prefix when free", func(t *testing.T) {
		r := shortener.NewResolver(store.NewMemoryStore(), nil, defaultResolverConfig, nil, zap.NewNop())

		tiny, err := r.Resolve(context.Background(), "http://127.0.0.1")

		require.NoError(t, err)
		assert.Equal(t, shortener.Tiny("5c016e8f"), tiny)
	})

	t.Run("grows by one character per collision", func(t *testing.T) {
		s := store.NewMemoryStore()
		occupy(t, s, "86a9106a", "86a9106ae")
		metrics := &recordingMetrics{}
		r := shortener.NewResolver(s, nil, defaultResolverConfig, metrics, zap.NewNop())

		tiny, err := r.Resolve(context.Background(), "http://localhost")

		require.NoError(t, err)
		assert.Equal(t, shortener.Tiny("86a9106ae6"), tiny)
		assert.Equal(t, []int{8, 9}, metrics.collisions)
	})

	t.Run("fails with ErrEntropyExhausted past the extra tries", func(t *testing.T) {
		s := store.NewMemoryStore()
		occupy(t, s, "86a9106a", "86a9106ae", "86a9106ae6")
		config := shortener.ResolverConfig{MinLength: 8, MaxExtraTries: 2}
		r := shortener.NewResolver(s, nil, config, nil, zap.NewNop())

		tiny, err := r.Resolve(context.Background(), "http://localhost")

		assert.Empty(t, tiny)
		assert.ErrorIs(t, err, shortener.ErrEntropyExhausted)
	})

	t.Run("never grows beyond the digest length", func(t *testing.T) {
		digest := shortener.Digest("http://localhost")
		s := store.NewMemoryStore()
		occupy(t, s, shortener.Tiny(digest[:31]), shortener.Tiny(digest))
		config := shortener.ResolverConfig{MinLength: 31, MaxExtraTries: 10}
		r := shortener.NewResolver(s, nil, config, nil, zap.NewNop())

		_, err := r.Resolve(context.Background(), "http://localhost")

		assert.ErrorIs(t, err, shortener.ErrEntropyExhausted)
	})

	t.Run("derives tinies from the cached digest", func(t *testing.T) {
		cache := &fixedDigestCache{digest: strings.Repeat("ab", 16)}
		r := shortener.NewResolver(store.NewMemoryStore(), cache, defaultResolverConfig, nil, zap.NewNop())

		tiny, err := r.Resolve(context.Background(), "http://localhost")

		require.NoError(t, err)
		assert.Equal(t, shortener.Tiny("abababab"), tiny)
		assert.Equal(t, 1, cache.calls)
	})

	t.Run("returns store errors other than not found", func(t *testing.T) {
		boom := errors.New("connection refused")
		repo := &mockRepository{
			findByTiny: func(context.Context, shortener.Tiny) (*shortener.URL, error) {
				return nil, boom
			},
		}
		r := shortener.NewResolver(repo, nil, defaultResolverConfig, nil, zap.NewNop())

		_, err := r.Resolve(context.Background(), "http://localhost")

		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, shortener.ErrEntropyExhausted)
	})

	t.Run("treats any record holding the tiny as a collision", func(t *testing.T) {
		s := store.NewMemoryStore()
		require.NoError(t, s.Insert(context.Background(), &shortener.URL{
			Target: "http://localhost",
			Tiny:   "86a9106a",
		}))
		r := shortener.NewResolver(s, nil, defaultResolverConfig, nil, zap.NewNop())

		tiny, err := r.Resolve(context.Background(), "http://localhost")

		require.NoError(t, err)
		assert.Equal(t, shortener.Tiny("86a9106ae"), tiny)
	})
}
