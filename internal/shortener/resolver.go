package shortener

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Probe is the outcome of a single resolution attempt.
type Probe int

const (
	// ProbeFree means no record holds the attempted tiny.
	ProbeFree Probe = iota
	// ProbeCollides means another record already holds the attempted tiny.
	ProbeCollides
	// ProbeBudgetExceeded means the attempt is past the retry budget.
	ProbeBudgetExceeded
)

// TinyFinder looks records up by tiny.
type TinyFinder interface {
	FindByTiny(ctx context.Context, tiny Tiny) (*URL, error)
}

// ResolverConfig bounds the lengths a Resolver may try.
type ResolverConfig struct {
	MinLength     int
	MaxExtraTries int
}

// Resolver finds a tiny that no record holds yet, growing the token by one
// character on every collision.
type Resolver struct {
	store   TinyFinder
	cache   DigestCache
	config  ResolverConfig
	metrics Metrics
	logger  *zap.Logger
}

// NewResolver creates a Resolver. A nil cache disables digest caching.
func NewResolver(
	store TinyFinder,
	cache DigestCache,
	config ResolverConfig,
	metrics Metrics,
	logger *zap.Logger,
) *Resolver {
	if cache == nil {
		cache = NopDigestCache{}
	}

	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &Resolver{
		store:   store,
		cache:   cache,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve returns a free tiny for a normalized URL that has no record yet.
// The tiny is not reserved: the caller inserts it and the store's unique
// constraint decides races.
func (r *Resolver) Resolve(ctx context.Context, normalizedURL string) (Tiny, error) {
	for tries := 0; ; tries++ {
		tiny, probe, err := r.probe(ctx, normalizedURL, tries)
		if err != nil {
			return "", err
		}

		switch probe {
		case ProbeFree:
			return tiny, nil
		case ProbeCollides:
			r.metrics.Collision(len(tiny))
			r.logger.Warn("tiny collision, scaling tiny size",
				zap.String("tiny", string(tiny)),
				zap.Int("tries", tries),
			)
		case ProbeBudgetExceeded:
			return "", fmt.Errorf("%w: max tries %d exceeded, increase max extra tries",
				ErrEntropyExhausted, r.config.MaxExtraTries)
		}
	}
}

func (r *Resolver) probe(ctx context.Context, normalizedURL string, tries int) (Tiny, Probe, error) {
	length := r.config.MinLength + tries
	if tries > r.config.MaxExtraTries || length > DigestLength {
		return "", ProbeBudgetExceeded, nil
	}

	digest := r.cache.GetOrCompute(ctx, normalizedURL, func() string {
		return Digest(normalizedURL)
	})
	tiny := Truncate(digest, length)

	_, err := r.store.FindByTiny(ctx, tiny)
	if errors.Is(err, ErrNotFound) {
		return tiny, ProbeFree, nil
	}

	if err != nil {
		return "", ProbeFree, fmt.Errorf("look up tiny %q: %w", tiny, err)
	}

	return tiny, ProbeCollides, nil
}
