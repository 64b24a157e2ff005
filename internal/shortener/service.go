package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// UsageRecorder counts a successful redirect for a tiny.
type UsageRecorder interface {
	RecordVisit(ctx context.Context, tiny Tiny) error
}

// Service shortens URLs and resolves tinies back to their targets.
type Service struct {
	store    Repository
	resolver *Resolver
	usage    UsageRecorder
	metrics  Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the shortening flow around a repository and a resolver.
func NewService(
	store Repository,
	resolver *Resolver,
	usage UsageRecorder,
	metrics Metrics,
	logger *zap.Logger,
) *Service {
	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &Service{
		store:    store,
		resolver: resolver,
		usage:    usage,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Shorten returns the record for rawURL, creating it when the normalized URL has
// not been submitted before. The boolean reports whether the record already existed.
func (s *Service) Shorten(ctx context.Context, rawURL string) (*URL, bool, error) {
	target := Normalize(rawURL)
	if target != rawURL {
		s.logger.Debug("normalized url", zap.String("url", target))
	}

	if err := Validate(target); err != nil {
		s.metrics.Shortened(OutcomeInvalid)

		return nil, false, err
	}

	existing, err := s.store.FindByTarget(ctx, target)
	if err == nil {
		s.logger.Info("record already exists",
			zap.String("tiny", string(existing.Tiny)),
			zap.String("target", target),
		)
		s.metrics.Shortened(OutcomeExisting)

		return existing, true, nil
	}

	if !errors.Is(err, ErrNotFound) {
		s.metrics.Shortened(OutcomeError)

		return nil, false, fmt.Errorf("find target: %w", err)
	}

	tiny, err := s.resolver.Resolve(ctx, target)
	if err != nil {
		if errors.Is(err, ErrEntropyExhausted) {
			s.metrics.Shortened(OutcomeExhausted)
		} else {
			s.metrics.Shortened(OutcomeError)
		}

		return nil, false, err
	}

	url := &URL{
		Target:  target,
		Tiny:    tiny,
		Created: s.now().UTC(),
	}

	s.logger.Debug("add tiny record", zap.String("tiny", string(tiny)), zap.String("target", target))

	if err = s.store.Insert(ctx, url); err != nil {
		if errors.Is(err, ErrUniqueViolation) {
			s.metrics.Shortened(OutcomeConflict)
		} else {
			s.metrics.Shortened(OutcomeError)
		}

		return nil, false, fmt.Errorf("insert tiny %q: %w", tiny, err)
	}

	s.metrics.Shortened(OutcomeCreated)

	return url, false, nil
}

// Visit returns the record for a tiny and counts the visit. A failure to count
// is logged and does not fail the visit.
func (s *Service) Visit(ctx context.Context, tiny Tiny) (*URL, error) {
	url, err := s.store.FindByTiny(ctx, tiny)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.metrics.Visited(false)
		}

		return nil, err
	}

	if err = s.usage.RecordVisit(ctx, tiny); err != nil {
		s.metrics.UsageRecordFailed()
		s.logger.Warn("failed to record usage",
			zap.String("tiny", string(tiny)),
			zap.Error(err),
		)
	}

	s.metrics.Visited(true)
	s.logger.Debug("send redirect", zap.String("tiny", string(tiny)), zap.String("target", url.Target))

	return url, nil
}

// Top returns the n most used records.
func (s *Service) Top(ctx context.Context, n int) ([]*URL, error) {
	urls, err := s.store.TopByUsage(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("top by usage: %w", err)
	}

	return urls, nil
}
