package usage

import (
	"context"
	"errors"
	"fmt"

	"github.com/serroba/tiny/internal/messaging"
	"github.com/serroba/tiny/internal/shortener"
	"go.uber.org/zap"
)

// NewIncrementHandler applies VisitedEvents to the store. Events for tinies the
// store does not know are dropped; other store errors are retried.
func NewIncrementHandler(counter Counter, logger *zap.Logger) messaging.Handler[VisitedEvent] {
	return func(ctx context.Context, event *VisitedEvent) error {
		if event.Tiny == "" {
			return fmt.Errorf("%w: event without tiny", messaging.ErrDrop)
		}

		err := counter.IncrementUsage(ctx, shortener.Tiny(event.Tiny))
		if errors.Is(err, shortener.ErrNotFound) {
			return fmt.Errorf("%w: tiny %q: %w", messaging.ErrDrop, event.Tiny, err)
		}

		if err != nil {
			return fmt.Errorf("increment usage of %q: %w", event.Tiny, err)
		}

		logger.Debug("usage incremented",
			zap.String("tiny", event.Tiny),
			zap.Time("visitedAt", event.VisitedAt),
		)

		return nil
	}
}
