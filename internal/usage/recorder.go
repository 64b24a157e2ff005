package usage

import (
	"context"
	"time"

	"github.com/serroba/tiny/internal/messaging"
	"github.com/serroba/tiny/internal/shortener"
)

// Counter increments the usage count of a stored record.
type Counter interface {
	IncrementUsage(ctx context.Context, tiny shortener.Tiny) error
}

// DirectRecorder counts visits synchronously in the store.
type DirectRecorder struct {
	counter Counter
}

// NewDirectRecorder creates a recorder that increments the counter in place.
func NewDirectRecorder(counter Counter) *DirectRecorder {
	return &DirectRecorder{counter: counter}
}

func (r *DirectRecorder) RecordVisit(ctx context.Context, tiny shortener.Tiny) error {
	return r.counter.IncrementUsage(ctx, tiny)
}

// PublishingRecorder emits a VisitedEvent per visit; a consumer applies the
// increment later, so usage counts are eventually consistent in this mode.
type PublishingRecorder struct {
	publish messaging.Publish[VisitedEvent]
	now     func() time.Time
}

// NewPublishingRecorder creates a recorder that publishes visits.
func NewPublishingRecorder(publish messaging.Publish[VisitedEvent]) *PublishingRecorder {
	return &PublishingRecorder{
		publish: publish,
		now:     time.Now,
	}
}

func (r *PublishingRecorder) RecordVisit(ctx context.Context, tiny shortener.Tiny) error {
	return r.publish(ctx, &VisitedEvent{
		Tiny:      string(tiny),
		VisitedAt: r.now().UTC(),
	})
}

// Compile-time checks.
var (
	_ shortener.UsageRecorder = (*DirectRecorder)(nil)
	_ shortener.UsageRecorder = (*PublishingRecorder)(nil)
)
