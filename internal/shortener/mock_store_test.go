package shortener_test

import (
	"context"
	"sync"

	"github.com/serroba/tiny/internal/shortener"
)

// mockRepository lets tests override single repository operations.
type mockRepository struct {
	findByTarget   func(ctx context.Context, target string) (*shortener.URL, error)
	findByTiny     func(ctx context.Context, tiny shortener.Tiny) (*shortener.URL, error)
	insert         func(ctx context.Context, url *shortener.URL) error
	incrementUsage func(ctx context.Context, tiny shortener.Tiny) error
	topByUsage     func(ctx context.Context, n int) ([]*shortener.URL, error)
}

func (m *mockRepository) FindByTarget(ctx context.Context, target string) (*shortener.URL, error) {
	if m.findByTarget != nil {
		return m.findByTarget(ctx, target)
	}

	return nil, shortener.ErrNotFound
}

func (m *mockRepository) FindByTiny(ctx context.Context, tiny shortener.Tiny) (*shortener.URL, error) {
	if m.findByTiny != nil {
		return m.findByTiny(ctx, tiny)
	}

	return nil, shortener.ErrNotFound
}

func (m *mockRepository) Insert(ctx context.Context, url *shortener.URL) error {
	if m.insert != nil {
		return m.insert(ctx, url)
	}

	return nil
}

func (m *mockRepository) IncrementUsage(ctx context.Context, tiny shortener.Tiny) error {
	if m.incrementUsage != nil {
		return m.incrementUsage(ctx, tiny)
	}

	return nil
}

func (m *mockRepository) TopByUsage(ctx context.Context, n int) ([]*shortener.URL, error) {
	if m.topByUsage != nil {
		return m.topByUsage(ctx, n)
	}

	return nil, nil
}

// recordingMetrics keeps every observation for assertions.
type recordingMetrics struct {
	mu          sync.Mutex
	outcomes    []shortener.Outcome
	collisions  []int
	visits      []bool
	usageFailed int
}

func (m *recordingMetrics) Shortened(outcome shortener.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.outcomes = append(m.outcomes, outcome)
}

func (m *recordingMetrics) Collision(length int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.collisions = append(m.collisions, length)
}

func (m *recordingMetrics) Visited(found bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.visits = append(m.visits, found)
}

func (m *recordingMetrics) UsageRecordFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.usageFailed++
}

// usageFunc adapts a function to shortener.UsageRecorder.
type usageFunc func(ctx context.Context, tiny shortener.Tiny) error

func (f usageFunc) RecordVisit(ctx context.Context, tiny shortener.Tiny) error {
	return f(ctx, tiny)
}

// fixedDigestCache always serves the same digest.
type fixedDigestCache struct {
	digest string
	calls  int
}

func (c *fixedDigestCache) GetOrCompute(_ context.Context, _ string, _ func() string) string {
	c.calls++

	return c.digest
}
