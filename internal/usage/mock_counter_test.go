package usage_test

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/tiny/internal/shortener"
)

type mockCounter struct {
	mu     sync.Mutex
	counts map[shortener.Tiny]int
	err    error
}

func newMockCounter() *mockCounter {
	return &mockCounter{counts: map[shortener.Tiny]int{}}
}

func (m *mockCounter) IncrementUsage(_ context.Context, tiny shortener.Tiny) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.counts[tiny]++

	return nil
}

func (m *mockCounter) count(tiny shortener.Tiny) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.counts[tiny]
}

type mockPublisher struct {
	messages   []*message.Message
	topic      string
	publishErr error
}

func (m *mockPublisher) Publish(topic string, msgs ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topic = topic
	m.messages = append(m.messages, msgs...)

	return nil
}

func (m *mockPublisher) Close() error {
	return nil
}
