package store

import (
	"context"
	"sort"
	"sync"

	"github.com/serroba/tiny/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu       sync.RWMutex
	byTiny   map[shortener.Tiny]*shortener.URL
	byTarget map[string]shortener.Tiny
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byTiny:   make(map[shortener.Tiny]*shortener.URL),
		byTarget: make(map[string]shortener.Tiny),
	}
}

func (m *MemoryStore) FindByTarget(_ context.Context, target string) (*shortener.URL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tiny, ok := m.byTarget[target]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return copyURL(m.byTiny[tiny]), nil
}

func (m *MemoryStore) FindByTiny(_ context.Context, tiny shortener.Tiny) (*shortener.URL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	url, ok := m.byTiny[tiny]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return copyURL(url), nil
}

func (m *MemoryStore) Insert(_ context.Context, url *shortener.URL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byTarget[url.Target]; ok {
		return shortener.ErrUniqueViolation
	}

	if _, ok := m.byTiny[url.Tiny]; ok {
		return shortener.ErrUniqueViolation
	}

	m.byTiny[url.Tiny] = copyURL(url)
	m.byTarget[url.Target] = url.Tiny

	return nil
}

func (m *MemoryStore) IncrementUsage(_ context.Context, tiny shortener.Tiny) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	url, ok := m.byTiny[tiny]
	if !ok {
		return shortener.ErrNotFound
	}

	url.UsageCount++

	return nil
}

func (m *MemoryStore) TopByUsage(_ context.Context, n int) ([]*shortener.URL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	urls := make([]*shortener.URL, 0, len(m.byTiny))
	for _, url := range m.byTiny {
		urls = append(urls, copyURL(url))
	}

	sort.Slice(urls, func(i, j int) bool {
		if urls[i].UsageCount != urls[j].UsageCount {
			return urls[i].UsageCount > urls[j].UsageCount
		}

		return urls[i].Created.Before(urls[j].Created)
	})

	if n >= 0 && len(urls) > n {
		urls = urls[:n]
	}

	return urls, nil
}

func copyURL(url *shortener.URL) *shortener.URL {
	c := *url

	return &c
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
