package handlers_test

import (
	"context"

	"github.com/serroba/tiny/internal/shortener"
)

type mockService struct {
	shortenErr error
	visitErr   error
	topErr     error
}

func (m *mockService) Shorten(_ context.Context, _ string) (*shortener.URL, bool, error) {
	return nil, false, m.shortenErr
}

func (m *mockService) Visit(_ context.Context, _ shortener.Tiny) (*shortener.URL, error) {
	return nil, m.visitErr
}

func (m *mockService) Top(_ context.Context, _ int) ([]*shortener.URL, error) {
	return nil, m.topErr
}
