package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/tiny/internal/shortener"
	"go.uber.org/zap"
)

const noStore = "no-store"

// URLService is the shortening flow the handlers expose.
type URLService interface {
	Shorten(ctx context.Context, rawURL string) (*shortener.URL, bool, error)
	Visit(ctx context.Context, tiny shortener.Tiny) (*shortener.URL, error)
	Top(ctx context.Context, n int) ([]*shortener.URL, error)
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service URLService
	baseURL string
	logger  *zap.Logger
}

// NewURLHandler creates a new URL handler. Short URLs are built as baseURL/tiny.
func NewURLHandler(service URLService, baseURL string, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		service: service,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

func (h *URLHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	url, existing, err := h.service.Shorten(ctx, req.Body.Target)
	if err != nil {
		return nil, h.shortenError(err)
	}

	resp := &ShortenResponse{CacheControl: noStore}
	resp.Body.Tiny = string(url.Tiny)
	resp.Body.Target = url.Target
	resp.Body.ShortURL = h.baseURL + "/" + string(url.Tiny)
	resp.Body.Created = url.Created
	resp.Body.Existing = existing

	return resp, nil
}

func (h *URLHandler) shortenError(err error) error {
	switch {
	case errors.Is(err, shortener.ErrInvalidURL):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, shortener.ErrUniqueViolation):
		h.logger.Warn("tiny taken concurrently", zap.Error(err))

		return huma.Error409Conflict("the tiny was taken concurrently, retry the request")
	case errors.Is(err, shortener.ErrEntropyExhausted):
		h.logger.Error("could not find a free tiny", zap.Error(err))

		return huma.Error500InternalServerError("could not allocate a tiny")
	default:
		h.logger.Error("failed to shorten url", zap.Error(err))

		return huma.Error500InternalServerError("failed to shorten url")
	}
}

func (h *URLHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	url, err := h.service.Visit(ctx, shortener.Tiny(req.Tiny))
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			h.logger.Debug("unknown tiny", zap.String("tiny", req.Tiny))

			return nil, huma.Error404NotFound("tiny not found")
		}

		h.logger.Error("failed to resolve tiny", zap.String("tiny", req.Tiny), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to resolve tiny")
	}

	return &RedirectResponse{
		Status:       http.StatusFound,
		Location:     url.Target,
		CacheControl: noStore,
	}, nil
}

func (h *URLHandler) Top(ctx context.Context, req *TopRequest) (*TopResponse, error) {
	urls, err := h.service.Top(ctx, req.Limit)
	if err != nil {
		h.logger.Error("failed to list top urls", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list urls")
	}

	resp := &TopResponse{}
	resp.Body.URLs = make([]TopEntry, 0, len(urls))

	for _, url := range urls {
		resp.Body.URLs = append(resp.Body.URLs, TopEntry{
			Tiny:       string(url.Tiny),
			Target:     url.Target,
			Created:    url.Created,
			UsageCount: url.UsageCount,
		})
	}

	return resp, nil
}
