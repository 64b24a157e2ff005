package health

import (
	"context"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"

	Healthy   = "healthy"
	Unhealthy = "unhealthy"
)

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Handler reports the health of the service and of each named dependency.
type Handler struct {
	checkers map[string]Checker
	timeout  time.Duration
	logger   *zap.Logger
}

// NewHandler creates a health handler. Each checker gets timeout to answer.
func NewHandler(checkers map[string]Checker, timeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		checkers: checkers,
		timeout:  timeout,
		logger:   logger,
	}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status       string            `json:"status"                 doc:"ok, or degraded when a dependency is unhealthy"`
		Dependencies map[string]string `json:"dependencies,omitempty"`
	}
}

// Check pings every dependency concurrently.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	resp := &Response{}
	resp.Body.Status = StatusOK
	resp.Body.Dependencies = make(map[string]string, len(h.checkers))

	for name, checker := range h.checkers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			state := Healthy

			if err := checker.Ping(ctx); err != nil {
				h.logger.Warn("dependency unhealthy", zap.String("dependency", name), zap.Error(err))

				state = Unhealthy
			}

			mu.Lock()
			defer mu.Unlock()

			resp.Body.Dependencies[name] = state
			if state == Unhealthy {
				resp.Body.Status = StatusDegraded
			}
		}()
	}

	wg.Wait()

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      "GET",
		Path:        "/health",
		Summary:     "Service health",
		Tags:        []string{"Health"},
	}, h.Check)
}
