package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/tiny/internal/handlers"
	"github.com/serroba/tiny/internal/health"
	"github.com/serroba/tiny/internal/logging"
	"github.com/serroba/tiny/internal/messaging"
	"github.com/serroba/tiny/internal/metrics"
	"github.com/serroba/tiny/internal/middleware"
	"github.com/serroba/tiny/internal/shortener"
	"github.com/serroba/tiny/internal/store"
	"github.com/serroba/tiny/internal/usage"
	"go.uber.org/zap"
)

const (
	connectTimeout = 10 * time.Second
	healthTimeout  = 2 * time.Second
	requestIDSize  = 16
)

// RedisClient owns the shared Redis connection pool.
type RedisClient struct {
	*redis.Client
}

// Shutdown closes the pool.
func (c *RedisClient) Shutdown() error {
	return c.Close()
}

// PostgresPool owns the PostgreSQL connection pool.
type PostgresPool struct {
	*pgxpool.Pool
}

// Shutdown closes the pool.
func (p *PostgresPool) Shutdown() error {
	p.Close()

	return nil
}

// LoggerPackage provides the application logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		return logging.New(logging.Config{Format: opts.LogFormat, Level: opts.LogLevel})
	})
}

// MetricsPackage provides the Prometheus collectors, also as shortener.Metrics.
func MetricsPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*metrics.Prometheus, error) {
		return metrics.New(), nil
	})

	do.Provide(injector, func(i *do.Injector) (shortener.Metrics, error) {
		return do.MustInvoke[*metrics.Prometheus](i), nil
	})
}

// RedisPackage provides the Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisClient{Client: redis.NewClient(&redis.Options{
			Addr: opts.RedisAddr,
		})}, nil
	})
}

// PostgresPackage migrates the schema and provides the connection pool.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*PostgresPool, error) {
		opts := do.MustInvoke[*Options](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		if err := store.Migrate(ctx, opts.DatabaseURL); err != nil {
			return nil, err
		}

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: create pool: %w", err)
		}

		if err = pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("postgres: ping: %w", err)
		}

		return &PostgresPool{Pool: pool}, nil
	})
}

// RepositoryPackage provides the configured record store. PostgreSQL lookups by
// tiny go through a Redis read-through cache unless its TTL is zero.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Store {
		case StoreRedis:
			return store.NewRedisStore(do.MustInvoke[*RedisClient](i).Client), nil
		case StorePostgres:
			var repo shortener.Repository = store.NewPostgresStore(do.MustInvoke[*PostgresPool](i).Pool)

			if opts.recordCacheEnabled() {
				repo = store.NewRedisCacheRepository(
					repo,
					do.MustInvoke[*RedisClient](i).Client,
					time.Duration(opts.RecordCacheTTL)*time.Second,
					do.MustInvoke[*zap.Logger](i),
				)
			}

			return repo, nil
		default:
			return store.NewMemoryStore(), nil
		}
	})
}

// DigestCachePackage provides the digest cache.
func DigestCachePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.DigestCache, error) {
		opts := do.MustInvoke[*Options](i)
		ttl := time.Duration(opts.DigestCacheTTL) * time.Second

		if ttl == 0 {
			return shortener.NopDigestCache{}, nil
		}

		switch opts.DigestCache {
		case DigestCacheMemory:
			return store.NewMemoryDigestCache(ttl), nil
		case DigestCacheRedis:
			return store.NewRedisDigestCache(do.MustInvoke[*RedisClient](i).Client, ttl, do.MustInvoke[*zap.Logger](i)), nil
		default:
			return shortener.NopDigestCache{}, nil
		}
	})
}

// PublisherGroupPackage provides the Redis streams publisher.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client:     do.MustInvoke[*RedisClient](i).Client,
				Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
			},
			messaging.NewZapLoggerAdapter(do.MustInvoke[*zap.Logger](i)),
		)
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// UsagePackage provides the visit recorder for the configured usage mode.
func UsagePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.UsageRecorder, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.UsageMode == UsageAsync {
			group := do.MustInvoke[*messaging.PublisherGroup](i)

			return usage.NewPublishingRecorder(
				messaging.NewPublishFunc[usage.VisitedEvent](group.Publisher(), usage.TopicVisited),
			), nil
		}

		return usage.NewDirectRecorder(do.MustInvoke[shortener.Repository](i)), nil
	})
}

// ShortenerPackage provides the resolver and the service.
func ShortenerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*shortener.Resolver, error) {
		opts := do.MustInvoke[*Options](i)

		return shortener.NewResolver(
			do.MustInvoke[shortener.Repository](i),
			do.MustInvoke[shortener.DigestCache](i),
			shortener.ResolverConfig{MinLength: opts.MinTokenLength, MaxExtraTries: opts.MaxExtraTries},
			do.MustInvoke[shortener.Metrics](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		return shortener.NewService(
			do.MustInvoke[shortener.Repository](i),
			do.MustInvoke[*shortener.Resolver](i),
			do.MustInvoke[shortener.UsageRecorder](i),
			do.MustInvoke[shortener.Metrics](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// HTTPPackage provides the router and the API with every route registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		newID, err := nanoid.Standard(requestIDSize)
		if err != nil {
			return nil, fmt.Errorf("create request id generator: %w", err)
		}

		router.Handle("/metrics", do.MustInvoke[*metrics.Prometheus](i).Handler())

		api := humachi.New(router, huma.DefaultConfig("tiny", "1.0.0"))
		api.UseMiddleware(middleware.RequestLogger(logger, newID))

		handlers.RegisterRoutes(api, handlers.NewURLHandler(
			do.MustInvoke[*shortener.Service](i),
			opts.BaseURL,
			logger,
		))
		health.RegisterRoutes(api, health.NewHandler(healthCheckers(i, opts), healthTimeout, logger))

		return api, nil
	})
}

func healthCheckers(i *do.Injector, opts *Options) map[string]health.Checker {
	checkers := map[string]health.Checker{}

	if opts.NeedsRedis() {
		checkers["redis"] = health.NewRedisChecker(do.MustInvoke[*RedisClient](i).Client)
	}

	if opts.Store == StorePostgres {
		checkers["postgres"] = do.MustInvoke[*PostgresPool](i)
	}

	return checkers
}

// ConsumerGroupPackage provides the consumers applying usage events to the store.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(
			redisstream.SubscriberConfig{
				Client:        do.MustInvoke[*RedisClient](i).Client,
				Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
				ConsumerGroup: opts.ConsumerGroup,
			},
			messaging.NewZapLoggerAdapter(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(
			subscriber,
			usage.TopicVisited,
			usage.NewIncrementHandler(do.MustInvoke[shortener.Repository](i), logger),
			logger,
		))

		return group, nil
	})
}
