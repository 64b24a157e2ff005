package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do"
	"github.com/serroba/tiny/internal/config"
	"github.com/serroba/tiny/internal/container"
	"github.com/serroba/tiny/internal/logging"
	"github.com/serroba/tiny/internal/messaging"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	injector := do.New()
	do.ProvideValue(injector, cfg.Options())
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.RepositoryPackage(injector)
	container.ConsumerGroupPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)
	defer func() { _ = logging.Sync(logger) }()

	group := do.MustInvoke[*messaging.ConsumerGroup](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("consumer starting",
		zap.String("store", cfg.Store),
		zap.String("consumerGroup", cfg.ConsumerGroup),
	)

	if err := group.Run(ctx); err != nil {
		logger.Error("consumer group failed", zap.Error(err))
	}

	if err := injector.Shutdown(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}
