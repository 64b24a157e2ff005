package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/serroba/tiny/internal/config"
	"github.com/serroba/tiny/internal/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("uses defaults without file or environment", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := config.Load()

		require.NoError(t, err)
		assert.Equal(t, container.StoreRedis, cfg.Store)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, "tiny-usage", cfg.ConsumerGroup)
		assert.Equal(t, "json", cfg.LogFormat)
	})

	t.Run("reads config yaml", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
			"store: postgres\nredis_addr: redis:6379\nlog_level: debug\n",
		), 0o600))

		cfg, err := config.Load()

		require.NoError(t, err)
		assert.Equal(t, container.StorePostgres, cfg.Store)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("redis_addr: redis:6379\n"), 0o600))
		t.Setenv("TINY_REDIS_ADDR", "cache:6380")

		cfg, err := config.Load()

		require.NoError(t, err)
		assert.Equal(t, "cache:6380", cfg.RedisAddr)
	})

	t.Run("reads a dotenv file", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TINY_CONSUMER_GROUP=from-dotenv\n"), 0o600))
		t.Cleanup(func() { _ = os.Unsetenv("TINY_CONSUMER_GROUP") })

		cfg, err := config.Load()

		require.NoError(t, err)
		assert.Equal(t, "from-dotenv", cfg.ConsumerGroup)
	})

	t.Run("fails on a malformed file", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unterminated\n"), 0o600))

		_, err := config.Load()

		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestConfig_Options(t *testing.T) {
	t.Run("maps onto synchronous container options", func(t *testing.T) {
		cfg := &config.Config{
			Store:         container.StorePostgres,
			DatabaseURL:   "postgres://db",
			RedisAddr:     "redis:6379",
			ConsumerGroup: "group",
			LogFormat:     "console",
			LogLevel:      "warn",
		}

		opts := cfg.Options()

		assert.Equal(t, container.StorePostgres, opts.Store)
		assert.Equal(t, "postgres://db", opts.DatabaseURL)
		assert.Equal(t, "group", opts.ConsumerGroup)
		assert.Equal(t, container.UsageSync, opts.UsageMode)
		assert.Equal(t, 0, opts.RecordCacheTTL)
	})
}
