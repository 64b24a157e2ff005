package logging_test

import (
	"testing"

	"github.com/serroba/tiny/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("defaults to json at info", func(t *testing.T) {
		logger, err := logging.New(logging.Config{})

		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("honors the configured level", func(t *testing.T) {
		logger, err := logging.New(logging.Config{Format: logging.FormatConsole, Level: "DEBUG"})

		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("rejects unknown levels", func(t *testing.T) {
		_, err := logging.New(logging.Config{Level: "verbose"})

		assert.ErrorContains(t, err, "invalid level")
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		_, err := logging.New(logging.Config{Format: "xml"})

		assert.ErrorContains(t, err, "unknown format")
	})
}
