package logging

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config drives how the logger is built.
type Config struct {
	Format string
	Level  string
}

// New returns a production zap logger. The console format prints aligned,
// colorized levels when stdout is a terminal and NO_COLOR is unset.
func New(cfg Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()

	switch cfg.Format {
	case "", FormatJSON:
		zapCfg.Encoding = FormatJSON
	case FormatConsole:
		zapCfg.Encoding = FormatConsole
	default:
		return nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}

	zapCfg.EncoderConfig = encoderConfig(zapCfg.Encoding, shouldColorize())

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return nil, fmt.Errorf("logging: invalid level %q: %w", cfg.Level, err)
		}

		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}

// Sync flushes the logger, ignoring the errors stdout returns when it is a terminal.
func Sync(logger *zap.Logger) error {
	err := logger.Sync()
	if err == nil || errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, os.ErrInvalid) {
		return nil
	}

	return err
}

func encoderConfig(encoding string, colors bool) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder

	if encoding == FormatConsole {
		cfg.ConsoleSeparator = " | "
		cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
		}
		cfg.EncodeLevel = levelEncoder(colors)
	}

	return cfg
}

func levelEncoder(colors bool) zapcore.LevelEncoder {
	return func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		label := fmt.Sprintf("%-5s", level.CapitalString())
		if colors {
			label = levelColor(level) + label + colorReset
		}

		enc.AppendString(label)
	}
}

func shouldColorize() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
)

func levelColor(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return colorCyan
	case zapcore.InfoLevel:
		return colorGreen
	case zapcore.WarnLevel:
		return colorYellow
	case zapcore.DPanicLevel, zapcore.PanicLevel:
		return colorMagenta
	default:
		return colorRed
	}
}
