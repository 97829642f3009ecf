package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/complyloop/extract-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	// Setup mutates the process-wide default logger; restore it afterwards.
	original := slog.Default()
	defer slog.SetDefault(original)

	t.Run("returns a logger for each valid level", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "Info"} {
			log, err := Setup(config.ServerConfig{LogLevel: level})
			require.NoError(t, err, "level %q", level)
			assert.NotNil(t, log, "level %q", level)
		}
	})

	t.Run("debug level enables debug records", func(t *testing.T) {
		log, err := Setup(config.ServerConfig{LogLevel: "debug"})
		require.NoError(t, err)
		assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("error level suppresses info records", func(t *testing.T) {
		log, err := Setup(config.ServerConfig{LogLevel: "error"})
		require.NoError(t, err)
		assert.False(t, log.Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, log.Enabled(context.Background(), slog.LevelError))
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		log, err := Setup(config.ServerConfig{LogLevel: "verbose"})
		require.NoError(t, err)
		assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
		assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
	})

	t.Run("sets the default logger", func(t *testing.T) {
		log, err := Setup(config.ServerConfig{LogLevel: "info"})
		require.NoError(t, err)
		assert.Equal(t, log, slog.Default())
	})
}

func TestWithLogger(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithLogger(context.Background(), custom)

	assert.Equal(t, custom, FromContext(ctx))
}

func TestFromContext(t *testing.T) {
	t.Run("returns the default when no logger is stored", func(t *testing.T) {
		assert.Equal(t, slog.Default(), FromContext(context.Background()))
	})

	t.Run("returns the stored logger", func(t *testing.T) {
		custom := slog.New(slog.NewTextHandler(io.Discard, nil))
		ctx := WithLogger(context.Background(), custom)
		assert.Equal(t, custom, FromContext(ctx))
	})
}

func TestFromContextOrDefault(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("prefers the stored logger", func(t *testing.T) {
		ctx := WithLogger(context.Background(), custom)
		assert.Equal(t, custom, FromContextOrDefault(ctx, fallback))
	})

	t.Run("falls back to the provided logger", func(t *testing.T) {
		assert.Equal(t, fallback, FromContextOrDefault(context.Background(), fallback))
	})

	t.Run("nil fallback yields the global default", func(t *testing.T) {
		assert.Equal(t, slog.Default(), FromContextOrDefault(context.Background(), nil))
	})
}
