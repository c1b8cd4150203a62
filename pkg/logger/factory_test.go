package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tgauth/pkg/logger"
)

type ctxKey struct{}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Debug("hidden")
		log.Info("hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("development environment", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithEnvironment("development", "tgauth"))
		log.Debug("visible")

		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.Contains(t, buf.String(), "service=tgauth")
		assert.Contains(t, buf.String(), "env=development")
	})

	t.Run("production environment", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithEnvironment("production", "tgauth"))
		log.Debug("hidden")
		log.Info("shown")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "production", entry["env"])
		assert.Equal(t, "shown", entry["msg"])
	})

	t.Run("context extractors", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextExtractors(
			func(ctx context.Context) (slog.Attr, bool) {
				v, ok := ctx.Value(ctxKey{}).(string)
				return slog.String("request_id", v), ok
			},
			nil,
		))

		log.InfoContext(context.WithValue(context.Background(), ctxKey{}, "req-1"), "hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "req-1", entry["request_id"])
	})

	t.Run("explicit attribute wins over extractor", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextExtractors(
			func(ctx context.Context) (slog.Attr, bool) {
				return slog.String("request_id", "from-context"), true
			},
		))

		log.InfoContext(context.Background(), "hello", slog.String("request_id", "explicit"))

		assert.Equal(t, 1, strings.Count(buf.String(), `"request_id"`))
		assert.Contains(t, buf.String(), `"request_id":"explicit"`)
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})
}

func TestConfigOptions(t *testing.T) {
	t.Parallel()

	t.Run("overrides environment defaults", func(t *testing.T) {
		t.Parallel()
		opts, err := logger.Config{Level: "warn", Format: "JSON"}.Options()
		require.NoError(t, err)

		buf := &bytes.Buffer{}
		log := logger.New(append([]logger.Option{logger.WithOutput(buf), logger.WithEnvironment("development", "")}, opts...)...)
		log.Info("hidden")
		log.Warn("shown")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "WARN", entry["level"])
	})

	t.Run("empty config adds nothing", func(t *testing.T) {
		t.Parallel()
		opts, err := logger.Config{}.Options()
		require.NoError(t, err)
		assert.Empty(t, opts)
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Parallel()
		_, err := logger.Config{Level: "loud"}.Options()
		assert.Error(t, err)
		_, err = logger.Config{Format: "xml"}.Options()
		assert.Error(t, err)
	})
}
