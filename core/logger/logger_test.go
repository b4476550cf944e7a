package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/core/logger"
)

func TestNew_JSONWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithProduction("dispatch"),
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("region", "eu")),
	)

	log.Info("subscribed", logger.Channel("alerts"), logger.Error(nil))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "subscribed", rec["msg"])
	assert.Equal(t, "dispatch", rec["service"])
	assert.Equal(t, "production", rec["env"])
	assert.Equal(t, "eu", rec["region"])
	assert.Equal(t, "alerts", rec["channel"])
	assert.NotContains(t, rec, "error")
}

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevelName("warn"))

	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	log = logger.New(logger.WithOutput(&buf), logger.WithLevelName("bogus"))
	log.Debug("hidden")
	log.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger.New(logger.WithEnvironment("prod", "svc"), logger.WithOutput(&buf)).Info("x")
	assert.True(t, json.Valid(buf.Bytes()))

	buf.Reset()
	logger.New(logger.WithEnvironment("local", "svc"), logger.WithOutput(&buf)).Debug("dbg")
	assert.Contains(t, buf.String(), "env=development")
	assert.Contains(t, buf.String(), "dbg")
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "error", logger.Error(errors.New("x")).Key)
	assert.Equal(t, slog.Attr{}, logger.Errors(nil, nil))
	assert.Equal(t, "errors", logger.Errors(nil, errors.New("x")).Key)
	assert.Equal(t, slog.Attr{}, logger.Panic(nil))
	assert.Equal(t, "boom", logger.Panic("boom").Value.String())
	assert.Equal(t, slog.Attr{}, logger.Addr(""))
	assert.Equal(t, slog.String("channel", "alerts"), logger.Channel("alerts"))
	assert.Equal(t, slog.Int("payload_size", 3), logger.PayloadSize(3))
	assert.Equal(t, slog.Attr{}, logger.ID("manager_id", nil))
	assert.Equal(t, slog.String("component", "dispatch"), logger.Component("dispatch"))
	assert.Equal(t, slog.String("action", "subscribe"), logger.Action("subscribe"))
	assert.Equal(t, slog.Int("retry_count", 2), logger.RetryCount(2))
	assert.Equal(t, slog.Int("subscriptions", 4), logger.Count("subscriptions", 4))
	assert.Equal(t, "channels", logger.Channels([]string{"a", "b"}).Key)
}

func TestNop(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		logger.Nop().Error("discarded", logger.Error(errors.New("x")))
	})
}
