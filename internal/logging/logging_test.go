package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("JSONOutput", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(Config{Level: "info", Format: FormatJSON, Out: buf})

		logger.Info().Str("key", "value").Msg("hello")

		var event map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
		assert.Equal(t, "hello", event["message"])
		assert.Equal(t, "value", event["key"])
	})

	t.Run("LevelFiltering", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(Config{Level: "warn", Format: FormatJSON, Out: buf})

		logger.Info().Msg("dropped")
		assert.Empty(t, buf.Bytes())

		logger.Warn().Msg("kept")
		assert.NotEmpty(t, buf.Bytes())
	})

	t.Run("BadLevelDefaultsToInfo", func(t *testing.T) {
		logger := NewLogger(Config{Level: "shouty"})
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}

func TestComponentLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := ComponentLogger(NewLogger(Config{Format: FormatJSON, Out: buf}), "engine")

	logger.Info().Msg("tagged")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "engine", event["component"])
}

func TestContextPlumbing(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(Config{Format: FormatJSON, Out: buf})

	ctx := WithContext(context.Background(), logger)
	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("roundtrip")
	assert.NotEmpty(t, buf.Bytes())

	t.Run("MissingLoggerIsDisabled", func(t *testing.T) {
		missing := FromContext(context.Background())
		assert.Equal(t, zerolog.Disabled, missing.GetLevel())
	})
}
