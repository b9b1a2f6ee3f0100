package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		env           string
		level         string
		expectedLevel slog.Level
	}{
		{name: "local environment", env: envLocal, expectedLevel: slog.LevelDebug},
		{name: "dev environment", env: envDev, expectedLevel: slog.LevelDebug},
		{name: "prod environment", env: envProd, expectedLevel: slog.LevelInfo},
		{name: "explicit level wins", env: envLocal, level: "warn", expectedLevel: slog.LevelWarn},
		{name: "unknown level falls back", env: envProd, level: "loud", expectedLevel: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.env, tt.level)
			require.NotNil(t, logger)
			ctx := context.Background()
			assert.Equal(t, tt.expectedLevel <= slog.LevelDebug, logger.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.expectedLevel <= slog.LevelInfo, logger.Enabled(ctx, slog.LevelInfo))
			assert.True(t, logger.Enabled(ctx, slog.LevelError))
		})
	}
}

func TestJSONOutsideLocal(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, envProd, "")
	log.Info("stored", slog.String("kind", "sleep"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "stored", line["msg"])
	assert.Equal(t, "sleep", line["kind"])
}

func TestPrettyHandler(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	log := NewWithWriter(&buf, envLocal, "").With(slog.String("component", "store"))
	log.Warn("open failed", slog.Any("error", errors.New("disk full")))

	out := buf.String()
	assert.Contains(t, out, "WARN:")
	assert.Contains(t, out, "open failed")
	assert.Contains(t, out, `"component": "store"`)
	assert.Contains(t, out, `"error": "disk full"`)
}

func TestParseLevel(t *testing.T) {
	lvl, ok := ParseLevel(" Warning ")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, ok = ParseLevel("")
	assert.False(t, ok)
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("nothing") })
}
