package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
	assert.Equal(t, "warn", LevelWarn.String())
}

func TestFieldsReachZap(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core), LevelDebug).With(String("track", "default"))

	l.Warn("fallback", Int("line", 3), Float64("x", 1.5), Bool("ok", false), Err(errors.New("boom")))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "fallback", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "default", ctx["track"])
	assert.Equal(t, int64(3), ctx["line"])
	assert.Equal(t, 1.5, ctx["x"])
	assert.Equal(t, false, ctx["ok"])
	assert.Equal(t, "boom", ctx["error"])
}
