// internal/common/logger/logger_test.go
package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.in))
		})
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	l := New("warn", "json")
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNewWithOptions_BadOutputFallsBackToNop(t *testing.T) {
	l := NewWithOptions(Options{Level: "info", Format: "json", Output: "/nonexistent-dir/x/y.log"})
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestZapAdapter_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	log.WithFields(map[string]interface{}{"kind": "skill_demand"}).
		WithError(errors.New("boom")).
		Warn("Report cache write failed", map[string]interface{}{"key": "abc"})
	log.Debug("plain", nil)

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "Report cache write failed", entry.Message)

	ctx := entry.ContextMap()
	assert.Equal(t, "skill_demand", ctx["kind"])
	assert.Equal(t, "abc", ctx["key"])
	assert.Equal(t, "boom", ctx["error"])

	assert.Empty(t, logs.All()[1].Context)
}

func TestNoOpAndTestLoggers(t *testing.T) {
	NewNoOpLogger().Info("ignored", map[string]interface{}{"a": 1})
	NewTestLogger(t).Error("visible in -v", nil)
	NewStructured("debug", "console").Debug("console", nil)
}
