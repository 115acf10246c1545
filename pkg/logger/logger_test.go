package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestFromZap_FormatsMessages(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := FromZap(zap.New(core))

	l.Debug("hidden %d", 1)
	l.Info("allocated %d bookings in house=%d", 3, 7)
	l.Error("failed: %v", "boom")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "allocated 3 bookings in house=7", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	l, err := New(Options{Level: "info", Format: "json", File: path, ServiceName: "test"})
	require.NoError(t, err)

	l.Info("hello %s", "file")
	_ = l.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
	assert.Contains(t, string(data), `"service_name":"test"`)
}

func TestNewNop(t *testing.T) {
	assert.NotPanics(t, func() {
		l := NewNop()
		l.Info("nothing %d", 1)
		l.Warn("nothing")
	})
}
