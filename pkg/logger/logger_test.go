package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"warn upper case", "WARN", slog.LevelWarn},
		{"warning alias", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"unknown falls back to info", "verbose", slog.LevelInfo},
		{"empty falls back to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.level))
		})
	}
}

func TestLoggerFormatsMessage(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "info", nil)

	log.Info("CreateBooking: salon=%d, time=%s", 7, "10:00")
	log.Debug("should be dropped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "CreateBooking: salon=7, time=10:00", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	log, err := New(path, "warn")
	require.NoError(t, err)

	log.Info("ignored")
	log.Warn("slot %s taken", "10:00")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "slot 10:00 taken")
	assert.NotContains(t, string(data), "ignored")
}

func TestNopLogger(t *testing.T) {
	log := NewNop()
	log.Error("nothing %d", 1)
	assert.False(t, log.Enabled(slog.LevelInfo))
	assert.NoError(t, log.Close())
}
