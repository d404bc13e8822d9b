package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 40*time.Millisecond, cfg.TickRate)
	assert.Equal(t, 250*time.Millisecond, cfg.MediaUpdateRate)
	assert.InDelta(t, 0.1, cfg.SeekEpsilon, 1e-9)
	assert.Equal(t, 16, cfg.MaxDispatchDepth)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.Journal)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, Default().Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TIMESHEET_TICK_RATE", "10ms")
	t.Setenv("TIMESHEET_SEEK_EPSILON", "0.25")
	t.Setenv("TIMESHEET_MAX_DISPATCH_DEPTH", "4")
	t.Setenv("TIMESHEET_LOG_LEVEL", "debug")
	t.Setenv("TIMESHEET_LOG_FORMAT", "JSON")
	t.Setenv("TIMESHEET_JOURNAL", "/tmp/journal.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Millisecond, cfg.TickRate)
	assert.InDelta(t, 0.25, cfg.SeekEpsilon, 1e-9)
	assert.Equal(t, 4, cfg.MaxDispatchDepth)
	assert.True(t, cfg.JSONLogs())
	assert.Equal(t, "/tmp/journal.db", cfg.Journal)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unparsable duration", "TIMESHEET_TICK_RATE", "soon"},
		{"zero tick rate", "TIMESHEET_TICK_RATE", "0s"},
		{"negative epsilon", "TIMESHEET_SEEK_EPSILON", "-1"},
		{"zero depth", "TIMESHEET_MAX_DISPATCH_DEPTH", "0"},
		{"unknown level", "TIMESHEET_LOG_LEVEL", "loud"},
		{"unknown format", "TIMESHEET_LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
