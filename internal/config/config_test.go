package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"SKETCH_ROOM", "SKETCH_MIN_ZOOM", "SKETCH_THROTTLE_MS", "SKETCH_MDNS", "SKETCH_USER", "SKETCH_LISTEN_ADDR"} {
		t.Setenv(k, "")
	}
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, "lobby", cfg.Room)
	assert.Equal(t, 0.1, cfg.MinZoom)
	assert.Equal(t, 5.0, cfg.MaxZoom)
	assert.Equal(t, 50*time.Millisecond, cfg.Throttle)
	assert.True(t, cfg.MDNS)
	assert.NotEmpty(t, cfg.User)
	assert.Equal(t, 8080, cfg.ListenPort())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SKETCH_ROOM", "design")
	t.Setenv("SKETCH_THROTTLE_MS", "20")
	t.Setenv("SKETCH_MDNS", "false")
	t.Setenv("SKETCH_MAX_ZOOM", "bogus")
	t.Setenv("SKETCH_LISTEN_ADDR", "127.0.0.1:9000")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, "design", cfg.Room)
	assert.Equal(t, 20*time.Millisecond, cfg.Throttle)
	assert.False(t, cfg.MDNS)
	assert.Equal(t, 5.0, cfg.MaxZoom)
	assert.Equal(t, 9000, cfg.ListenPort())
}

func TestDotEnvFile(t *testing.T) {
	// registers the restore, then leaves the key unset so the file applies
	t.Setenv("SKETCH_HISTORY_URL", "")
	require.NoError(t, os.Unsetenv("SKETCH_HISTORY_URL"))
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SKETCH_HISTORY_URL=http://relay:9999\n"), 0o600))

	cfg := Load(path)
	assert.Equal(t, "http://relay:9999", cfg.HistoryURL)
}
