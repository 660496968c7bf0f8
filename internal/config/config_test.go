package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-lang/bakergc/internal/gc"
)

func withTempHome(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetConfigDir(tmp)
	t.Cleanup(func() { SetConfigDir("") })
	return tmp
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	withTempHome(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, gc.DefaultSpaceSize, cfg.SpaceSizeBytes)
	assert.Equal(t, gc.DefaultRootDepth, cfg.MaxRootDepth)
	assert.False(t, cfg.DebugTrace)
}

func TestLoadValidConfig(t *testing.T) {
	tmp := withTempHome(t)

	content := `space_size_bytes = 1048576
max_root_depth = 256
debug_trace = true
`
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "config.toml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1048576, cfg.SpaceSizeBytes)
	assert.Equal(t, 256, cfg.MaxRootDepth)
	assert.True(t, cfg.DebugTrace)
}

func TestLoadMalformedTOML(t *testing.T) {
	tmp := withTempHome(t)

	require.NoError(t, os.WriteFile(filepath.Join(tmp, "config.toml"), []byte("not valid [[ toml"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config.toml")
}

func TestLoadNonPositiveValuesFallBackToDefaults(t *testing.T) {
	tmp := withTempHome(t)

	require.NoError(t, os.WriteFile(filepath.Join(tmp, "config.toml"), []byte("space_size_bytes = 0\nmax_root_depth = -5\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, gc.DefaultSpaceSize, cfg.SpaceSizeBytes)
	assert.Equal(t, gc.DefaultRootDepth, cfg.MaxRootDepth)
}

func TestSetThenGetRoundtrip(t *testing.T) {
	withTempHome(t)

	require.NoError(t, Set("space_size_bytes", "2097152"))

	val, err := Get("space_size_bytes")
	require.NoError(t, err)
	assert.Equal(t, "2097152", val)
}

func TestSetDebugTrace(t *testing.T) {
	withTempHome(t)

	require.NoError(t, Set("debug_trace", "true"))
	val, err := Get("debug_trace")
	require.NoError(t, err)
	assert.Equal(t, "true", val)
}

func TestNewHeapWithoutDebugTraceLeavesLoggerUnset(t *testing.T) {
	cfg := Defaults()
	cfg.SpaceSizeBytes = 65536
	cfg.MaxRootDepth = 16

	var buf bytes.Buffer
	heap, err := NewHeap(&cfg, &buf)
	require.NoError(t, err)
	defer heap.Close()

	assert.Equal(t, cfg.SpaceSizeBytes, heap.SpaceSize())

	// A flip logs at Info level only through a wired logger, so with
	// tracing off nothing reaches buf.
	require.NoError(t, heap.ForceFlip())
	assert.Empty(t, buf.String())
}

func TestNewHeapWithDebugTraceWiresLogger(t *testing.T) {
	cfg := Defaults()
	cfg.SpaceSizeBytes = 65536
	cfg.MaxRootDepth = 16
	cfg.DebugTrace = true

	var buf bytes.Buffer
	heap, err := NewHeap(&cfg, &buf)
	require.NoError(t, err)
	defer heap.Close()

	// Forcing a flip with no roots drives Flip, which logs at Info level
	// regardless of trace level, so the wired logger should have written
	// something to buf.
	require.NoError(t, heap.ForceFlip())
	assert.NotEmpty(t, buf.String())
}

func TestSetRejectsNonPositiveSpaceSize(t *testing.T) {
	withTempHome(t)

	err := Set("space_size_bytes", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive")
}

func TestSetRejectsMalformedInteger(t *testing.T) {
	withTempHome(t)

	err := Set("max_root_depth", "not-a-number")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_root_depth")
}

func TestGetUnknownKey(t *testing.T) {
	withTempHome(t)

	_, err := Get("nonexistent_key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestSetUnknownKey(t *testing.T) {
	withTempHome(t)

	err := Set("nonexistent_key", "value")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestEnsureDirCreatesDirectory(t *testing.T) {
	tmp := t.TempDir()
	newDir := filepath.Join(tmp, "subdir", ".bakergc")
	SetConfigDir(newDir)
	defer SetConfigDir("")

	require.NoError(t, EnsureDir())

	info, err := os.Stat(newDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConfigPath(t *testing.T) {
	tmp := withTempHome(t)
	assert.Equal(t, filepath.Join(tmp, "config.toml"), ConfigPath())
}
