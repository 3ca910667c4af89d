package simplelogger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minedit.log")
	t.Setenv(EnvLogFile, path)
	t.Setenv(EnvLogLevel, "")

	logger := New()
	logger.Info("applied", "kind", "partial-change")
	logger.Debug("hidden at info")
	New().Warn("second logger appends")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `level=INFO msg=applied kind=partial-change`)
	assert.Contains(t, lines[1], `level=WARN msg="second logger appends"`)
}

func TestNew_Level(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minedit.log")
	t.Setenv(EnvLogFile, path)
	t.Setenv(EnvLogLevel, "DEBUG")

	New().Debug("visible")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "msg=visible")

	assert.Equal(t, slog.LevelError, level("error"))
	assert.Equal(t, slog.LevelWarn, level(" warning "))
	assert.Equal(t, slog.LevelInfo, level("verbose"))
}

func TestNew_DiscardsWhenUnset(t *testing.T) {
	t.Setenv(EnvLogFile, "")
	logger := New()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}

func TestNew_DirectoryPathDropsRecords(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvLogFile, dir)

	assert.NotPanics(t, func() { New().Error("ignored") })

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
