package providers

import (
	"os"
	"path/filepath"
	"snaplogd/internal/structures"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggerConfig(dir string) *structures.Config {
	return &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   dir,
		},
	}
}

func TestNewLogProvider_CreatesLogFiles(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogProvider(loggerConfig(dir))
	require.NoError(t, err)
	defer logger.Close()

	// Should be able to log without error
	logger.Infof(TypeApp, "test message")
	logger.Debugf(TypeScheduler, "scheduler message")
	logger.Warnf(TypeSweep, "sweep message")

	for _, name := range []string{"app.log", "scheduler.log", "sweep.log"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected %s to exist", name)
	}
}

func TestNewLogProvider_WritesToCorrectFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogProvider(loggerConfig(dir))
	require.NoError(t, err)
	logger.Infof(TypeSweep, "converted 5 files")
	logger.Close()

	data, err := os.ReadFile(filepath.Join(dir, "sweep.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "converted 5 files")

	app, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(app), "converted 5 files")
}

func TestNewLogProvider_InvalidLevel(t *testing.T) {
	conf := loggerConfig(t.TempDir())
	conf.Logger.Level = "verbose"

	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}

func TestNewLogProvider_InvalidDir(t *testing.T) {
	// a regular file where the log directory should go
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	conf := loggerConfig(filepath.Join(blocker, "logs"))
	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}

func TestNewLogProvider_UnknownTypeFallsBackToApp(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogProvider(loggerConfig(dir))
	require.NoError(t, err)
	logger.Infof(TypeEnum(99), "orphan message")
	logger.Close()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "orphan message")
}
