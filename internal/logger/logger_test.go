package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/trackfit/internal/constants"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	require.NoError(t, Init(Config{ConfigDir: configDir}))

	logDir := filepath.Join(configDir, constants.LogDirName)
	_, err := os.Stat(logDir)
	require.NoError(t, err, "log directory was not created")
	require.NotNil(t, Logger)
	assert.Equal(t, log.WarnLevel, Logger.GetLevel())

	Debug("test debug message")
	Info("test info message")
	Warn("test warning message", "key", "value")
	Error("test error message")
}

func TestInitDebugMode(t *testing.T) {
	require.NoError(t, Init(Config{Debug: true, ConfigDir: t.TempDir()}))
	require.NotNil(t, Logger)
	assert.Equal(t, log.DebugLevel, Logger.GetLevel())
}

func TestInitExplicitLevel(t *testing.T) {
	require.NoError(t, Init(Config{Level: "info", ConfigDir: t.TempDir()}))
	assert.Equal(t, log.InfoLevel, Logger.GetLevel())

	err := Init(Config{Level: "loud", ConfigDir: t.TempDir()})
	assert.Error(t, err)
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// must not panic
	Debug("test debug message")
	Info("test info message")
	Warn("test warning message")
	Error("test error message")

	l := Component("engine")
	require.NotNil(t, l)
	l.Warn("discarded")
}

func TestComponent(t *testing.T) {
	require.NoError(t, Init(Config{ConfigDir: t.TempDir()}))
	l := Component("sync")
	require.NotNil(t, l)
	assert.NotSame(t, Logger, l)
}
