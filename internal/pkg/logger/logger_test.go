package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerToFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitLogger(LogOption{Format: "json", LogDir: dir, Level: "debug"}))

	Infof("[test] slot=%d", 42)
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, defaultLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[test] slot=42")
}

func TestInitLoggerBadLevel(t *testing.T) {
	assert.Error(t, InitLogger(LogOption{Level: "verbose"}))
}
