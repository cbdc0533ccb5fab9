package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, closeFn, err := New(Options{File: path, Level: "info"})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Named("studyplan").Info("plan generated", zap.String("title", "Cardiology"))
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug is below the configured level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "studyplan", entry["logger"])
	assert.Equal(t, "plan generated", entry["msg"])
	assert.Equal(t, "Cardiology", entry["title"])
}

func TestNew_Off(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never.log")
	logger, closeFn, err := New(Options{File: path, Level: "off"})
	require.NoError(t, err)
	logger.Error("dropped")
	require.NoError(t, closeFn())
	assert.NoFileExists(t, path)
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New(Options{File: filepath.Join(t.TempDir(), "x.log"), Level: "loud"})
	assert.Error(t, err)
}

func TestDefaultLogPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	p, err := DefaultLogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "studyforge", "studyforge.log"), p)
}
