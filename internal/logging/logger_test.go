package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger("erosion", &buf, WARN)

	logger.Info("не должно попасть в вывод")
	logger.Warn("капля %d", 7)
	logger.Error("ошибка")

	out := buf.String()
	assert.NotContains(t, out, "не должно попасть")
	assert.Contains(t, out, "[WARN] [erosion] капля 7")
	assert.Contains(t, out, "[ERROR] [erosion] ошибка")
}

func TestLogger_NilIsSilent(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Info("ничего")
		logger.SetLevels(TRACE, TRACE)
	})
	assert.NoError(t, logger.Close())
	assert.Equal(t, "", logger.Component())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, TRACE, ParseLevel("trace"))
	assert.Equal(t, DEBUG, ParseLevel("DEBUG"))
	assert.Equal(t, WARN, ParseLevel("warn"))
	assert.Equal(t, ERROR, ParseLevel("error"))
	assert.Equal(t, INFO, ParseLevel("что-то"))
}

func TestLoggerManager_Components(t *testing.T) {
	lm := NewLoggerManager()

	a, err := lm.GetLogger("noise")
	require.NoError(t, err)
	b, err := lm.GetLogger("noise")
	require.NoError(t, err)
	assert.Same(t, a, b, "повторный запрос должен вернуть тот же логгер")

	_, err = lm.GetLogger("biome")
	require.NoError(t, err)
	assert.Equal(t, []string{"biome", "noise"}, lm.ListComponents())

	require.NoError(t, lm.SetLogLevel("noise", DEBUG, DEBUG))
	err = lm.SetLogLevel("missing", DEBUG, DEBUG)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "missing"))

	require.NoError(t, lm.CloseAll())
	assert.Empty(t, lm.ListComponents())
}

func TestLoggerManager_FileSink(t *testing.T) {
	dir := t.TempDir()
	lm := NewLoggerManager()
	lm.SetLogDir(dir)

	logger, err := lm.GetLogger("storage")
	require.NoError(t, err)
	logger.Trace("запись %d", 1)
	require.NoError(t, lm.CloseAll())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "storage_"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[TRACE] [storage] запись 1")
}
