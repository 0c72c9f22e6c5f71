package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("combat", &buf, WARN)

	l.Info("не должно попасть")
	l.Warn("нет контроллера для %s", "enemy-1")

	out := buf.String()
	assert.NotContains(t, out, "не должно попасть")
	assert.Contains(t, out, "[WARN] [combat] нет контроллера для enemy-1")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Error("ничего") })
}

func TestNewLogger_File(t *testing.T) {
	dir := t.TempDir()
	SetLogDir(dir)
	defer SetLogDir("")

	l, err := NewLogger("world")
	require.NoError(t, err)
	l.Debug("тик %d", 1)
	require.NoError(t, l.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(dir + "/" + entries[0].Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] [world] тик 1")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, ERROR, ParseLevel("ERROR"))
	assert.Equal(t, INFO, ParseLevel("что-то"))
}

func TestLoggerManager_ComponentLevels(t *testing.T) {
	lm := newLoggerManager()

	t.Run("level before logger exists", func(t *testing.T) {
		lm.SetComponentLevel("enemy", DEBUG)
		l, err := lm.GetLogger("enemy")
		require.NoError(t, err)
		assert.Equal(t, DEBUG, l.minConsoleLevel)
		assert.Equal(t, DEBUG, lm.Level("enemy"))
	})

	t.Run("existing logger is updated", func(t *testing.T) {
		l := lm.MustGetLogger("combat")
		lm.SetComponentLevel("combat", ERROR)
		assert.Equal(t, ERROR, l.minConsoleLevel)
	})

	t.Run("config levels", func(t *testing.T) {
		err := lm.ApplyLevels(map[string]string{"world": "trace", "api": "громко"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api=громко")
		assert.Equal(t, TRACE, lm.Level("world"), "корректные уровни применяются несмотря на ошибку")
	})

	assert.Equal(t, []string{"combat", "enemy"}, lm.ListComponents())
	require.NoError(t, lm.CloseAll())
	assert.Empty(t, lm.ListComponents())
}
