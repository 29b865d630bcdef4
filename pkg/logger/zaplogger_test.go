package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLogger_InfoWritesFieldsAndCaller(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLoggerWithOptions("test-app", Options{AppEnv: "test"}, &buf)

	l.Info("stored weather file", map[string]any{"name": "a.json", "size": 12})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "stored weather file", lines[0]["msg"])
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "a.json", lines[0]["name"])
	assert.Equal(t, "test-app", lines[0]["app_name"])
	assert.Equal(t, "test", lines[0]["app_zone"])
	assert.Contains(t, lines[0]["caller_func"], "TestLogger_InfoWritesFieldsAndCaller")
}

func TestLogger_ErrorIncludesErrorText(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLogger("test-app", &buf)

	l.Error(errors.New("disk full"), map[string]any{"name": "a.json"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "error", lines[0]["level"])
	assert.Equal(t, "disk full", lines[0]["error"])
	assert.Contains(t, lines[0]["caller_func"], "TestLogger_ErrorIncludesErrorText")
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLoggerWithOptions("test-app", Options{Level: "warn"}, &buf)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warning("shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["msg"])
}

func TestLogger_LogKeyvals(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLogger("test-app", &buf)

	require.NoError(t, l.Log("component", "storage", 7, "bad-key", "dangling"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "storage", lines[0]["component"])
	assert.Equal(t, "bad-key", lines[0]["invalid-key"])
}
