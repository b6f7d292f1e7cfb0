package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestWriter_FieldsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "debug").With("orchestrator")

	l.Info("settled",
		String("profile", "full"),
		Int("generation", 3),
		Bool("ok", true),
		Duration("elapsed_ms", 1500*time.Millisecond),
		Error(errors.New("boom")),
	)

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "info", got[0]["level"])
	assert.Equal(t, "settled", got[0]["message"])
	assert.Equal(t, "orchestrator", got[0]["component"])
	assert.Equal(t, "full", got[0]["profile"])
	assert.EqualValues(t, 3, got[0]["generation"])
	assert.EqualValues(t, 1500, got[0]["elapsed_ms"])
	assert.Equal(t, "boom", got[0]["error"])
}

func TestWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "warn")

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown")

	assert.Len(t, lines(t, &buf), 2)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNilLoggerWith(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.With("x").Info("dropped") })
}
