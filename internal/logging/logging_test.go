package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })
	return &buf
}

func TestLoggerEmitsJSON(t *testing.T) {
	buf := capture(t)

	log := New("profiler")
	log.Info("probe_complete", map[string]interface{}{"fields": 7})

	var e Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
	assert.Equal(t, "profiler", e.Component)
	assert.Equal(t, "probe_complete", e.Event)
	assert.Equal(t, LevelInfo, e.Level)
	assert.EqualValues(t, 7, e.Extra["fields"])
}

func TestLoggerErrorAndRequest(t *testing.T) {
	buf := capture(t)

	log := New("pipeline").WithRequest("req-1")
	log.Error("render_failed", nil, errors.New("slot unresolved"))

	var e Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
	assert.Equal(t, "req-1", e.Request)
	assert.Equal(t, "slot unresolved", e.Error)
	assert.Equal(t, LevelError, e.Level)
}

func TestTimedEvent(t *testing.T) {
	buf := capture(t)

	log := New("registry")
	log.TimedEvent("load", time.Now().Add(-10*time.Millisecond), nil)

	var e Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
	assert.GreaterOrEqual(t, e.Duration, int64(0))
}
