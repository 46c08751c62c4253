package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/optlab/backend/pkg/config"
)

// resetGlobalLevel undoes New's zerolog.SetGlobalLevel after each test
func resetGlobalLevel(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })
}

func decodeLines(t *testing.T, raw []byte) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range bytes.Split(bytes.TrimSpace(raw), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(line, &entry), string(line))
		out = append(out, entry)
	}
	return out
}

// captureStderr runs fn with os.Stderr redirected and returns what was written
func captureStderr(t *testing.T, fn func()) []byte {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = orig }()

	fn()
	require.NoError(t, w.Close())

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return out
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), "level %q", in)
	}
}

func TestNew_WritesJSONToStderr(t *testing.T) {
	resetGlobalLevel(t)

	out := captureStderr(t, func() {
		log := New(&config.Config{Env: "test", LogLevel: "info", LogFormat: "json"})
		log.Debug("filtered")
		log.WithField("ticker", "NVDA").Info("Starting pipeline run")
	})

	entries := decodeLines(t, out)
	require.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "test", entries[0]["env"])
	assert.Equal(t, "NVDA", entries[0]["ticker"])
	assert.Equal(t, "Starting pipeline run", entries[0]["message"])
}

func TestNew_ConsoleFormat(t *testing.T) {
	resetGlobalLevel(t)

	out := captureStderr(t, func() {
		New(&config.Config{Env: "development", LogLevel: "debug", LogFormat: "console"}).
			Debug("Run config loaded")
	})

	assert.Contains(t, string(out), "Run config loaded")
	assert.False(t, json.Valid(bytes.TrimSpace(out)), "console output should not be JSON")
}

func TestNewWithWriter_StageFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug")

	log.WithFields(map[string]interface{}{
		"run_id":    "default",
		"stages":    []string{"S0_PRICES", "S1_VOLATILITY"},
		"summaries": 2,
	}).Info("Pipeline run completed")
	log.WithError(errors.New("series length mismatch")).Warn("Evaluation skipped")

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 2)

	assert.Equal(t, "default", entries[0]["run_id"])
	assert.Equal(t, []interface{}{"S0_PRICES", "S1_VOLATILITY"}, entries[0]["stages"])
	assert.Equal(t, float64(2), entries[0]["summaries"])
	assert.NotContains(t, entries[0], "env")

	assert.Equal(t, "warn", entries[1]["level"])
	assert.Equal(t, "series length mismatch", entries[1]["error"])
}

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Error("Volatility stage failed")
	assert.Contains(t, buf.String(), "Volatility stage failed")
}

func TestWithFields_DoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithWriter(&buf, "info")

	parent.WithField("path", "options").Info("child")
	parent.Info("parent")

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 2)
	assert.Equal(t, "options", entries[0]["path"])
	assert.NotContains(t, entries[1], "path")
}

func TestNop(t *testing.T) {
	out := captureStderr(t, func() {
		log := Nop()
		log.Error("nothing happens")
		log.WithFields(map[string]interface{}{"k": "v"}).WithError(errors.New("x")).Warn("still nothing")
	})
	assert.Empty(t, out)
}
