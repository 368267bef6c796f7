package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		entries = append(entries, m)
	}
	return entries
}

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	log, err := New(&Config{Level: "warn", LogFile: path, MaxSize: 1, Console: io.Discard})
	require.NoError(t, err)

	log.Info("hidden")
	log.WithTransaction("5sig").Warn("visible")
	log.WithComponent("subscriber").Error("failed")
	_ = log.Sync()

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	assert.Equal(t, "visible", entries[0]["msg"])
	assert.Equal(t, "5sig", entries[0]["signature"])
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "subscriber", entries[1]["logger"])
}

func TestNew_Development(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.log")
	log, err := New(&Config{Level: "error", LogFile: path, Development: true, Console: io.Discard})
	require.NoError(t, err)

	end := log.TrackPerformance("quote")
	end()
	_ = log.Sync()

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	assert.Equal(t, "quote", entries[0]["operation"])
	assert.NotEmpty(t, entries[0]["correlation_id"])
	assert.Equal(t, entries[0]["correlation_id"], entries[1]["correlation_id"])
	assert.Contains(t, entries[1], "duration")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_ConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&Config{Level: "info", Console: &buf})
	require.NoError(t, err)

	log.WithTransaction("5sig").Info("Event", zap.String("kind", "TradeEvent"))
	_ = log.Sync()

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "Event")
	assert.Contains(t, out, `"signature": "5sig"`)
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())), "console output is not JSON")
}
