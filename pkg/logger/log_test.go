package logger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dset/Cloud-Market/pkg/errors"
	"github.com/dset/Cloud-Market/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected Level
	}{
		{input: "debug", expected: DebugLevel},
		{input: " WARN ", expected: WarnLevel},
		{input: "error", expected: ErrorLevel},
		{input: "info", expected: InfoLevel},
		{input: "verbose", expected: InfoLevel},
		{input: "", expected: InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseLevel(tc.input))
		})
	}
}

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_ContextFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "venue.log")

	log, err := NewLogger(
		WithLoggingLevel(DebugLevel),
		WithOutputPaths([]string{path}),
		WithServiceName("venue", "test"),
	)
	require.NoError(t, err)

	ctx := util.WithActorID(util.WithRequestID(context.Background(), "req-9"), "alice")

	log.InfoContext(ctx, "order submitted", Field{Key: "action", Value: "submit_order"})
	log.ErrorContext(ctx, errors.NewTracer("commit failed").Wrap(assert.AnError), Field{Key: "action", Value: "commit"})
	require.NoError(t, log.Sync())

	entries := readEntries(t, path)
	require.Len(t, entries, 2)

	assert.Equal(t, "order submitted", entries[0]["message"])
	assert.Equal(t, "submit_order", entries[0]["action"])
	assert.Equal(t, "req-9", entries[0]["request_id"])
	assert.Equal(t, "alice", entries[0]["actor_id"])
	assert.Equal(t, "venue", entries[0]["service"])

	assert.Equal(t, "error", entries[1]["level"])
	assert.NotEmpty(t, entries[1]["stacktrace"])
}

func TestLogger_LevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "venue.log")

	log, err := NewLogger(WithLoggingLevel(WarnLevel), WithOutputPaths([]string{path}))
	require.NoError(t, err)

	log.Debug("dropped")
	log.Info("dropped")
	log.Warn("kept")
	log.Error(nil)
	require.NoError(t, log.Sync())

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["message"])
}
