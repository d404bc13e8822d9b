package cli

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/timesheet/internal/journal"
)

func seedJournal(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.db")
	j, err := journal.Open(path)
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	require.NoError(t, j.BeginSession(ctx, journal.Session{
		ID: "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b", Document: "deck", StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}))
	entries := []journal.Entry{
		{Seq: 1, Kind: "index", Node: "#deck", From: "-1", To: "0", ClockTime: 0},
		{Seq: 2, Kind: "state", Node: "#s1", From: "idle", To: "active", ClockTime: 0},
		{Seq: 3, Kind: "state", Node: "#s1", From: "active", To: "done", ClockTime: math.NaN()},
	}
	for _, e := range entries {
		e.SessionID = "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b"
		require.NoError(t, j.Append(ctx, e))
	}
	return path
}

func TestTrace_ListsSessions(t *testing.T) {
	path := seedJournal(t)

	out, err := execute(t, NewTraceCommand, "text", path)
	require.NoError(t, err)
	assert.Contains(t, out, "0190a1b2...0c1d2e3f4a5b")
	assert.Contains(t, out, "deck")
	assert.Contains(t, out, "2026-01-02T03:04:05Z")
	assert.Contains(t, out, "3 entries")
}

func TestTrace_Session(t *testing.T) {
	path := seedJournal(t)

	out, err := execute(t, NewTraceCommand, "json", path, "--session", "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b")
	require.NoError(t, err)

	var result TraceResult
	decodeData(t, out, &result)
	require.Len(t, result.Timeline, 3)
	assert.Equal(t, "#s1", result.Timeline[2].Node)
	assert.Equal(t, TraceStats{TotalEntries: 3, StateChanges: 2, SelectionChanges: 1, Nodes: 2}, result.Stats)
}

func TestTrace_NodeFilterKeepsStats(t *testing.T) {
	path := seedJournal(t)

	out, err := execute(t, NewTraceCommand, "text", path,
		"--session", "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b", "--node", "#deck")
	require.NoError(t, err)
	assert.Contains(t, out, "[1] index #deck -1 -> 0")
	assert.NotContains(t, out, "#s1")
	assert.Contains(t, out, "Total Entries:     3")
}

func TestTrace_UnknownSession(t *testing.T) {
	path := seedJournal(t)

	out, err := execute(t, NewTraceCommand, "text", path, "--session", "nope")
	require.NoError(t, err)
	assert.Contains(t, out, "(no entries)")
}

func TestTrace_MissingJournal(t *testing.T) {
	out, err := execute(t, NewTraceCommand, "json", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodeJournal, decodeError(t, out).Code)
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "short", truncateID("short"))
	assert.Equal(t, "01234567...89abcdef", truncateID("01234567-xxxx-89abcdef"))
}
