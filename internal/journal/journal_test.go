package journal

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpen_AppliesPragmasAndVersion(t *testing.T) {
	j := openTestJournal(t)

	mode, err := j.pragma("journal_mode")
	require.NoError(t, err)
	assert.Equal(t, "wal", mode)

	fk, err := j.pragma("foreign_keys")
	require.NoError(t, err)
	assert.Equal(t, "1", fk)

	version, err := j.pragma("user_version")
	require.NoError(t, err)
	assert.Equal(t, "1", version)
}

func TestOpen_ReopensExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j1.BeginSession(ctx, Session{ID: "s1", Document: "a.html", StartedAt: time.Unix(0, 0)}))
	require.NoError(t, j1.Close())

	j2, err := Open(path)
	require.NoError(t, err)
	defer j2.Close()

	sessions, err := j2.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s1", sessions[0].ID)
}

func TestJournal_AppendAndRead(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	require.NoError(t, j.BeginSession(ctx, Session{ID: "s1", Document: "deck.html", StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}))

	// Written out of order; read back by seq.
	require.NoError(t, j.Append(ctx, Entry{SessionID: "s1", Seq: 2, Kind: "index", Node: "#deck", From: "-1", To: "0", ClockTime: 0}))
	require.NoError(t, j.Append(ctx, Entry{SessionID: "s1", Seq: 1, Kind: "state", Node: "#a", From: "idle", To: "active", ClockTime: math.NaN()}))

	entries, err := j.Entries(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].Seq)
	assert.Equal(t, "#a", entries[0].Node)
	assert.True(t, math.IsNaN(entries[0].ClockTime))
	assert.Equal(t, "index", entries[1].Kind)
	assert.Equal(t, 0.0, entries[1].ClockTime)
}

func TestJournal_AppendIsIdempotent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	require.NoError(t, j.BeginSession(ctx, Session{ID: "s1", StartedAt: time.Now()}))
	require.NoError(t, j.BeginSession(ctx, Session{ID: "s1", StartedAt: time.Now()}))

	e := Entry{SessionID: "s1", Seq: 1, Kind: "state", Node: "#a", From: "idle", To: "active", ClockTime: 1.5}
	require.NoError(t, j.Append(ctx, e))
	e.To = "done"
	require.NoError(t, j.Append(ctx, e))

	entries, err := j.Entries(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "active", entries[0].To)
}

func TestJournal_AppendRequiresSession(t *testing.T) {
	j := openTestJournal(t)
	err := j.Append(context.Background(), Entry{SessionID: "ghost", Seq: 1, Kind: "state", Node: "#a"})
	assert.Error(t, err)
}

func TestJournal_UnknownSessionIsEmpty(t *testing.T) {
	j := openTestJournal(t)
	entries, err := j.Entries(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestJournal_SessionsOrderedByStart(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, j.BeginSession(ctx, Session{ID: "late", Document: "b", StartedAt: base.Add(time.Hour)}))
	require.NoError(t, j.BeginSession(ctx, Session{ID: "early", Document: "a", StartedAt: base}))

	sessions, err := j.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "early", sessions[0].ID)
	assert.True(t, sessions[0].StartedAt.Equal(base))
	assert.Equal(t, "late", sessions[1].ID)
}
