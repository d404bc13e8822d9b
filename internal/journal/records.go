package journal

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"
)

// Session describes one journaled run.
type Session struct {
	ID        string
	Document  string
	StartedAt time.Time
}

// Entry is one recorded transition. Kind is "state" for lifecycle changes and
// "index" for container selection changes; From and To hold the state names
// or the indexes rendered as text. ClockTime is the owning container's time
// when the change happened and is NaN when unknown.
type Entry struct {
	SessionID string
	Seq       int64
	Kind      string
	Node      string
	From      string
	To        string
	ClockTime float64
}

// BeginSession registers a session. Registering the same ID again is a no-op.
func (j *Journal) BeginSession(ctx context.Context, s Session) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO sessions (id, document, started_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, s.ID, s.Document, s.StartedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	return nil
}

// Append writes an entry. Duplicate (session, seq) pairs are ignored so a
// replayed write is harmless; the session must already exist.
func (j *Journal) Append(ctx context.Context, e Entry) error {
	var clockTime sql.NullFloat64
	if !math.IsNaN(e.ClockTime) && !math.IsInf(e.ClockTime, 0) {
		clockTime = sql.NullFloat64{Float64: e.ClockTime, Valid: true}
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO entries (session_id, seq, kind, node, from_state, to_state, clock_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`, e.SessionID, e.Seq, e.Kind, e.Node, e.From, e.To, clockTime)
	if err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	return nil
}

// Entries returns a session's entries in sequence order. The result is empty,
// not nil, for an unknown session.
func (j *Journal) Entries(ctx context.Context, sessionID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, seq, kind, node, from_state, to_state, clock_time
		FROM entries
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var clockTime sql.NullFloat64
		if err := rows.Scan(&e.SessionID, &e.Seq, &e.Kind, &e.Node, &e.From, &e.To, &clockTime); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.ClockTime = math.NaN()
		if clockTime.Valid {
			e.ClockTime = clockTime.Float64
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Sessions lists journaled sessions, oldest first.
func (j *Journal) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, document, started_at
		FROM sessions
		ORDER BY started_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var s Session
		var started string
		if err := rows.Scan(&s.ID, &s.Document, &started); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("session %s: invalid started_at %q: %w", s.ID, started, err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}
