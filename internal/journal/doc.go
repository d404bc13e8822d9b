// Package journal records timing transitions in SQLite.
//
// The journal is a write-only sink for the engine: sessions append the state
// and index changes they observe, and nothing read back from the journal ever
// feeds engine state. The trace command reads it for inspection.
//
// # Ordering
//
// Entries are keyed by (session_id, seq) where seq is the session's logical
// sequence number. Reads order by seq, never by wall time, so a journaled run
// reads back in the order it happened.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads while a session writes
//   - synchronous=NORMAL
//   - 5-second busy timeout
//   - Foreign key enforcement (entries reference sessions)
package journal
