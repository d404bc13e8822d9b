// Package engine runs timing documents as sessions.
//
// ARCHITECTURE:
//
// Single-Writer Sessions:
// A Session owns one document's time tree, event bus and deep-link
// resolver. Every mutation of the tree happens on one goroutine:
// - Virtual sessions are driven by the caller through Advance and AdvanceTo,
// which fire due clock ticks in order on the calling goroutine.
// - Real-time sessions run on a Loop. Clock ticks and commands from other
// goroutines are posted to the loop and executed one at a time.
//
// Recording:
// A Recorder observes state and index transitions and stamps each with the
// next number from the session's Sequence. The trace is kept in memory and,
// when a journal is attached, mirrored to SQLite. The journal is never read
// back into a running session.
//
// Media:
// ExclusiveMedia keeps one media source playing at a time across the
// containers synchronized with media.
//
// CRITICAL PATTERNS:
//
// Logical Ordering
// Records are ordered by Sequence numbers, never by wall-clock timestamps.
//
// Deterministic Simulation
// With the Virtual clock and a FixedGenerator for ids, a session produces
// the same trace on every run.
package engine
