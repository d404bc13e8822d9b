package testutil

// FixedSessionID generates the same session id every time.
//
// Deterministic ids keep journal contents and golden traces byte-identical
// across runs. If id is empty, Generate returns "test-session-default".
//
// Thread-safety: FixedSessionID is stateless and safe for concurrent use.
type FixedSessionID struct {
	id string
}

// NewFixedSessionID creates a fixed session id generator.
func NewFixedSessionID(id string) *FixedSessionID {
	if id == "" {
		id = "test-session-default"
	}
	return &FixedSessionID{id: id}
}

// Generate returns the fixed id.
func (g *FixedSessionID) Generate() string {
	return g.id
}
