package harness

import "github.com/roach88/timesheet/internal/engine"

// TraceEvent is one recorded transition. Times are left out so golden files
// stay stable across floating point noise.
type TraceEvent struct {
	Seq  int64  `json:"seq"`
	Kind string `json:"kind"`
	Node string `json:"node"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every step succeeded and every assertion held.
	Pass bool `json:"pass"`

	Trace []TraceEvent `json:"trace"`

	// Events holds the published event keys in order, e.g. "a.begin".
	Events []string `json:"events"`

	// Errors is empty when Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Snapshot is the session state after the last step.
	Snapshot engine.Snapshot `json:"snapshot"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Events: []string{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func traceFromRecords(records []engine.Record) []TraceEvent {
	out := make([]TraceEvent, 0, len(records))
	for _, rec := range records {
		out = append(out, TraceEvent{
			Seq:  rec.Seq,
			Kind: string(rec.Kind),
			Node: rec.Node,
			From: rec.From,
			To:   rec.To,
		})
	}
	return out
}
