package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/timesheet/internal/dom"
	"github.com/roach88/timesheet/internal/engine"
	"github.com/roach88/timesheet/internal/loader"
	"github.com/roach88/timesheet/internal/testutil"
)

// Option configures a scenario run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger routes session logging to logger. Runs are silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// Run executes a scenario on a fresh virtual-time session.
//
// Steps run in order. The first failing step is reported in the result and
// the remaining steps are skipped; assertions are still evaluated so the
// failure report shows the state the session was left in. The returned error
// is reserved for problems that prevent a session from being built at all.
func Run(s *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	doc, err := loadDocument(s)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	session, err := engine.NewSession(doc,
		engine.WithSessionIDGenerator(testutil.NewFixedSessionID(s.SessionID)),
		engine.WithDocumentName(s.Name),
		engine.WithSessionLogger(cfg.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	if err := session.Start(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	result := NewResult()
	for i, step := range s.Steps {
		if err := runStep(session, step); err != nil {
			result.AddError(fmt.Sprintf("steps[%d]: %v", i, err))
			break
		}
	}

	result.Trace = traceFromRecords(session.Trace())
	result.Events = append(result.Events, session.Events()...)
	result.Snapshot = session.Snapshot()

	actx := &AssertionContext{Session: session, Result: result}
	for i, a := range s.Assertions {
		if err := evaluateAssertion(actx, a); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return result, nil
}

func loadDocument(s *Scenario) (*dom.Document, error) {
	if s.Document != "" {
		return loader.ParseHTML([]byte(s.Document), s.dir)
	}
	return loader.Load(s.documentPath())
}

func runStep(session *engine.Session, st Step) error {
	switch {
	case st.Advance != nil:
		return session.Advance(seconds(*st.Advance))
	case st.AdvanceTo != nil:
		return session.AdvanceTo(*st.AdvanceTo)
	case st.Select != nil:
		return session.Select(st.Select.Container, st.Select.Index)
	case st.Navigate != "":
		session.Navigate(st.Navigate)
		return nil
	case st.Trigger != nil:
		return session.Trigger(st.Trigger.Element, st.Trigger.Event)
	case st.Seek != nil:
		return session.Seek(st.Seek.Container, st.Seek.Time)
	}
	return fmt.Errorf("empty step")
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
