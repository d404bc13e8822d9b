package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/timesheet/internal/engine"
)

// AssertionError is returned when an assertion fails. It carries the trace
// so a failure can be read without rerunning the scenario.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s %s -> %s\n", ev.Seq, ev.Kind, ev.Node, ev.From, ev.To)
		}
	}
	return buf.String()
}

// AssertionContext is what assertions are evaluated against.
type AssertionContext struct {
	Session *engine.Session
	Result  *Result
}

func evaluateAssertion(ctx *AssertionContext, a Assertion) error {
	switch a.Type {
	case AssertState:
		return assertState(ctx, a)
	case AssertCurrentIndex:
		return assertCurrentIndex(ctx, a)
	case AssertActiveCount:
		return assertActiveCount(ctx, a)
	case AssertEventOrder:
		return assertEventOrder(ctx.Result, a.Events)
	case AssertEventCount:
		return assertEventCount(ctx.Result, a.Event, *a.Count)
	case AssertFragment:
		return assertFragment(ctx, a)
	}
	return fmt.Errorf("unknown assertion type: %s", a.Type)
}

func assertState(ctx *AssertionContext, a Assertion) error {
	want := a.Expect.(string)
	got, err := ctx.Session.State(a.Element)
	if err != nil {
		return err
	}
	if got != want {
		return &AssertionError{
			Type:     AssertState,
			Expected: fmt.Sprintf("#%s is %s", a.Element, want),
			Actual:   fmt.Sprintf("#%s is %s", a.Element, got),
			Trace:    ctx.Result.Trace,
		}
	}
	return nil
}

func assertCurrentIndex(ctx *AssertionContext, a Assertion) error {
	c := ctx.Session.Registry().ContainerByID(a.Container)
	if c == nil {
		return fmt.Errorf("unknown container %q", a.Container)
	}
	want := a.Expect.(int)
	if got := c.CurrentIndex(); got != want {
		return &AssertionError{
			Type:     AssertCurrentIndex,
			Expected: fmt.Sprintf("#%s current index %d", a.Container, want),
			Actual:   fmt.Sprintf("#%s current index %d", a.Container, got),
			Trace:    ctx.Result.Trace,
		}
	}
	return nil
}

func assertActiveCount(ctx *AssertionContext, a Assertion) error {
	c := ctx.Session.Registry().ContainerByID(a.Container)
	if c == nil {
		return fmt.Errorf("unknown container %q", a.Container)
	}
	var active []string
	for _, child := range c.Children() {
		if child.IsActive() {
			active = append(active, child.Base().Label())
		}
	}
	want := a.Expect.(int)
	if len(active) != want {
		return &AssertionError{
			Type:     AssertActiveCount,
			Expected: fmt.Sprintf("%d active children in #%s", want, a.Container),
			Actual:   fmt.Sprintf("%d active children %v", len(active), active),
			Trace:    ctx.Result.Trace,
		}
	}
	return nil
}

// assertEventOrder checks that the events occur in the given relative
// order. Other events may be interleaved.
func assertEventOrder(r *Result, events []string) error {
	next := 0
	for _, ev := range r.Events {
		if next < len(events) && ev == events[next] {
			next++
		}
	}
	if next < len(events) {
		return &AssertionError{
			Type:     AssertEventOrder,
			Expected: strings.Join(events, ", "),
			Actual: fmt.Sprintf("%s (missing %q after position %d)",
				strings.Join(r.Events, ", "), events[next], next),
		}
	}
	return nil
}

func assertEventCount(r *Result, event string, want int) error {
	got := 0
	for _, ev := range r.Events {
		if ev == event {
			got++
		}
	}
	if got != want {
		return &AssertionError{
			Type:     AssertEventCount,
			Expected: fmt.Sprintf("%s published %d times", event, want),
			Actual:   fmt.Sprintf("%s published %d times", event, got),
		}
	}
	return nil
}

func assertFragment(ctx *AssertionContext, a Assertion) error {
	want := a.Expect.(string)
	if got := ctx.Session.Fragment(); got != want {
		return &AssertionError{
			Type:     AssertFragment,
			Expected: fmt.Sprintf("fragment %q", want),
			Actual:   fmt.Sprintf("fragment %q", got),
		}
	}
	return nil
}
