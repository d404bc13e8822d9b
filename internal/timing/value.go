package timing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Indefinite is the unbounded time value.
var Indefinite = math.Inf(1)

// Unresolved is the sentinel for times that cannot be computed.
var Unresolved = math.NaN()

// EventRef names an event that begins or ends a node. An empty ElementID
// means the event is observed on the node's own event target.
type EventRef struct {
	ElementID string
	Event     string
}

// String renders the reference in attribute syntax.
func (r EventRef) String() string {
	if r.ElementID == "" {
		return r.Event
	}
	return r.ElementID + "." + r.Event
}

// Value is a parsed timing attribute. A value that is set but does not parse
// as a time has unresolved Seconds and usually carries event references.
type Value struct {
	Raw     string
	Seconds float64
	Events  []EventRef
}

// IsSet reports whether the attribute was declared.
func (v Value) IsSet() bool {
	return v.Raw != ""
}

// Resolved reports whether the value is set to a usable time (finite or
// indefinite).
func (v Value) Resolved() bool {
	return v.IsSet() && !math.IsNaN(v.Seconds)
}

// ParseValue parses a begin/end/dur attribute.
func ParseValue(raw string) Value {
	raw = strings.TrimSpace(raw)
	v := Value{Raw: raw, Seconds: ParseTime(raw)}
	if raw != "" && !v.Resolved() {
		v.Events = ParseEvents(raw)
	}
	return v
}

var (
	leadingNumber = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	clockValue    = regexp.MustCompile(`^[0-9:.]*$`)
)

// ParseTime parses a time literal into seconds:
//
//	""            unresolved
//	"indefinite"  +Inf
//	"250ms"       0.25
//	"5s"          5
//	"2min"        120
//	"1h"          3600
//	"1:02:03.5"   3723.5 (also "mm:ss" and plain "ss")
//
// Suffixed values use their leading number, so "1.5 s" is 1.5. Anything else
// is unresolved.
func ParseTime(s string) float64 {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Unresolved
	case s == "indefinite":
		return Indefinite
	case strings.HasSuffix(s, "ms"):
		return leadingFloat(s) / 1000
	case strings.HasSuffix(s, "s"):
		return leadingFloat(s)
	case strings.HasSuffix(s, "min"):
		return leadingFloat(s) * 60
	case strings.HasSuffix(s, "h"):
		return leadingFloat(s) * 3600
	case clockValue.MatchString(s):
		seconds := 0.0
		for _, part := range strings.Split(s, ":") {
			f, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return Unresolved
			}
			seconds = seconds*60 + f
		}
		return seconds
	default:
		return Unresolved
	}
}

func leadingFloat(s string) float64 {
	m := leadingNumber.FindString(s)
	if m == "" {
		return Unresolved
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return Unresolved
	}
	return f
}

// ParseEvents splits "id.event; other.event; click" into references. Numeric
// input yields no references.
func ParseEvents(s string) []EventRef {
	s = strings.TrimSpace(s)
	if s == "" || !math.IsNaN(ParseTime(s)) {
		return nil
	}
	var refs []EventRef
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, evt, ok := strings.Cut(part, "."); ok {
			id, evt = strings.TrimSpace(id), strings.TrimSpace(evt)
			if id == "" || evt == "" {
				continue
			}
			refs = append(refs, EventRef{ElementID: id, Event: evt})
			continue
		}
		refs = append(refs, EventRef{Event: part})
	}
	return refs
}

// parseRepeatCount parses repeatCount; missing or invalid values mean 1.
func parseRepeatCount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "indefinite" {
		return Indefinite
	}
	f := leadingFloat(s)
	if math.IsNaN(f) || f <= 0 {
		return 1
	}
	return f
}

func isFinite(t float64) bool {
	return !math.IsNaN(t) && !math.IsInf(t, 0)
}

// outOfBounds reports whether t lies outside [in, out). Unresolved bounds
// never put t out of bounds.
func outOfBounds(t, in, out float64) bool {
	return t < in || t >= out
}

// withinBounds reports whether t lies inside [in, out). Unresolved bounds
// never contain t.
func withinBounds(t, in, out float64) bool {
	return t >= in && t < out
}
