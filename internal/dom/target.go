package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// TargetState is the lifecycle state made visible on a target element.
type TargetState string

const (
	StateIdle   TargetState = "idle"
	StateActive TargetState = "active"
	StateDone   TargetState = "done"
)

// StateAttr is the attribute every policy maintains so stylesheets can match
// on the current state.
const StateAttr = "smil"

// TargetHandler applies the visible side effect of a state transition to one
// target element.
type TargetHandler interface {
	Apply(state TargetState)
}

// NewTargetHandler returns the policy named by a timeAction value:
//
//	intrinsic      smil="<state>" only
//	display        display: block while active, none otherwise
//	visibility     visibility: visible while active, hidden otherwise
//	style          inline style kept while active, cleared otherwise
//	class:<name>   class <name> added while active
//
// Anything else falls back to display. A nil target gets a no-op handler.
func NewTargetHandler(timeAction string, target *html.Node) TargetHandler {
	if target == nil {
		return noopHandler{}
	}
	switch action := strings.TrimSpace(timeAction); {
	case action == "intrinsic":
		return intrinsicHandler{target: target}
	case action == "display":
		return displayHandler{target: target}
	case action == "visibility":
		return visibilityHandler{target: target}
	case action == "style":
		return &styleHandler{target: target}
	case strings.HasPrefix(action, "class:"):
		name := strings.TrimSpace(strings.TrimPrefix(action, "class:"))
		return &classHandler{target: target, name: name}
	default:
		return displayHandler{target: target}
	}
}

type noopHandler struct{}

func (noopHandler) Apply(TargetState) {}

type intrinsicHandler struct {
	target *html.Node
}

func (h intrinsicHandler) Apply(state TargetState) {
	SetAttr(h.target, StateAttr, string(state))
}

type displayHandler struct {
	target *html.Node
}

func (h displayHandler) Apply(state TargetState) {
	SetAttr(h.target, StateAttr, string(state))
	if state == StateActive {
		SetStyleProperty(h.target, "display", "block")
	} else {
		SetStyleProperty(h.target, "display", "none")
	}
}

type visibilityHandler struct {
	target *html.Node
}

func (h visibilityHandler) Apply(state TargetState) {
	SetAttr(h.target, StateAttr, string(state))
	if state == StateActive {
		SetStyleProperty(h.target, "visibility", "visible")
	} else {
		SetStyleProperty(h.target, "visibility", "hidden")
	}
}

// styleHandler stashes the authored inline style on first use.
type styleHandler struct {
	target *html.Node
	saved  *string
}

func (h *styleHandler) Apply(state TargetState) {
	SetAttr(h.target, StateAttr, string(state))
	if h.saved == nil {
		style, _ := Attr(h.target, "style")
		h.saved = &style
	}
	if state == StateActive && *h.saved != "" {
		SetAttr(h.target, "style", *h.saved)
		return
	}
	RemoveAttr(h.target, "style")
}

// classHandler records the idle and active class lists on first use.
type classHandler struct {
	target       *html.Node
	name         string
	initialized  bool
	idle, active string
}

func (h *classHandler) Apply(state TargetState) {
	SetAttr(h.target, StateAttr, string(state))
	if !h.initialized {
		h.idle, _ = Attr(h.target, "class")
		h.active = strings.TrimSpace(h.idle + " " + h.name)
		h.initialized = true
	}
	class := h.idle
	if state == StateActive {
		class = h.active
	}
	if class == "" {
		RemoveAttr(h.target, "class")
		return
	}
	SetAttr(h.target, "class", class)
}
