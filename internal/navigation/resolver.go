package navigation

import (
	"log/slog"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/roach88/timesheet/internal/dom"
	"github.com/roach88/timesheet/internal/timing"
)

// Resolver activates deep-link targets in a built time tree.
type Resolver struct {
	reg    *timing.Registry
	logger *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the resolver's logger.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a resolver over reg.
func NewResolver(reg *timing.Registry, opts ...ResolverOption) *Resolver {
	r := &Resolver{reg: reg, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Selection is one step of an activation: select Index in Container.
type Selection struct {
	Container *timing.Container
	Index     int
}

// Plan returns the selections needed to make target active, outermost
// container first. Enclosing scopes where the element is already active are
// skipped. A target outside every time node yields no plan.
func (r *Resolver) Plan(target *html.Node) []Selection {
	nodes := r.reg.NodesForElement(target)
	if len(nodes) == 0 {
		return nil
	}
	var chain []Selection
	el := target
	for c := nodes[0].Base().Parent(); c != nil; c = c.Parent() {
		for i, child := range c.Children() {
			n := child.Base()
			if n.Target() != el && n.Element() != el {
				continue
			}
			if !child.IsActive() {
				chain = append(chain, Selection{Container: c, Index: i})
			}
			break
		}
		el = c.Element()
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Activate selects target in each enclosing container, outermost first. If
// target is itself a container and offset is a finite time, its clock is then
// seeked to offset. It reports whether target belongs to the time tree.
func (r *Resolver) Activate(target *html.Node, offset float64) bool {
	nodes := r.reg.NodesForElement(target)
	if len(nodes) == 0 {
		r.logger.Debug("navigation target is not timed", "target", dom.Describe(target))
		return false
	}
	plan := r.Plan(target)
	for _, step := range plan {
		step.Container.SelectIndex(step.Index)
	}
	if c, ok := nodes[0].(*timing.Container); ok && isFinite(offset) {
		c.SetCurrentTime(offset)
	}
	r.logger.Debug("navigation target activated",
		"target", dom.Describe(target),
		"selections", len(plan),
		"offset", offset)
	return true
}

// Navigate resolves a fragment such as "#slide3&t=10" and activates it.
func (r *Resolver) Navigate(fragment string) bool {
	f, ok := ParseFragment(fragment)
	if !ok {
		return false
	}
	target := r.Lookup(f.ID)
	if target == nil {
		r.logger.Debug("navigation target not found", "fragment", fragment)
		return false
	}
	return r.Activate(target, f.Offset)
}

// Lookup finds the element for a fragment id, retrying without the first
// character to honor a leading scroll-suppression prefix.
func (r *Resolver) Lookup(id string) *html.Node {
	doc := r.reg.Document()
	if el := doc.ByID(id); el != nil {
		return el
	}
	if _, size := utf8.DecodeRuneInString(id); size < len(id) {
		return doc.ByID(id[size:])
	}
	return nil
}
