package timing

import (
	"golang.org/x/net/html"

	"github.com/roach88/timesheet/internal/dom"
)

// Registry holds every time container built from one document.
type Registry struct {
	doc        *dom.Document
	bus        Bus
	containers []*Container
	roots      []*Container
	nodes      map[*html.Node][]TimedElement
	issues     []*BuildError
}

func newRegistry(doc *dom.Document, bus Bus) *Registry {
	return &Registry{
		doc:   doc,
		bus:   bus,
		nodes: make(map[*html.Node][]TimedElement),
	}
}

func (r *Registry) Document() *dom.Document { return r.doc }
func (r *Registry) Bus() Bus                { return r.bus }

// Containers returns every container, parents before their descendants.
func (r *Registry) Containers() []*Container { return r.containers }

// Roots returns the containers without a parent, in document order.
func (r *Registry) Roots() []*Container { return r.roots }

// Issues returns the problems absorbed while building.
func (r *Registry) Issues() []*BuildError { return r.issues }

// ContainersByKind filters containers by "par", "seq", "excl", or "*" for
// all of them.
func (r *Registry) ContainersByKind(name string) []*Container {
	if name == "*" {
		return r.containers
	}
	kind, ok := ParseKind(name)
	if !ok {
		return nil
	}
	var out []*Container
	for _, c := range r.containers {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// NodesForElement returns the time nodes that target or were declared by el.
func (r *Registry) NodesForElement(el *html.Node) []TimedElement {
	return r.nodes[el]
}

// ContainerByID finds a container whose declaring element or target carries
// the id.
func (r *Registry) ContainerByID(id string) *Container {
	if id == "" {
		return nil
	}
	for _, c := range r.containers {
		if dom.ID(c.element) == id || (c.target != nil && dom.ID(c.target) == id) {
			return c
		}
	}
	return nil
}

// Start activates the root containers. A root whose begin is event-based is
// armed instead and starts when the event fires.
func (r *Registry) Start() {
	for _, c := range r.roots {
		if c.begin.IsSet() && !c.begin.Resolved() {
			for _, child := range c.children {
				child.Reset()
			}
			c.setIndex(-1)
			c.armBegin()
			continue
		}
		c.Show()
	}
}

func (r *Registry) add(te TimedElement) {
	n := te.Base()
	if c, ok := te.(*Container); ok {
		r.containers = append(r.containers, c)
		if n.parent == nil {
			r.roots = append(r.roots, c)
		}
	}
	if n.target != nil {
		r.nodes[n.target] = append(r.nodes[n.target], te)
	}
	if n.element != n.target {
		r.nodes[n.element] = append(r.nodes[n.element], te)
	}
}
