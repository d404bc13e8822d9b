package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/timesheet/internal/clock"
	"github.com/roach88/timesheet/internal/dom"
	"github.com/roach88/timesheet/internal/events"
)

type fixture struct {
	t      *testing.T
	doc    *dom.Document
	vclock *clock.Virtual
	bus    *events.Bus
	reg    *Registry
	events []string
}

func newFixture(t *testing.T, src string, opts ...Option) *fixture {
	t.Helper()
	doc, err := dom.ParseString(src)
	require.NoError(t, err)

	f := &fixture{t: t, doc: doc, vclock: clock.NewVirtual(), bus: events.New()}
	f.bus.Tap(func(e events.Event) {
		f.events = append(f.events, dom.Describe(e.Target)+"."+e.Name)
	})
	base := []Option{WithTicker(f.vclock), WithNow(f.vclock.Now), WithBus(f.bus)}
	f.reg, err = Build(doc, append(base, opts...)...)
	require.NoError(t, err)
	return f
}

func (f *fixture) start() *fixture {
	f.reg.Start()
	return f
}

func (f *fixture) advance(seconds float64) {
	f.vclock.Advance(time.Duration(seconds * float64(time.Second)))
}

func (f *fixture) node(id string) TimedElement {
	f.t.Helper()
	el := f.doc.ByID(id)
	require.NotNil(f.t, el, "no element #%s", id)
	nodes := f.reg.NodesForElement(el)
	require.NotEmpty(f.t, nodes, "no time node for #%s", id)
	return nodes[0]
}

func (f *fixture) container(id string) *Container {
	f.t.Helper()
	c := f.reg.ContainerByID(id)
	require.NotNil(f.t, c, "no container #%s", id)
	return c
}

func (f *fixture) state(id string) State {
	return f.node(id).State()
}

// attr returns the smil state attribute applied to #id.
func (f *fixture) attr(id string) string {
	v, _ := dom.Attr(f.doc.ByID(id), dom.StateAttr)
	return v
}

func (f *fixture) count(name string) int {
	n := 0
	for _, e := range f.events {
		if e == name {
			n++
		}
	}
	return n
}

func activeChildren(c *Container) int {
	n := 0
	for _, child := range c.Children() {
		if child.IsActive() {
			n++
		}
	}
	return n
}
