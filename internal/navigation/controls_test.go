package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/timesheet/internal/events"
	"github.com/roach88/timesheet/internal/timing"
)

const deckDoc = `<div id="deck" timeContainer="excl" navigation="arrows click; scroll hash">
  <section id="s1" begin="0"></section>
  <section id="s2"></section>
  <section id="s3"></section>
</div>`

func TestHasControl(t *testing.T) {
	assert.True(t, hasControl("arrows click", "click"))
	assert.True(t, hasControl("arrows;hash", "HASH"))
	assert.False(t, hasControl("clicks", "click"))
	assert.False(t, hasControl("", "arrows"))
}

func TestBindControls_Keyboard(t *testing.T) {
	reg, bus := build(t, deckDoc)
	deck := reg.ContainerByID("deck")
	unbind := BindControls(reg, ControlOptions{})
	defer unbind()

	key := func(name string) { bus.Publish(nil, EventKeyDown, name) }

	key(KeyRight)
	assert.Equal(t, 1, deck.CurrentIndex())
	key(KeySpace)
	assert.Equal(t, 2, deck.CurrentIndex())
	key(KeyShiftSpace)
	assert.Equal(t, 1, deck.CurrentIndex())
	key(KeyEnd)
	assert.Equal(t, 2, deck.CurrentIndex())
	key(KeyHome)
	assert.Equal(t, 0, deck.CurrentIndex())
	key(KeyLeft)
	assert.Equal(t, 0, deck.CurrentIndex())
}

func TestBindControls_ArrowUpRestartsCurrent(t *testing.T) {
	reg, bus := build(t, deckDoc)
	BindControls(reg, ControlOptions{})

	begins := 0
	bus.Tap(func(e events.Event) {
		if e.Name == "begin" {
			begins++
		}
	})
	bus.Publish(nil, EventKeyDown, KeyUp)

	assert.Equal(t, 1, begins)
	assert.Equal(t, timing.Active, stateOf(reg, "s1"))
}

func TestBindControls_ArrowDownClicksCurrent(t *testing.T) {
	reg, bus := build(t, deckDoc)
	BindControls(reg, ControlOptions{})

	var clicked string
	bus.Subscribe(reg.Document().ByID("s1"), "click", func(e events.Event) {
		clicked = e.Name
	})
	bus.Publish(nil, EventKeyDown, KeyDown)
	assert.Equal(t, "click", clicked)
}

func TestBindControls_PointerAndHash(t *testing.T) {
	reg, bus := build(t, deckDoc)
	deck := reg.ContainerByID("deck")
	var fragments []string
	BindControls(reg, ControlOptions{SetFragment: func(f string) {
		fragments = append(fragments, f)
	}})
	show := reg.Document().ByID("deck")

	bus.Publish(show, EventMouseDown, ButtonLeft)
	bus.Publish(show, EventMouseDown, ButtonLeft)
	assert.Equal(t, 2, deck.CurrentIndex())
	bus.Publish(show, EventMouseDown, ButtonMiddle)
	assert.Equal(t, 1, deck.CurrentIndex())
	bus.Publish(show, EventWheel, WheelUp)
	assert.Equal(t, 0, deck.CurrentIndex())
	bus.Publish(show, EventWheel, WheelDown)
	assert.Equal(t, 1, deck.CurrentIndex())

	assert.Equal(t, []string{"#s2", "#s3", "#s2", "#s1", "#s2"}, fragments)
}

func TestBindControls_Unbind(t *testing.T) {
	reg, bus := build(t, deckDoc)
	deck := reg.ContainerByID("deck")
	unbind := BindControls(reg, ControlOptions{})

	unbind()
	bus.Publish(nil, EventKeyDown, KeyRight)
	assert.Equal(t, 0, deck.CurrentIndex())
	require.Zero(t, bus.Subscribers(nil, EventKeyDown))
}

func TestBindControls_TimesheetSlideshow(t *testing.T) {
	reg, bus := build(t, `<timesheet>
	<excl navigation="click">
		<item select="#slides > li"></item>
	</excl>
</timesheet>
<ul id="slides"><li id="a"></li><li id="b"></li></ul>`)
	BindControls(reg, ControlOptions{})
	excl := reg.ContainersByKind("excl")[0]

	excl.First()
	bus.Publish(reg.Document().ByID("slides"), EventMouseDown, "")
	assert.Equal(t, 1, excl.CurrentIndex())
}
