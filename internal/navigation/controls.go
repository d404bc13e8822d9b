package navigation

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/roach88/timesheet/internal/dom"
	"github.com/roach88/timesheet/internal/events"
	"github.com/roach88/timesheet/internal/timing"
)

// Host input events. The Detail field of a published event carries the key
// name, mouse button or wheel direction.
const (
	EventKeyDown   = "keydown"
	EventMouseDown = "mousedown"
	EventWheel     = "wheel"
)

// Key names understood by the arrows control.
const (
	KeyLeft       = "ArrowLeft"
	KeyRight      = "ArrowRight"
	KeyUp         = "ArrowUp"
	KeyDown       = "ArrowDown"
	KeySpace      = "Space"
	KeyShiftSpace = "Shift+Space"
	KeyHome       = "Home"
	KeyEnd        = "End"
)

// Mouse and wheel details.
const (
	ButtonLeft   = "left"
	ButtonMiddle = "middle"
	WheelUp      = "up"
	WheelDown    = "down"
)

// ControlOptions configures BindControls.
type ControlOptions struct {
	// SetFragment receives "#id" when a child bound by the hash control
	// begins. The hash control is inert without it.
	SetFragment func(fragment string)
}

// BindControls wires the navigation attribute of every container. The
// attribute lists controls separated by spaces or semicolons:
//
//	arrows  keyboard navigation on the document
//	click   left click on the slideshow element for next, middle for prev
//	scroll  wheel down for next, wheel up for prev
//	hash    publish "#id" when an identified child begins
//
// The returned function removes every binding.
func BindControls(reg *timing.Registry, opts ControlOptions) (unbind func()) {
	bus := reg.Bus()
	var ids []events.SubscriptionID
	for _, c := range reg.Containers() {
		attr, ok := dom.TimingAttr(c.Element(), "navigation")
		if !ok {
			continue
		}
		if hasControl(attr, "arrows") {
			ids = append(ids, bus.Subscribe(nil, EventKeyDown, keyHandler(c, bus)))
		}
		if show := slideshow(c); show != nil {
			if hasControl(attr, "click") {
				ids = append(ids, bus.Subscribe(show, EventMouseDown, clickHandler(c)))
			}
			if hasControl(attr, "scroll") {
				ids = append(ids, bus.Subscribe(show, EventWheel, wheelHandler(c)))
			}
		}
		if hasControl(attr, "hash") && opts.SetFragment != nil {
			for _, child := range c.Children() {
				target := child.Base().Target()
				id := dom.ID(target)
				if id == "" {
					continue
				}
				fragment := "#" + id
				ids = append(ids, bus.Subscribe(target, "begin", func(events.Event) {
					opts.SetFragment(fragment)
				}))
			}
		}
	}
	return func() {
		for _, id := range ids {
			bus.Unsubscribe(id)
		}
	}
}

func hasControl(attr, control string) bool {
	re := regexp.MustCompile(`(?i)(^|[\s;]+)` + regexp.QuoteMeta(control) + `([\s;]+|$)`)
	return re.MatchString(strings.TrimSpace(attr))
}

// slideshow is the element that receives pointer input: the container's own
// target, or the parent of its first child's target for containers declared
// in a timesheet.
func slideshow(c *timing.Container) *html.Node {
	if t := c.Target(); t != nil {
		return t
	}
	if len(c.Children()) == 0 {
		return nil
	}
	if t := c.Children()[0].Base().Target(); t != nil {
		return t.Parent
	}
	return nil
}

func keyHandler(c *timing.Container, bus timing.Bus) events.Handler {
	return func(e events.Event) {
		switch e.Detail {
		case KeyLeft, KeyShiftSpace:
			c.Prev()
		case KeyRight, KeySpace:
			c.Next()
		case KeyHome:
			c.First()
		case KeyEnd:
			c.Last()
		case KeyUp:
			if cur := c.Current(); cur != nil {
				cur.Reset()
				cur.Show()
			}
		case KeyDown:
			if cur := c.Current(); cur != nil {
				bus.Publish(cur.Base().Target(), "click", "")
			}
		}
	}
}

func clickHandler(c *timing.Container) events.Handler {
	return func(e events.Event) {
		switch e.Detail {
		case "", ButtonLeft:
			c.Next()
		case ButtonMiddle:
			c.Prev()
		}
	}
}

func wheelHandler(c *timing.Container) events.Handler {
	return func(e events.Event) {
		switch e.Detail {
		case WheelDown:
			c.Next()
		case WheelUp:
			c.Prev()
		}
	}
}
