package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document wraps a parsed host document and indexes its element ids.
type Document struct {
	root *html.Node
	ids  map[string]*html.Node
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return NewDocument(root), nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// NewDocument wraps an existing node tree. The id index is built once; call
// Reindex after structural changes.
func NewDocument(root *html.Node) *Document {
	d := &Document{root: root}
	d.Reindex()
	return d
}

// Root returns the top of the node tree.
func (d *Document) Root() *html.Node {
	return d.root
}

// Reindex rebuilds the id lookup table. The first element carrying an id wins,
// matching getElementById.
func (d *Document) Reindex() {
	d.ids = make(map[string]*html.Node)
	Walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if id := ID(n); id != "" {
				if _, dup := d.ids[id]; !dup {
					d.ids[id] = n
				}
			}
		}
		return true
	})
}

// ByID returns the element with the given id, or nil.
func (d *Document) ByID(id string) *html.Node {
	if id == "" {
		return nil
	}
	return d.ids[id]
}

// FindAll returns every element matching the CSS selector in document order.
func (d *Document) FindAll(selector string) ([]*html.Node, error) {
	return Select(d.root, selector)
}

// Select returns the descendants of root matching the CSS selector.
func Select(root *html.Node, selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return sel.MatchAll(root), nil
}

// FindOne returns the first element matching the CSS selector, or nil.
func (d *Document) FindOne(selector string) (*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return sel.MatchFirst(d.root), nil
}

// Render writes the document back out as HTML, including the state attributes
// applied by target handlers.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// Walk visits n and its descendants depth-first. Returning false from fn skips
// the children of the visited node.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// ChildElements returns the element children of n in document order.
func ChildElements(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// NewElement creates a detached element. Attribute keys are stored lowercase,
// the way the HTML parser stores them.
func NewElement(tag string, attrs ...html.Attribute) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: strings.ToLower(tag)}
	for _, a := range attrs {
		SetAttr(n, a.Key, a.Val)
	}
	return n
}

// NewDocumentNode creates an empty document root for programmatic trees.
func NewDocumentNode() *html.Node {
	return &html.Node{Type: html.DocumentNode}
}
