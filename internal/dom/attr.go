package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// attrKey returns the attribute key as the parser would store it.
func attrKey(a html.Attribute) string {
	if a.Namespace != "" {
		return a.Namespace + ":" + a.Key
	}
	return a.Key
}

// Attr returns the value of the named attribute. Names are compared without
// regard to case.
func Attr(n *html.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if strings.EqualFold(attrKey(a), name) {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute.
func SetAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if strings.EqualFold(attrKey(a), name) {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: strings.ToLower(name), Val: value})
}

// RemoveAttr deletes the named attribute if present.
func RemoveAttr(n *html.Node, name string) {
	for i, a := range n.Attr {
		if strings.EqualFold(attrKey(a), name) {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// ID returns the element id, or "".
func ID(n *html.Node) string {
	v, _ := Attr(n, "id")
	return v
}

// timingSpellings lists the equivalent spellings of a timing attribute in
// lookup priority order.
func timingSpellings(name string) []string {
	lower := strings.ToLower(name)
	return []string{
		"smil:" + name,
		name,
		"smil-" + lower,
		"data-" + lower,
	}
}

// TimingAttr returns the first non-empty value among the accepted spellings
// of a timing attribute: smil:name, name, smil-name, data-name.
func TimingAttr(n *html.Node, name string) (string, bool) {
	for _, key := range timingSpellings(name) {
		if v, ok := Attr(n, key); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// LocalName returns the tag name without a namespace prefix.
func LocalName(n *html.Node) string {
	tag := strings.ToLower(n.Data)
	if i := strings.IndexByte(tag, ':'); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

// Describe renders a short, stable label for an element: "#id" when it has
// one, otherwise a tag path such as "body/div[2]/p[1]".
func Describe(n *html.Node) string {
	if n == nil {
		return "(document)"
	}
	if id := ID(n); id != "" {
		return "#" + id
	}
	var parts []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if id := ID(cur); id != "" {
			parts = append(parts, "#"+id)
			break
		}
		parts = append(parts, fmt.Sprintf("%s[%d]", cur.Data, position(cur)))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// position is the 1-based index of n among its same-tag element siblings.
func position(n *html.Node) int {
	pos := 1
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode && s.Data == n.Data {
			pos++
		}
	}
	return pos
}
