package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// declaration is one "property: value" pair of an inline style.
type declaration struct {
	prop, value string
}

func parseStyle(s string) []declaration {
	var out []declaration
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		out = append(out, declaration{prop: prop, value: strings.TrimSpace(value)})
	}
	return out
}

func formatStyle(decls []declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.prop + ": " + d.value
	}
	return strings.Join(parts, "; ")
}

// StyleProperty returns one property of the element's inline style.
func StyleProperty(n *html.Node, prop string) string {
	style, _ := Attr(n, "style")
	for _, d := range parseStyle(style) {
		if d.prop == prop {
			return d.value
		}
	}
	return ""
}

// SetStyleProperty sets one property of the element's inline style, keeping
// the other declarations in place.
func SetStyleProperty(n *html.Node, prop, value string) {
	style, _ := Attr(n, "style")
	decls := parseStyle(style)
	for i := range decls {
		if decls[i].prop == prop {
			decls[i].value = value
			SetAttr(n, "style", formatStyle(decls))
			return
		}
	}
	decls = append(decls, declaration{prop: prop, value: value})
	SetAttr(n, "style", formatStyle(decls))
}

// HasClass reports whether the element's class list contains name.
func HasClass(n *html.Node, name string) bool {
	class, _ := Attr(n, "class")
	for _, c := range strings.Fields(class) {
		if c == name {
			return true
		}
	}
	return false
}
