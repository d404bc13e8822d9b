package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
)

func TestTimingAttr_Precedence(t *testing.T) {
	tests := []struct {
		name  string
		attrs []html.Attribute
		want  string
		found bool
	}{
		{
			name: "namespaced form wins",
			attrs: []html.Attribute{
				{Key: "data-begin", Val: "3s"},
				{Key: "begin", Val: "2s"},
				{Key: "smil:begin", Val: "1s"},
			},
			want:  "1s",
			found: true,
		},
		{
			name: "generic form before data fallback",
			attrs: []html.Attribute{
				{Key: "data-begin", Val: "3s"},
				{Key: "begin", Val: "2s"},
			},
			want:  "2s",
			found: true,
		},
		{
			name:  "smil dash spelling",
			attrs: []html.Attribute{{Key: "smil-begin", Val: "4s"}},
			want:  "4s",
			found: true,
		},
		{
			name:  "data fallback",
			attrs: []html.Attribute{{Key: "data-begin", Val: "3s"}},
			want:  "3s",
			found: true,
		},
		{
			name: "empty values are skipped",
			attrs: []html.Attribute{
				{Key: "begin", Val: "  "},
				{Key: "data-begin", Val: "5"},
			},
			want:  "5",
			found: true,
		},
		{
			name:  "absent",
			attrs: nil,
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := &html.Node{Type: html.ElementNode, Data: "p", Attr: tt.attrs}
			got, ok := TimingAttr(el, "begin")
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimingAttr_CamelCaseNames(t *testing.T) {
	// The HTML parser lowercases attribute keys.
	el := &html.Node{Type: html.ElementNode, Data: "div", Attr: []html.Attribute{
		{Key: "data-timecontainer", Val: "seq"},
	}}
	got, ok := TimingAttr(el, "timeContainer")
	assert.True(t, ok)
	assert.Equal(t, "seq", got)
}

func TestSetAttr_ReplacesAndRemoves(t *testing.T) {
	el := NewElement("p")
	SetAttr(el, "smil", "idle")
	SetAttr(el, "SMIL", "active")
	assert.Len(t, el.Attr, 1)

	v, _ := Attr(el, "smil")
	assert.Equal(t, "active", v)

	RemoveAttr(el, "smil")
	_, ok := Attr(el, "smil")
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	doc, err := ParseString(`<div id="root"><p>a</p><p>b</p></div>`)
	assert.NoError(t, err)

	root := doc.ByID("root")
	ps := ChildElements(root)

	assert.Equal(t, "#root", Describe(root))
	assert.Equal(t, "#root/p[2]", Describe(ps[1]))
	assert.Equal(t, "(document)", Describe(nil))
}

func TestLocalName(t *testing.T) {
	assert.Equal(t, "seq", LocalName(&html.Node{Data: "smil:seq"}))
	assert.Equal(t, "par", LocalName(&html.Node{Data: "PAR"}))
}
