package dom

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const sampleDoc = `<!DOCTYPE html>
<html><body>
  <div id="slides" data-timecontainer="excl">
    <section id="s1" class="slide">one</section>
    <section id="s2" class="slide">two</section>
    <section class="slide">three</section>
  </div>
  <p id="dup">first</p>
  <p id="dup">second</p>
</body></html>`

func TestDocument_ByID(t *testing.T) {
	doc, err := ParseString(sampleDoc)
	require.NoError(t, err)

	s1 := doc.ByID("s1")
	require.NotNil(t, s1)
	assert.Equal(t, "section", s1.Data)

	assert.Nil(t, doc.ByID("missing"))
	assert.Nil(t, doc.ByID(""))

	t.Run("first duplicate wins", func(t *testing.T) {
		dup := doc.ByID("dup")
		require.NotNil(t, dup)
		assert.Equal(t, "first", dup.FirstChild.Data)
	})
}

func TestDocument_FindAll(t *testing.T) {
	doc, err := ParseString(sampleDoc)
	require.NoError(t, err)

	slides, err := doc.FindAll("#slides > .slide")
	require.NoError(t, err)
	assert.Len(t, slides, 3)
	assert.Equal(t, "s1", ID(slides[0]))
	assert.Equal(t, "s2", ID(slides[1]))

	first, err := doc.FindOne("section")
	require.NoError(t, err)
	assert.Equal(t, "s1", ID(first))

	none, err := doc.FindOne("video")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestDocument_FindAllRejectsBadSelector(t *testing.T) {
	doc, err := ParseString(sampleDoc)
	require.NoError(t, err)

	_, err = doc.FindAll("div[")
	assert.Error(t, err)
	_, err = doc.FindOne("::")
	assert.Error(t, err)
}

func TestDocument_RenderIncludesMutations(t *testing.T) {
	doc, err := ParseString(`<p id="a">x</p>`)
	require.NoError(t, err)

	SetAttr(doc.ByID("a"), StateAttr, "active")

	var buf bytes.Buffer
	require.NoError(t, doc.Render(&buf))
	assert.Contains(t, buf.String(), `smil="active"`)
}

func TestChildElements_SkipsText(t *testing.T) {
	doc, err := ParseString(sampleDoc)
	require.NoError(t, err)

	children := ChildElements(doc.ByID("slides"))
	assert.Len(t, children, 3)
	for _, c := range children {
		assert.Equal(t, html.ElementNode, c.Type)
	}
}

func TestNewElement_LowercasesTagAndKeys(t *testing.T) {
	el := NewElement("DIV", html.Attribute{Key: "timeContainer", Val: "seq"})
	assert.Equal(t, "div", el.Data)
	assert.Equal(t, "timecontainer", el.Attr[0].Key)

	v, ok := Attr(el, "TIMECONTAINER")
	assert.True(t, ok)
	assert.Equal(t, "seq", v)
}
