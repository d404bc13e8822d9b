package loader

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/roach88/timesheet/internal/dom"
)

// Source is the structured form of a host document used by the YAML and CUE
// loaders.
type Source struct {
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
	// Timesheet holds containers placed in a <timesheet> element in the head.
	Timesheet []Element `yaml:"timesheet,omitempty" json:"timesheet,omitempty"`
	Body      []Element `yaml:"body" json:"body"`
}

// Element is one node of a Source tree.
type Element struct {
	Tag      string            `yaml:"tag" json:"tag"`
	ID       string            `yaml:"id,omitempty" json:"id,omitempty"`
	Attrs    map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	Text     string            `yaml:"text,omitempty" json:"text,omitempty"`
	Children []Element         `yaml:"children,omitempty" json:"children,omitempty"`
}

var tagName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*(:[A-Za-z][A-Za-z0-9_-]*)?$`)

// ParseYAML decodes a YAML Source. Unknown keys are rejected.
func ParseYAML(data []byte) (*dom.Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var src Source
	if err := dec.Decode(&src); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: "invalid yaml", Err: err}
	}
	return src.Document()
}

// Document converts the Source into an html.Node tree shaped like a parsed
// HTML page: html > head (title, timesheet) > body.
func (s *Source) Document() (*dom.Document, error) {
	root := dom.NewDocumentNode()
	htmlEl := dom.NewElement("html")
	head := dom.NewElement("head")
	body := dom.NewElement("body")
	root.AppendChild(htmlEl)
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(body)

	if s.Title != "" {
		title := dom.NewElement("title")
		title.AppendChild(&html.Node{Type: html.TextNode, Data: s.Title})
		head.AppendChild(title)
	}
	if len(s.Timesheet) > 0 {
		sheet := dom.NewElement("timesheet")
		head.AppendChild(sheet)
		if err := appendElements(sheet, s.Timesheet, "timesheet"); err != nil {
			return nil, err
		}
	}
	if err := appendElements(body, s.Body, "body"); err != nil {
		return nil, err
	}
	return dom.NewDocument(root), nil
}

func appendElements(parent *html.Node, elems []Element, path string) error {
	for i, e := range elems {
		at := fmt.Sprintf("%s[%d]", path, i)
		el, err := e.node(at)
		if err != nil {
			return err
		}
		parent.AppendChild(el)
		if err := appendElements(el, e.Children, at+".children"); err != nil {
			return err
		}
	}
	return nil
}

// node builds the element itself. Attributes are applied in key order so
// rendering is stable; an explicit ID wins over attrs["id"].
func (e Element) node(path string) (*html.Node, error) {
	if e.Tag == "" {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: path + ": tag is required"}
	}
	if !tagName.MatchString(e.Tag) {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("%s: invalid tag %q", path, e.Tag)}
	}
	el := dom.NewElement(e.Tag)
	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		dom.SetAttr(el, k, e.Attrs[k])
	}
	if e.ID != "" {
		dom.SetAttr(el, "id", e.ID)
	}
	if e.Text != "" {
		el.AppendChild(&html.Node{Type: html.TextNode, Data: e.Text})
	}
	return el, nil
}
