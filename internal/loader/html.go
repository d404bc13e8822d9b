package loader

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/roach88/timesheet/internal/dom"
)

// ParseHTML parses an HTML document and inlines its linked timesheets.
func ParseHTML(data []byte, dir string) (*dom.Document, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: "invalid html", Err: err}
	}
	if dir != "" {
		if err := inlineTimesheets(root, dir); err != nil {
			return nil, err
		}
	}
	return dom.NewDocument(root), nil
}

// timesheetLinks collects <link rel="timesheet"> elements in document order.
func timesheetLinks(root *html.Node) []*html.Node {
	var links []*html.Node
	dom.Walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "link" {
			if rel, _ := dom.Attr(n, "rel"); strings.EqualFold(strings.TrimSpace(rel), "timesheet") {
				links = append(links, n)
			}
		}
		return true
	})
	return links
}

// inlineTimesheets replaces every timesheet link with the parsed file.
func inlineTimesheets(root *html.Node, dir string) error {
	for _, link := range timesheetLinks(root) {
		href, _ := dom.Attr(link, "href")
		if href == "" {
			continue
		}
		path := href
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, filepath.FromSlash(href))
		}
		data, err := os.ReadFile(path)
		if err != nil {
			le := readError(path, err)
			if le.Code != ErrCodeNotFound {
				le.Code = ErrCodeLink
			}
			return le
		}
		sheet, err := parseXML(bytes.NewReader(data))
		if err != nil {
			return &LoadError{Code: ErrCodeLink, Path: path, Message: "invalid timesheet", Err: err}
		}
		link.Parent.InsertBefore(sheet, link)
		link.Parent.RemoveChild(link)
	}
	return nil
}

// parseXML converts an XML timesheet into an html.Node tree. The HTML parser
// cannot be used here: it does not honour self-closing <item/> tags, which
// would nest every item inside its predecessor. Namespace prefixes are
// dropped so smil:par and par read the same.
func parseXML(r io.Reader) (*html.Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	holder := &html.Node{Type: html.DocumentNode}
	cur := holder
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := dom.NewElement(t.Name.Local)
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				dom.SetAttr(el, a.Name.Local, a.Value)
			}
			cur.AppendChild(el)
			cur = el
		case xml.EndElement:
			if cur.Parent != nil {
				cur = cur.Parent
			}
		case xml.CharData:
			if s := strings.TrimSpace(string(t)); s != "" && cur != holder {
				cur.AppendChild(&html.Node{Type: html.TextNode, Data: string(t)})
			}
		}
	}
	top := dom.ChildElements(holder)
	if len(top) != 1 {
		return nil, fmt.Errorf("expected one root element, found %d", len(top))
	}
	sheet := top[0]
	holder.RemoveChild(sheet)
	if dom.LocalName(sheet) == "timesheet" {
		return sheet, nil
	}
	// A bare container file is wrapped so the builder treats it as a sheet.
	wrap := dom.NewElement("timesheet")
	wrap.AppendChild(sheet)
	return wrap, nil
}
