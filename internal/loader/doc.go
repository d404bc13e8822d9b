// Package loader turns host documents on disk into dom.Document trees.
//
// Three formats are accepted, chosen by file extension:
//
//   - HTML (.html, .htm, .xhtml): parsed with golang.org/x/net/html. Every
//     <link rel="timesheet" href="..."> is replaced by the XML timesheet it
//     points at, resolved relative to the document.
//   - YAML (.yaml, .yml) and CUE (.cue): a Source tree of tagged elements,
//     converted into the same html.Node structure the HTML parser produces.
//
// Whatever the format, the timing builder sees one kind of tree.
package loader
