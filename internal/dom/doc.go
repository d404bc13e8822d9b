// Package dom is the host document model for the timing engine.
//
// Documents are trees of *html.Node from golang.org/x/net/html. The timing
// core holds plain *html.Node references as target elements and never owns
// them. This package supplies the collaborator contracts the core consumes:
//
//   - Document query: FindAll and FindOne over CSS selectors (cascadia).
//   - Attribute accessor: TimingAttr resolves the equivalent spellings of a
//     timing attribute in a fixed priority order.
//   - Target-state handlers: the timeAction policies that make a state
//     transition visible on the target element.
//
// Elements built by the YAML and CUE loaders are ordinary html.Node trees, so
// every loader shares the same query and mutation code.
package dom
