// Package navigation turns deep links and user input into container
// selections.
//
// A Resolver activates a target element by selecting it in every enclosing
// container, outermost first. ParseFragment reads the "#id&t=offset" deep
// link format. BindControls wires the keyboard, mouse and fragment bindings
// declared by a container's navigation attribute.
package navigation
