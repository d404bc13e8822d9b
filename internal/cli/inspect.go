package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/cbsinteractive/pkg/timecode"
	"github.com/spf13/cobra"

	"github.com/roach88/timesheet/internal/dom"
	"github.com/roach88/timesheet/internal/engine"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
}

// InspectResult describes a built time tree.
type InspectResult struct {
	Document   string             `json:"document"`
	Containers []InspectContainer `json:"containers"`
	Issues     []string           `json:"issues,omitempty"`
}

// InspectContainer is one container with its children.
type InspectContainer struct {
	Node     string         `json:"node"`
	Kind     string         `json:"kind"`
	Clock    string         `json:"clock"` // "internal" or "media"
	Media    string         `json:"media,omitempty"`
	Children []InspectChild `json:"children"`
}

// InspectChild is one child with its interval in parent time.
type InspectChild struct {
	Node     string          `json:"node"`
	State    string          `json:"state"`
	Begin    string          `json:"begin"`
	End      string          `json:"end"`
	Interval *timecode.Range `json:"interval,omitempty"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <document>",
		Short: "Print the time tree of a document",
		Long: `Build the time tree of a document and print its containers, their
kinds and clocks, and each child's interval at time zero.

Documents may be HTML (with linked timesheets), YAML or CUE.

Examples:
  timesheet inspect slides.html
  timesheet inspect deck.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}
	return cmd
}

func runInspect(opts *InspectOptions, path string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	doc, err := openDocument(path)
	if err != nil {
		return out.Fail(ExitCommandError, "failed to load document", err)
	}
	session, err := engine.NewSession(doc, sessionOptions(opts.RootOptions, path, nil)...)
	if err != nil {
		return out.Fail(ExitCommandError, "failed to build time tree", err)
	}
	defer session.Close()
	if err := session.Start(context.Background()); err != nil {
		return out.Fail(ExitFailure, "failed to start session", err)
	}

	result := inspect(documentName(path), session)
	return out.Success(result, func(w io.Writer) { writeInspectText(w, result) })
}

func inspect(name string, session *engine.Session) InspectResult {
	result := InspectResult{Document: name, Containers: []InspectContainer{}}
	for _, c := range session.Registry().Containers() {
		ic := InspectContainer{
			Node:     c.Label(),
			Kind:     c.Kind().String(),
			Clock:    "internal",
			Children: []InspectChild{},
		}
		if c.SyncedToMedia() {
			ic.Clock = "media"
			ic.Media = dom.Describe(c.MediaElement())
		}
		for _, child := range c.Children() {
			n := child.Base()
			in, out := n.Interval()
			entry := InspectChild{
				Node:  n.Label(),
				State: n.State().String(),
				Begin: formatBound(in),
				End:   formatBound(out),
			}
			if r, ok := n.Range(); ok {
				entry.Interval = &r
			}
			ic.Children = append(ic.Children, entry)
		}
		result.Containers = append(result.Containers, ic)
	}
	for _, issue := range session.Registry().Issues() {
		result.Issues = append(result.Issues, issue.Error())
	}
	return result
}

// formatBound renders an interval bound: seconds, "indefinite" for +Inf, and
// "unresolved" for bounds waiting on an event.
func formatBound(t float64) string {
	switch {
	case math.IsNaN(t):
		return "unresolved"
	case math.IsInf(t, 1):
		return "indefinite"
	case math.IsInf(t, -1):
		return "-indefinite"
	}
	return strconv.FormatFloat(t, 'f', -1, 64) + "s"
}

func writeInspectText(w io.Writer, r InspectResult) {
	fmt.Fprintf(w, "Document: %s\n", r.Document)
	for _, c := range r.Containers {
		clk := c.Clock
		if c.Media != "" {
			clk += " " + c.Media
		}
		fmt.Fprintf(w, "\n%s %s (%s clock)\n", c.Node, c.Kind, clk)
		for _, child := range c.Children {
			span := fmt.Sprintf("[%s, %s)", child.Begin, child.End)
			if child.Interval != nil {
				span += " " + child.Interval.String()
			}
			fmt.Fprintf(w, "  %-16s %-8s %s\n", child.Node, child.State, span)
		}
	}
	if len(r.Issues) > 0 {
		fmt.Fprintln(w, "\nIssues:")
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "  %s\n", issue)
		}
	}
}
