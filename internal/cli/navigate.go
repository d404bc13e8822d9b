package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/timesheet/internal/engine"
)

// NavigateOptions holds flags for the navigate command.
type NavigateOptions struct {
	*RootOptions
	At float64 // seconds of virtual time before the fragment is applied
}

// NavigateResult reports what a deep link activated.
type NavigateResult struct {
	Fragment  string   `json:"fragment"`
	At        float64  `json:"at"`
	Activated bool     `json:"activated"`
	Active    []string `json:"active"`
	Selection []string `json:"selection"` // "#container=index" for every container
}

// NewNavigateCommand creates the navigate command.
func NewNavigateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NavigateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "navigate <document> <fragment>",
		Short: "Apply a deep link and print the active set",
		Long: `Run a document in virtual time up to --at, apply a URL fragment and print
which time nodes are active afterwards.

Fragments name an element (#id), optionally with a time offset
(#id&t=12, #id&t=npt:90, #id&t=smpte:00:01:30:00).

An unknown target is not an error: the command reports that nothing was
activated.

Examples:
  timesheet navigate slides.html '#s3'
  timesheet navigate video.html '#chapter2&t=10' --at 3`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNavigate(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.At, "at", 0, "seconds of virtual time to run before navigating")

	return cmd
}

func runNavigate(opts *NavigateOptions, path, fragment string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	if opts.At < 0 || math.IsNaN(opts.At) || math.IsInf(opts.At, 0) {
		return out.Fail(ExitCommandError, "invalid flag",
			&flagError{Flag: "at", Value: strconv.FormatFloat(opts.At, 'g', -1, 64), Why: "must be a non-negative number of seconds"})
	}
	if !strings.HasPrefix(fragment, "#") {
		fragment = "#" + fragment
	}

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
	if err := session.AdvanceTo(opts.At); err != nil {
		return out.Fail(ExitFailure, "failed to advance", err)
	}

	result := NavigateResult{
		Fragment:  fragment,
		At:        opts.At,
		Activated: session.Navigate(fragment),
		Active:    []string{},
		Selection: []string{},
	}
	snap := session.Snapshot()
	for _, c := range snap.Containers {
		result.Active = append(result.Active, c.Active...)
		result.Selection = append(result.Selection, c.Node+"="+strconv.Itoa(c.CurrentIndex))
	}
	if !result.Activated {
		opts.logger().Info("fragment activated nothing", "fragment", fragment)
	}

	return out.Success(result, func(w io.Writer) {
		if result.Activated {
			fmt.Fprintf(w, "%s activated at %gs\n", fragment, opts.At)
		} else {
			fmt.Fprintf(w, "%s: nothing to activate\n", fragment)
		}
		fmt.Fprintf(w, "Active: %s\n", strings.Join(result.Active, " "))
		fmt.Fprintf(w, "Selection: %s\n", strings.Join(result.Selection, " "))
	})
}
