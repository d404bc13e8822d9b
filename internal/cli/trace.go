package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/timesheet/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Session string
	Node    string // optional - filter to one node label, e.g. "#intro"
}

// TraceEntry is one journaled transition.
type TraceEntry struct {
	Seq       int64   `json:"seq"`
	Kind      string  `json:"kind"`
	Node      string  `json:"node"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	ClockTime Seconds `json:"clock_time"`
}

// TraceResult holds the trace of one session.
type TraceResult struct {
	Session  string       `json:"session"`
	Timeline []TraceEntry `json:"timeline"`
	Stats    TraceStats   `json:"stats"`
}

// TraceStats summarizes a session's trace.
type TraceStats struct {
	TotalEntries     int `json:"total_entries"`
	StateChanges     int `json:"state_changes"`
	SelectionChanges int `json:"selection_changes"`
	Nodes            int `json:"nodes"`
}

// SessionSummary is one row of the session listing.
type SessionSummary struct {
	ID        string    `json:"id"`
	Document  string    `json:"document"`
	StartedAt time.Time `json:"started_at"`
	Entries   int       `json:"entries"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <journal>",
		Short: "Print journaled transitions",
		Long: `Read a journal written by simulate or play.

Without --session, list the journaled sessions. With --session, print that
session's transitions in order with summary statistics.

Examples:
  timesheet trace ./runs.db
  timesheet trace ./runs.db --session 0190a1b2-...
  timesheet trace ./runs.db --session 0190a1b2-... --node '#intro' --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Session, "session", "", "session id to trace")
	cmd.Flags().StringVar(&opts.Node, "node", "", "only show transitions of this node")

	return cmd
}

func runTrace(opts *TraceOptions, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	// Opening creates the file, so check first.
	if _, err := os.Stat(path); err != nil {
		return out.Fail(ExitCommandError, "journal not found", journalError(err))
	}
	j, err := journal.Open(path)
	if err != nil {
		return out.Fail(ExitCommandError, "failed to open journal", journalError(err))
	}
	defer j.Close()

	if opts.Session == "" {
		return listSessions(ctx, j, out)
	}

	entries, err := j.Entries(ctx, opts.Session)
	if err != nil {
		return out.Fail(ExitCommandError, "failed to read journal", journalError(err))
	}
	result := buildTrace(opts.Session, entries, opts.Node)

	if opts.Format == "json" {
		return out.Success(result, nil)
	}
	return outputTraceText(cmd.OutOrStdout(), result, opts.Verbose)
}

func listSessions(ctx context.Context, j *journal.Journal, out *OutputFormatter) error {
	sessions, err := j.Sessions(ctx)
	if err != nil {
		return out.Fail(ExitCommandError, "failed to read journal", journalError(err))
	}
	summaries := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		entries, err := j.Entries(ctx, s.ID)
		if err != nil {
			return out.Fail(ExitCommandError, "failed to read journal", journalError(err))
		}
		summaries = append(summaries, SessionSummary{
			ID:        s.ID,
			Document:  s.Document,
			StartedAt: s.StartedAt,
			Entries:   len(entries),
		})
	}
	return out.Success(summaries, func(w io.Writer) {
		if len(summaries) == 0 {
			fmt.Fprintln(w, "No sessions journaled.")
			return
		}
		for _, s := range summaries {
			fmt.Fprintf(w, "%s  %-20s %s  %d entries\n",
				truncateID(s.ID), s.Document, s.StartedAt.Format(time.RFC3339), s.Entries)
		}
	})
}

// buildTrace converts journal entries to a timeline. Stats always describe
// the whole session; the node filter only narrows the timeline.
func buildTrace(session string, entries []journal.Entry, node string) TraceResult {
	result := TraceResult{Session: session, Timeline: []TraceEntry{}}
	nodes := make(map[string]bool)
	for _, e := range entries {
		nodes[e.Node] = true
		switch e.Kind {
		case "state":
			result.Stats.StateChanges++
		case "index":
			result.Stats.SelectionChanges++
		}
		if node != "" && e.Node != node {
			continue
		}
		result.Timeline = append(result.Timeline, TraceEntry{
			Seq:       e.Seq,
			Kind:      e.Kind,
			Node:      e.Node,
			From:      e.From,
			To:        e.To,
			ClockTime: Seconds(e.ClockTime),
		})
	}
	sort.SliceStable(result.Timeline, func(a, b int) bool { return result.Timeline[a].Seq < result.Timeline[b].Seq })
	result.Stats.TotalEntries = len(entries)
	result.Stats.Nodes = len(nodes)
	return result
}

func outputTraceText(w io.Writer, result TraceResult, verbose bool) error {
	fmt.Fprintf(w, "Session: %s\n\n", result.Session)

	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no entries)")
	}
	for _, e := range result.Timeline {
		fmt.Fprintf(w, "  [%d] %s %s %s -> %s", e.Seq, e.Kind, e.Node, e.From, e.To)
		if verbose {
			fmt.Fprintf(w, " @ %s", formatClock(float64(e.ClockTime)))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Total Entries:     %d\n", result.Stats.TotalEntries)
	fmt.Fprintf(w, "  State Changes:     %d\n", result.Stats.StateChanges)
	fmt.Fprintf(w, "  Selection Changes: %d\n", result.Stats.SelectionChanges)
	fmt.Fprintf(w, "  Nodes:             %d\n", result.Stats.Nodes)
	return nil
}

func formatClock(t float64) string {
	if math.IsNaN(t) {
		return "?"
	}
	return fmt.Sprintf("%.3fs", t)
}

// truncateID truncates a long ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
