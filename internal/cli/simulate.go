package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/timesheet/internal/engine"
	"github.com/roach88/timesheet/internal/journal"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Until         float64       // seconds of virtual time to run
	Step          time.Duration // virtual tick period; zero uses the configured tick rate
	At            []string      // "t=#fragment" deep links applied on the way
	Journal       string        // optional journal path
	Media         bool          // drive media-synced containers from simulated sources
	MediaDuration float64       // default simulated media length in seconds

	// IDs overrides session id generation (for tests).
	IDs engine.SessionIDGenerator
}

// RecordView is a trace record as printed by simulate and play.
type RecordView struct {
	Seq  int64   `json:"seq"`
	Kind string  `json:"kind"`
	Node string  `json:"node"`
	From string  `json:"from"`
	To   string  `json:"to"`
	Time Seconds `json:"time"`
}

// SimulateResult is the output of a simulation.
type SimulateResult struct {
	SessionID string          `json:"session_id"`
	Until     float64         `json:"until"`
	Records   []RecordView    `json:"records"`
	Events    []string        `json:"events"`
	Final     engine.Snapshot `json:"final"`
}

// deepLink is a parsed --at value.
type deepLink struct {
	At       float64
	Fragment string
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate <document>",
		Short: "Run a document in virtual time",
		Long: `Run a document in virtual time and print every state and selection
transition.

--at applies a deep link at a point in time and may be repeated. With
--journal the transitions are also written to a SQLite journal that the
trace command can read back.

Examples:
  timesheet simulate slides.html --until 20
  timesheet simulate slides.html --until 20 --step 100ms --at 3=#s2 --at 8=#s4
  timesheet simulate slides.html --journal ./runs.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Until, "until", 20, "seconds of virtual time to simulate")
	cmd.Flags().DurationVar(&opts.Step, "step", 0, "virtual tick period (default: TIMESHEET_TICK_RATE)")
	cmd.Flags().StringArrayVar(&opts.At, "at", nil, "apply a deep link at a time, as seconds=#fragment")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "write transitions to this journal (default: TIMESHEET_JOURNAL)")
	cmd.Flags().BoolVar(&opts.Media, "media", false, "simulate media sources for media-synced containers")
	cmd.Flags().Float64Var(&opts.MediaDuration, "media-duration", 60, "length of simulated media in seconds")

	return cmd
}

func runSimulate(opts *SimulateOptions, path string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Until < 0 || math.IsNaN(opts.Until) {
		return out.Fail(ExitCommandError, "invalid flag",
			&flagError{Flag: "until", Value: strconv.FormatFloat(opts.Until, 'g', -1, 64), Why: "must be a non-negative number of seconds"})
	}
	links, err := parseDeepLinks(opts.At)
	if err != nil {
		return out.Fail(ExitCommandError, "invalid flag", err)
	}

	doc, err := openDocument(path)
	if err != nil {
		return out.Fail(ExitCommandError, "failed to load document", err)
	}

	j, err := openJournal(opts.Journal, opts.settings().Journal)
	if err != nil {
		return out.Fail(ExitCommandError, "failed to open journal", err)
	}
	if j != nil {
		defer j.Close()
	}

	sopts := sessionOptions(opts.RootOptions, path, j)
	if opts.Step > 0 {
		sopts = append(sopts, engine.WithTickRate(opts.Step))
	}
	if opts.Media {
		sopts = append(sopts, engine.WithSimulatedMedia(opts.MediaDuration, opts.settings().MediaUpdateRate))
	}
	if opts.IDs != nil {
		sopts = append(sopts, engine.WithSessionIDGenerator(opts.IDs))
	}
	session, err := engine.NewSession(doc, sopts...)
	if err != nil {
		return out.Fail(ExitCommandError, "failed to build time tree", err)
	}
	if err := session.Start(ctx); err != nil {
		session.Close()
		return out.Fail(ExitFailure, "failed to start session", journalError(err))
	}

	log := opts.logger().With("session", session.ID())
	for _, link := range links {
		if link.At > opts.Until {
			break
		}
		if err := session.AdvanceTo(link.At); err != nil {
			session.Close()
			return out.Fail(ExitFailure, "simulation failed", err)
		}
		if !session.Navigate(link.Fragment) {
			log.Warn("deep link activated nothing", "fragment", link.Fragment, "at", link.At)
		}
	}
	if err := session.AdvanceTo(opts.Until); err != nil {
		session.Close()
		return out.Fail(ExitFailure, "simulation failed", err)
	}

	result := SimulateResult{
		SessionID: session.ID(),
		Until:     opts.Until,
		Records:   recordViews(session.Trace()),
		Events:    append([]string{}, session.Events()...),
		Final:     session.Snapshot(),
	}
	if err := session.Close(); err != nil {
		return out.Fail(ExitFailure, "failed to write journal", journalError(err))
	}
	log.Debug("simulation finished", "records", len(result.Records), "events", len(result.Events))

	return out.Success(result, func(w io.Writer) {
		writeRecordsText(w, result.Records)
		fmt.Fprintf(w, "\nsession %s: %d transitions in %gs\n", result.SessionID, len(result.Records), result.Until)
	})
}

// parseDeepLinks parses "seconds=#fragment" values and orders them by time.
// The sort is stable so links at the same instant apply in flag order.
func parseDeepLinks(values []string) ([]deepLink, error) {
	links := make([]deepLink, 0, len(values))
	for _, v := range values {
		at, frag, ok := strings.Cut(v, "=")
		if !ok || frag == "" {
			return nil, &flagError{Flag: "at", Value: v, Why: "expected seconds=#fragment"}
		}
		t, err := strconv.ParseFloat(strings.TrimSuffix(at, "s"), 64)
		if err != nil || t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, &flagError{Flag: "at", Value: v, Why: "time must be a non-negative number of seconds"}
		}
		links = append(links, deepLink{At: t, Fragment: frag})
	}
	sort.SliceStable(links, func(i, j int) bool { return links[i].At < links[j].At })
	return links, nil
}

// openJournal opens the journal named by flag, falling back to the
// configured default. An empty path means no journal.
func openJournal(flag, fallback string) (*journal.Journal, error) {
	path := flag
	if path == "" {
		path = fallback
	}
	if path == "" {
		return nil, nil
	}
	j, err := journal.Open(path)
	if err != nil {
		return nil, journalError(err)
	}
	return j, nil
}

func recordViews(records []engine.Record) []RecordView {
	views := make([]RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, RecordView{
			Seq:  r.Seq,
			Kind: string(r.Kind),
			Node: r.Node,
			From: r.From,
			To:   r.To,
			Time: Seconds(r.Time),
		})
	}
	return views
}

func writeRecordsText(w io.Writer, records []RecordView) {
	for _, r := range records {
		fmt.Fprintf(w, "%9.3fs  %-5s %-16s %s -> %s\n", r.Time, r.Kind, r.Node, r.From, r.To)
	}
}
