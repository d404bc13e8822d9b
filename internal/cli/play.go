package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/timesheet/internal/engine"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Duration      time.Duration // zero plays until interrupted
	Journal       string
	Media         bool
	MediaDuration float64
}

// PlayResult summarizes a real-time run.
type PlayResult struct {
	SessionID string       `json:"session_id"`
	Elapsed   Seconds      `json:"elapsed"`
	Records   []RecordView `json:"records"`
	Events    []string     `json:"events"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play <document>",
		Short: "Run a document in real time",
		Long: `Run a document against the wall clock until --duration elapses or the
process is interrupted, then print the transitions that happened.

All clock ticks and media callbacks are serialized on one loop goroutine.
Use --verbose to see transitions as they occur.

Examples:
  timesheet play slides.html --duration 10s
  timesheet play video.html --media --media-duration 30 -v`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, args[0], cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Duration, "duration", 0, "stop after this long (default: until interrupted)")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "write transitions to this journal (default: TIMESHEET_JOURNAL)")
	cmd.Flags().BoolVar(&opts.Media, "media", false, "simulate media sources for media-synced containers")
	cmd.Flags().Float64Var(&opts.MediaDuration, "media-duration", 60, "length of simulated media in seconds")

	return cmd
}

func runPlay(opts *PlayOptions, path string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}
	log := opts.logger()

	if opts.Duration < 0 {
		return out.Fail(ExitCommandError, "invalid flag",
			&flagError{Flag: "duration", Value: opts.Duration.String(), Why: "must not be negative"})
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

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}

	loop := engine.NewLoop(engine.WithLoopLogger(log))
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	sopts := append(sessionOptions(opts.RootOptions, path, j), engine.WithLoop(loop))
	if opts.Media {
		sopts = append(sopts, engine.WithSimulatedMedia(opts.MediaDuration, opts.settings().MediaUpdateRate))
	}

	began := time.Now()
	var (
		session  *engine.Session
		buildErr error
	)
	// If ctx ends first the task may never run; session is read only after
	// the loop has returned.
	_ = loop.Call(ctx, func() {
		session, buildErr = engine.NewSession(doc, sopts...)
		if buildErr == nil {
			buildErr = session.Start(ctx)
		}
	})
	if session != nil && buildErr == nil {
		log.Info("playing", "session", session.ID(), "duration", opts.Duration)
	}

	runErr := <-done
	loop.Stop()
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return out.Fail(ExitFailure, "loop failed", runErr)
	}
	if buildErr != nil {
		if session != nil {
			session.Close()
			return out.Fail(ExitFailure, "failed to start session", journalError(buildErr))
		}
		return out.Fail(ExitCommandError, "failed to build time tree", buildErr)
	}
	if session == nil {
		return WrapExitError(ExitFailure, "interrupted before the session started", ctx.Err())
	}

	result := PlayResult{
		SessionID: session.ID(),
		Elapsed:   Seconds(time.Since(began).Seconds()),
		Records:   recordViews(session.Trace()),
		Events:    append([]string{}, session.Events()...),
	}
	if err := session.Close(); err != nil {
		return out.Fail(ExitFailure, "failed to write journal", journalError(err))
	}
	log.Info("stopped", "session", result.SessionID, "transitions", len(result.Records))

	return out.Success(result, func(w io.Writer) {
		writeRecordsText(w, result.Records)
		fmt.Fprintf(w, "\nsession %s: %d transitions in %.1fs\n", result.SessionID, len(result.Records), float64(result.Elapsed))
	})
}
