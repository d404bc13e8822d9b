package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrLoopStopped is returned by Call once the loop no longer accepts tasks.
var ErrLoopStopped = errors.New("loop stopped")

// Loop is the single-writer task loop for real-time sessions.
//
// The timing tree is not safe for concurrent use. Everything that touches it
// (clock ticks, media callbacks, commands from other goroutines) is posted to
// the loop and runs on the goroutine that called Run.
//
// Loop implements clock.Ticker: tick callbacks are delivered as tasks, never
// on the timer goroutine.
//
// Thread-safety model:
//   - Post, Call, Start, Stop: safe from any goroutine
//   - Run: exactly one goroutine
type Loop struct {
	queue  *taskQueue
	logger *slog.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopLogger sets the loop's logger.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop creates an idle loop.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{queue: newTaskQueue(), logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post schedules fn on the loop goroutine. It returns false after Stop.
func (l *Loop) Post(fn func()) bool {
	return l.queue.Enqueue(fn)
}

// Call runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrLoopStopped
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes tasks in FIFO order until the context is cancelled or Stop is
// called. Tasks still queued at Stop run before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Debug("loop starting")
	for {
		if fn, ok := l.queue.TryDequeue(); ok {
			fn()
			continue
		}
		select {
		case <-ctx.Done():
			l.logger.Debug("loop stopping: context cancelled")
			l.queue.Close()
			return ctx.Err()
		case <-l.queue.Wait():
			// The signal channel is closed on Stop; drain, then exit.
			if l.queue.Len() == 0 && l.stopped() {
				l.logger.Debug("loop stopping: closed")
				return nil
			}
		}
	}
}

func (l *Loop) stopped() bool {
	l.queue.mu.Lock()
	defer l.queue.mu.Unlock()
	return l.queue.closed
}

// Stop closes the loop. Run returns once queued tasks have drained.
func (l *Loop) Stop() {
	l.queue.Close()
}

// Start implements clock.Ticker. A timer goroutine posts fn every interval;
// the returned function stops it, and a tick already queued when stop is
// called is discarded.
func (l *Loop) Start(interval time.Duration, fn func()) func() {
	if interval <= 0 {
		interval = time.Millisecond
	}
	var halted atomic.Bool
	quit := make(chan struct{})
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-quit:
				return
			case <-t.C:
				if !l.Post(func() {
					if !halted.Load() {
						fn()
					}
				}) {
					return
				}
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			halted.Store(true)
			close(quit)
		})
	}
}
