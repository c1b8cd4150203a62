package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/tgauth/pkg/logger"
)

// Sweeper removes expired sessions
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Reaper periodically sweeps expired sessions
type Reaper struct {
	sweeper  Sweeper
	interval time.Duration
	log      *slog.Logger
}

// ReaperOption is a functional option for Reaper
type ReaperOption func(*Reaper)

// WithInterval sets the sweep interval
func WithInterval(d time.Duration) ReaperOption {
	return func(r *Reaper) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithReaperLogger sets the logger for sweep results
func WithReaperLogger(log *slog.Logger) ReaperOption {
	return func(r *Reaper) {
		if log != nil {
			r.log = log
		}
	}
}

// NewReaper creates a Reaper sweeping every hour unless configured otherwise
func NewReaper(s Sweeper, opts ...ReaperOption) *Reaper {
	r := &Reaper{
		sweeper:  s,
		interval: time.Hour,
		log:      slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.log = r.log.With(logger.Component("session.reaper"))

	return r
}

// Run sweeps on every tick until ctx is cancelled. Sweep failures are logged, never fatal.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep and returns the number of removed sessions
func (r *Reaper) RunOnce(ctx context.Context) int64 {
	start := time.Now()
	n, err := r.sweeper.Sweep(ctx)
	if err != nil {
		r.log.ErrorContext(ctx, "session sweep failed", logger.Error(err))
	}
	if n > 0 {
		r.log.InfoContext(ctx, "expired sessions removed",
			slog.Int64("count", n),
			logger.Duration(time.Since(start)),
		)
	}
	return n
}
