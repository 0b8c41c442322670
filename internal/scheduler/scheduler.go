// Package scheduler triggers schedule checks on a fixed interval.
package scheduler

import (
	"context"
	"time"

	"github.com/amfb-notifier/amfb-notifier/internal/logger"
	"github.com/amfb-notifier/amfb-notifier/internal/tracker"
)

// DefaultRunTimeout bounds a single check.
const DefaultRunTimeout = 5 * time.Minute

// Runner performs one check.
type Runner interface {
	Run(ctx context.Context) (tracker.RunResult, error)
}

type Scheduler struct {
	runner     Runner
	interval   time.Duration
	runTimeout time.Duration
	log        *logger.Logger
}

// New creates a Scheduler. A non-positive runTimeout uses DefaultRunTimeout.
func New(runner Runner, interval, runTimeout time.Duration, log *logger.Logger) *Scheduler {
	if runTimeout <= 0 {
		runTimeout = DefaultRunTimeout
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Scheduler{
		runner:     runner,
		interval:   interval,
		runTimeout: runTimeout,
		log:        log.With(logger.Fields{"component": "scheduler"}),
	}
}

// Start runs a check immediately and then on every tick until ctx is done.
// Runs never overlap within one scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	s.log.Info("scheduler started", logger.Fields{"interval": s.interval.String()})

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped", nil)
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	result, err := s.runner.Run(runCtx)
	if err != nil {
		s.log.Error("scheduled check failed", nil, err)
		return
	}
	s.log.Info("scheduled check finished", logger.Fields{
		"teams":     len(result.Teams),
		"changed":   result.Changed(),
		"sent":      result.Sent,
		"failed":    result.Failed,
		"available": result.SourceAvailable,
	})
}
