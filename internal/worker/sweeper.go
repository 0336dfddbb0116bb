package worker

import (
	"context"
	"log/slog"
	"time"

	"dojo.app/platform/common/logger"
)

// TrialExpirer is the slice of the subscription service the sweeper needs.
type TrialExpirer interface {
	ExpireTrials(ctx context.Context, now time.Time) (int64, error)
}

// TrialSweeper marks elapsed trials as expired on a fixed interval.
type TrialSweeper struct {
	expirer  TrialExpirer
	interval time.Duration
	now      func() time.Time

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewTrialSweeper(expirer TrialExpirer, interval time.Duration) *TrialSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TrialSweeper{
		expirer:   expirer,
		interval:  interval,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run sweeps once immediately, then on every tick until Stop or ctx is done.
func (s *TrialSweeper) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "dojo.worker.trial_sweeper",
	})

	defer close(s.stoppedCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "trial sweeper started", "interval", s.interval)
	s.SweepOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			slog.InfoContext(ctx, "trial sweeper stopping")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

func (s *TrialSweeper) Stop() {
	close(s.stopCh)
	<-s.stoppedCh
}

func (s *TrialSweeper) SweepOnce(ctx context.Context) int64 {
	n, err := s.expirer.ExpireTrials(ctx, s.now())
	if err != nil {
		slog.ErrorContext(ctx, "trial sweep failed", "error", err)
		return 0
	}
	if n > 0 {
		slog.InfoContext(ctx, "expired trials", "count", n)
	}
	return n
}
