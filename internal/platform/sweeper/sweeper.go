package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type expirer interface {
	ExpireOverdue(ctx context.Context, now time.Time, limit int) (int, error)
}

// Sweeper periodically expires PENDING holds whose deadline has passed. It
// backs up the per-hold expiry tasks, which may be lost or late.
type Sweeper struct {
	svc      expirer
	interval time.Duration
	batch    int
	now      func() time.Time
	logger   *zap.Logger
}

const defaultInterval = time.Minute

// New builds a sweeper. A non-positive interval falls back to one minute and
// a batch below one is treated as one.
func New(svc expirer, interval time.Duration, batch int, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Sweeper{svc: svc, interval: interval, batch: batch, now: time.Now, logger: logger}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Hold sweeper started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Hold sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep drains overdue holds one batch at a time until a batch comes back
// short. Batches below one are clamped to one.
func (s *Sweeper) Sweep(ctx context.Context) int {
	batch := max(s.batch, 1)
	total := 0
	for ctx.Err() == nil {
		n, err := s.svc.ExpireOverdue(ctx, s.now(), batch)
		if err != nil {
			s.logger.Error("Error expiring overdue holds", zap.Error(err))
			return total
		}
		total += n
		if n < batch {
			break
		}
	}
	if total > 0 {
		s.logger.Info("Overdue holds expired", zap.Int("count", total))
	}
	return total
}
