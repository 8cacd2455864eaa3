package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"inkwell/internal/platform/metrics"
)

// Sweeper periodically purges expired scope entries so the limiter's table
// stays bounded even when identities never retry.
type Sweeper struct {
	limiter  *Limiter
	logger   *slog.Logger
	interval time.Duration
	metrics  *metrics.Metrics
}

type SweeperOption func(*Sweeper)

func WithSweeperLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithSweeperInterval(interval time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithSweeperMetrics(m *metrics.Metrics) SweeperOption {
	return func(s *Sweeper) {
		s.metrics = m
	}
}

func NewSweeper(limiter *Limiter, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		limiter:  limiter,
		logger:   slog.Default(),
		interval: 15 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the sweep loop until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			removed := s.RunOnce(time.Now())
			s.logger.Info("rate_limit_sweep_completed",
				"entries_removed", removed,
				"entries_remaining", s.limiter.Len(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			s.metrics.ObserveSweep("success", removed)

		case <-ctx.Done():
			s.logger.Info("rate limit sweeper stopping", "reason", ctx.Err())
			return ctx.Err()
		}
	}
}

// RunOnce executes a single sweep. Logging is handled by the caller (Start).
func (s *Sweeper) RunOnce(now time.Time) int {
	return s.limiter.Sweep(now)
}
