// Package ratelimit implements a fixed-window attempt counter keyed by scope
// (e.g. "auth:" + email). The limiter owns its state and is injected into the
// authenticator; there is no ambient global table.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"inkwell/internal/platform/metrics"
	dErrors "inkwell/pkg/domain-errors"
	"inkwell/pkg/requesttime"
)

// entry tracks attempts for one scope within the current window.
type entry struct {
	count         int
	windowResetAt time.Time
}

type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	window      time.Duration
	maxAttempts int
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

type Option func(*Limiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}

// New constructs a limiter allowing maxAttempts per scope per fixed window.
func New(window time.Duration, maxAttempts int, opts ...Option) *Limiter {
	l := &Limiter{
		entries:     make(map[string]*entry),
		window:      window,
		maxAttempts: maxAttempts,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CheckAndIncrement consumes one attempt for the scope. When the scope has
// already used maxAttempts within the current window it fails with a
// rate_limited error carrying the remaining wait in whole seconds (rounded up)
// and does NOT increment. A missing or expired entry is reinitialized first,
// so a burst straddling the window boundary starts from a clean count.
// The read-check-increment sequence is serialized under one mutex; concurrent
// attempts for the same scope can never exceed the configured maximum.
func (l *Limiter) CheckAndIncrement(ctx context.Context, scope string) error {
	now := requesttime.Now(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[scope]
	if !ok || !now.Before(e.windowResetAt) {
		e = &entry{windowResetAt: now.Add(l.window)}
		l.entries[scope] = e
	}

	if e.count >= l.maxAttempts {
		retryAfter := ceilSeconds(e.windowResetAt.Sub(now))
		l.logger.WarnContext(ctx, "rate limit exceeded",
			"scope", scope,
			"retry_after_s", retryAfter,
		)
		l.metrics.IncrementRateLimitedAttempts()
		return dErrors.NewRateLimited(retryAfter, "too many attempts, retry later")
	}

	e.count++
	return nil
}

// Sweep removes entries whose window has elapsed and returns how many were
// removed. Stale entries are harmless for correctness (they are reset lazily
// on next use); sweeping only bounds table growth for scopes that never retry.
func (l *Limiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for scope, e := range l.entries {
		if !now.Before(e.windowResetAt) {
			delete(l.entries, scope)
			removed++
		}
	}
	return removed
}

// Len reports the current scope table size. Used by the sweeper's logging.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
