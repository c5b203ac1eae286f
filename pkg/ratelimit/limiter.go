// Package ratelimit provides a process-wide, per-source token bucket limiter
// for outbound API calls.
//
// Each source gets one bucket whose capacity equals the source's per-minute
// call budget, refilled continuously over a rolling 60-second window. The
// limiter is the single authority for a source's budget: it is injected into
// every caller rather than kept as ambient global state, so the aggregation
// pipeline stays testable in isolation.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter tracks one token bucket per source key. Acquire never blocks: a
// denied call returns immediately and the caller decides between backoff and
// skip. Safe for concurrent use.
type Limiter struct {
	cfg     Config
	metrics Metrics

	mu      sync.Mutex
	buckets map[string]*rate.Limiter

	// now is injectable so tests can roll the window without sleeping.
	now func() time.Time
}

// New creates a Limiter with the given per-source budgets. A nil metrics
// recorder falls back to the no-op implementation.
func New(cfg Config, metrics Metrics) *Limiter {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Limiter{
		cfg:     cfg,
		metrics: metrics,
		buckets: make(map[string]*rate.Limiter),
		now:     time.Now,
	}
}

// Acquire consumes one token for the source and reports whether the call is
// within budget. The (N+1)-th acquisition inside a 60-second window for a
// source with budget N is denied; capacity returns as the window rolls.
func (l *Limiter) Acquire(source string) bool {
	l.mu.Lock()
	bucket, ok := l.buckets[source]
	if !ok {
		budget := l.cfg.Budget(source)
		bucket = rate.NewLimiter(rate.Every(time.Minute/time.Duration(budget)), budget)
		l.buckets[source] = bucket
	}
	now := l.now()
	l.mu.Unlock()

	allowed := bucket.AllowN(now, 1)
	if allowed {
		l.metrics.RecordAllowed(source)
	} else {
		l.metrics.RecordDenied(source)
	}
	return allowed
}

// Budget returns the per-minute budget configured for the source.
func (l *Limiter) Budget(source string) int {
	return l.cfg.Budget(source)
}

// SetClock replaces the limiter's time source. Intended for tests.
func (l *Limiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}
