// Package aggregate fans fetches out to every content source, applies the
// shared rate limiter and retry policy, and assembles the per-run content
// bundle. A failed source never aborts the run; its error is recorded in the
// bundle and the remaining sources proceed.
package aggregate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/infra/source"
	"newsletter-press/internal/observability/metrics"
	"newsletter-press/internal/resilience/retry"
	"newsletter-press/pkg/ratelimit"

	"golang.org/x/sync/errgroup"
)

// defaultDeadline bounds one aggregation run. A source still in flight at
// the deadline is recorded as unavailable.
const defaultDeadline = 60 * time.Second

// Limiter is the rate limiter port the service consumes.
type Limiter interface {
	Acquire(source string) bool
}

// Service runs the fan-out aggregation.
type Service struct {
	adapters []source.Adapter
	limiter  Limiter
	retryCfg retry.Config
	deadline time.Duration
	now      func() time.Time
}

// Option adjusts service construction.
type Option func(*Service)

// WithDeadline overrides the per-run deadline.
func WithDeadline(d time.Duration) Option {
	return func(s *Service) { s.deadline = d }
}

// WithRetryConfig overrides the per-source retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(s *Service) { s.retryCfg = cfg }
}

// WithClock overrides the bundle timestamp source. Tests use this to make
// runs reproducible.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates the aggregation service over the given adapters. A nil
// limiter means unlimited (tests only; production always passes one).
func NewService(adapters []source.Adapter, limiter Limiter, opts ...Option) *Service {
	if limiter == nil {
		limiter = ratelimit.New(ratelimit.Config{Fallback: int(^uint(0) >> 1)}, nil)
	}
	s := &Service{
		adapters: adapters,
		limiter:  limiter,
		retryCfg: retry.SourceFetchConfig(),
		deadline: defaultDeadline,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchAll queries every adapter concurrently and returns the assembled
// bundle. The bundle always carries an entry per adapter: items on success,
// a classified error otherwise. The returned error is non-nil only when the
// parent context is already dead.
func (s *Service) FetchAll(ctx context.Context, w source.Window) (*entity.ContentBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	start := s.now()

	var mu sync.Mutex
	results := make(map[entity.SourceTag]entity.SourceResult, len(s.adapters))
	g, gctx := errgroup.WithContext(runCtx)

	for _, adapter := range s.adapters {
		g.Go(func() error {
			result := s.fetchOne(gctx, adapter, w)
			mu.Lock()
			results[adapter.Tag()] = result
			mu.Unlock()
			return nil
		})
	}

	// Wait for the sources, but never past the run deadline. An adapter that
	// ignores its context keeps its goroutine; it writes into the abandoned
	// map and the run moves on without it.
	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-runCtx.Done():
	}

	bundle := entity.NewContentBundle(start)
	mu.Lock()
	for _, adapter := range s.adapters {
		tag := adapter.Tag()
		result, ok := results[tag]
		if !ok {
			result = entity.SourceResult{Err: entity.NewSourceUnavailable(tag, runCtx.Err())}
		}
		bundle.Results[tag] = result
	}
	mu.Unlock()

	duration := time.Since(start)
	metrics.RecordAggregation(duration)
	slog.Info("aggregation completed",
		slog.Int("sources", len(s.adapters)),
		slog.Int("items", bundle.TotalItems()),
		slog.Int("failures", len(bundle.Errors())),
		slog.Duration("duration", duration))

	return bundle, nil
}

// fetchOne runs one adapter with retry. Every attempt re-enters the limiter
// so retries spend budget like first calls do.
func (s *Service) fetchOne(ctx context.Context, adapter source.Adapter, w source.Window) entity.SourceResult {
	tag := adapter.Tag()
	start := time.Now()

	var items []entity.ContentItem
	err := retry.WithBackoff(ctx, s.retryCfg, func() error {
		if !s.limiter.Acquire(string(tag)) {
			return entity.NewSourceRateLimited(tag)
		}
		fetched, fetchErr := adapter.Fetch(ctx, w)
		if fetchErr != nil {
			return fetchErr
		}
		items = fetched
		return nil
	})

	duration := time.Since(start)
	if err != nil {
		se := entity.AsSourceError(tag, err)
		metrics.RecordSourceFetch(tag, duration, 0, se)
		slog.Warn("source fetch failed",
			slog.String("source", string(tag)),
			slog.String("kind", string(se.Kind)),
			slog.String("error", se.Message),
			slog.Duration("duration", duration))
		return entity.SourceResult{Err: se}
	}

	metrics.RecordSourceFetch(tag, duration, len(items), nil)
	slog.Info("source fetch completed",
		slog.String("source", string(tag)),
		slog.Int("items", len(items)),
		slog.Duration("duration", duration))
	return entity.SourceResult{Items: items}
}
