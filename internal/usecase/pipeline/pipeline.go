// Package pipeline runs the scheduled end-to-end newsletter build: fetch,
// draft, organize, render, publish, archive.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/infra/googleworkspace"
	"newsletter-press/internal/infra/source"
	"newsletter-press/internal/observability/tracing"
	"newsletter-press/internal/repository"
	"newsletter-press/internal/usecase/draft"
	"newsletter-press/internal/usecase/render"
)

// Aggregator fans the fetch out across every configured source.
type Aggregator interface {
	FetchAll(ctx context.Context, w source.Window) (*entity.ContentBundle, error)
}

// Publisher validates and uploads one rendered issue.
type Publisher interface {
	Publish(ctx context.Context, d *entity.Draft, out *entity.RenderedOutput) (*googleworkspace.UploadResult, error)
}

// Stats summarizes one completed run for the job log.
type Stats struct {
	IssueNumber  int
	Title        string
	ItemsFetched int
	ItemsKept    int
	FileID       string
	Link         string
	Duration     time.Duration
}

// Service orchestrates one newsletter run. Each stage owns its own retries
// and classification; the pipeline only sequences them and records the issue.
type Service struct {
	aggregator Aggregator
	builder    *draft.Builder
	organizer  *draft.Organizer
	renderer   *render.Renderer
	publisher  Publisher
	issues     repository.IssueRepository
	now        func() time.Time
}

// NewService wires the pipeline stages. The issue repository is required:
// it hands out the monotonic issue number each run claims.
func NewService(
	aggregator Aggregator,
	builder *draft.Builder,
	organizer *draft.Organizer,
	renderer *render.Renderer,
	publisher Publisher,
	issues repository.IssueRepository,
) *Service {
	return &Service{
		aggregator: aggregator,
		builder:    builder,
		organizer:  organizer,
		renderer:   renderer,
		publisher:  publisher,
		issues:     issues,
		now:        time.Now,
	}
}

// WithClock overrides the run timestamp source for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run executes one end-to-end newsletter build. The issue row is created in
// draft status before the upload so the number stays claimed even when the
// publish fails; a rerun picks the next number.
func (s *Service) Run(ctx context.Context) (*Stats, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "pipeline.run")
	defer span.End()

	start := s.now()

	bundle, err := s.aggregator.FetchAll(ctx, source.DefaultWindow(start))
	if err != nil {
		return nil, fmt.Errorf("fetch sources: %w", err)
	}
	for _, srcErr := range bundle.Errors() {
		slog.Warn("source failed during scheduled run",
			slog.String("source", string(srcErr.Source)),
			slog.String("kind", string(srcErr.Kind)),
			slog.String("message", srcErr.Message))
	}

	issueNumber, err := s.issues.NextIssueNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("next issue number: %w", err)
	}

	d, err := s.builder.Build(ctx, bundle, issueNumber)
	if err != nil {
		return nil, fmt.Errorf("build draft: %w", err)
	}
	d = s.organizer.Organize(d)

	kept := 0
	for _, n := range d.Counts {
		kept += n
	}

	issue := &entity.Issue{
		IssueNumber: issueNumber,
		Title:       d.Title,
		Status:      entity.IssueStatusDraft,
		ItemCount:   kept,
		CreatedAt:   d.CreatedAt,
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("archive issue %d: %w", issueNumber, err)
	}

	out, err := s.renderer.Render(d, entity.FormatHTML)
	if err != nil {
		return nil, fmt.Errorf("render issue %d: %w", issueNumber, err)
	}

	res, err := s.publisher.Publish(ctx, d, out)
	if err != nil {
		return nil, fmt.Errorf("publish issue %d: %w", issueNumber, err)
	}

	if err := s.issues.MarkPublished(ctx, issueNumber, res.FileID, res.URL); err != nil {
		return nil, fmt.Errorf("mark issue %d published: %w", issueNumber, err)
	}

	return &Stats{
		IssueNumber:  issueNumber,
		Title:        d.Title,
		ItemsFetched: bundle.TotalItems(),
		ItemsKept:    kept,
		FileID:       res.FileID,
		Link:         res.URL,
		Duration:     time.Since(start),
	}, nil
}
