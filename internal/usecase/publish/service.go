// Package publish hands rendered newsletters to the file store. A draft is
// re-validated on the way out so a broken draft can never reach the folder,
// and uploads run behind bounded retries and a circuit breaker.
package publish

import (
	"context"
	"log/slog"
	"time"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/infra/googleworkspace"
	"newsletter-press/internal/observability/metrics"
	"newsletter-press/internal/resilience/circuitbreaker"
	"newsletter-press/internal/resilience/retry"
	"newsletter-press/internal/usecase/validate"
)

// FileStore uploads one file and returns its handle. Implemented by
// googleworkspace.DriveClient.
type FileStore interface {
	Upload(ctx context.Context, folderID, filename, mimeType, content string) (*googleworkspace.UploadResult, error)
}

// Service publishes rendered drafts.
type Service struct {
	store     FileStore
	folderID  string
	validator *validate.Validator
	retryCfg  retry.Config
	breaker   *circuitbreaker.CircuitBreaker
}

// Option customizes a Service.
type Option func(*Service)

// WithRetryConfig overrides the upload retry schedule.
func WithRetryConfig(cfg retry.Config) Option {
	return func(s *Service) { s.retryCfg = cfg }
}

// NewService creates a publisher backed by the given store. folderID may be
// empty when the store carries its own default folder.
func NewService(store FileStore, folderID string, opts ...Option) *Service {
	s := &Service{
		store:     store,
		folderID:  folderID,
		validator: validate.New(),
		retryCfg:  retry.PublishConfig(),
		breaker:   circuitbreaker.New(circuitbreaker.FileStoreConfig()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish validates the draft, then uploads the rendered output. A failing
// validation report aborts before any network call. Upload failures are
// retried on transient causes and returned as a PublishError carrying the
// attempt count and the final cause.
func (s *Service) Publish(ctx context.Context, d *entity.Draft, out *entity.RenderedOutput) (*googleworkspace.UploadResult, error) {
	if report := s.validator.Validate(d); !report.Pass {
		return nil, &entity.ValidationFailedError{Report: report}
	}

	start := time.Now()
	var result *googleworkspace.UploadResult
	attempts := 0

	err := retry.WithBackoff(ctx, s.retryCfg, func() error {
		attempts++
		cbResult, cbErr := s.breaker.Execute(func() (interface{}, error) {
			return s.store.Upload(ctx, s.folderID, out.Filename, out.Format.MIMEType(), out.Content)
		})
		if cbErr != nil {
			return cbErr
		}
		result = cbResult.(*googleworkspace.UploadResult)
		return nil
	})
	if err != nil {
		metrics.RecordPublish(false)
		return nil, entity.NewPublishError("upload", attempts, err)
	}

	metrics.RecordPublish(true)
	slog.Info("newsletter published",
		slog.Int("issue_number", d.IssueNumber),
		slog.String("filename", out.Filename),
		slog.String("file_id", result.FileID),
		slog.Int("attempts", attempts),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}
