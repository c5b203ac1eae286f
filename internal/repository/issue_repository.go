// Package repository defines the persistence ports consumed by the usecase
// layer. Implementations live under internal/infra/adapter/persistence.
package repository

import (
	"context"

	"newsletter-press/internal/domain/entity"
)

// IssueRepository archives newsletter runs.
type IssueRepository interface {
	// Create records a new issue. The issue number must not already exist.
	Create(ctx context.Context, issue *entity.Issue) error

	// MarkPublished stores the Drive handle and flips the status after a
	// successful upload.
	MarkPublished(ctx context.Context, issueNumber int, fileID, link string) error

	// Latest returns the most recent issue, or nil when the archive is empty.
	Latest(ctx context.Context) (*entity.Issue, error)

	// NextIssueNumber returns one past the highest recorded issue number,
	// starting at 1 on an empty archive.
	NextIssueNumber(ctx context.Context) (int, error)

	// List returns up to limit issues, newest first.
	List(ctx context.Context, limit int) ([]*entity.Issue, error)
}
