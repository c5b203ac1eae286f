package entity

import "time"

// IssueStatus tracks an issue through the archive.
type IssueStatus string

const (
	IssueStatusDraft     IssueStatus = "draft"
	IssueStatusPublished IssueStatus = "published"
)

// Issue is one archived newsletter run. The archive exists so issue numbers
// stay monotonic across worker restarts and past runs remain auditable.
type Issue struct {
	ID          int64       `json:"id"`
	IssueNumber int         `json:"issue_number"`
	Title       string      `json:"title"`
	Status      IssueStatus `json:"status"`
	ItemCount   int         `json:"item_count"`
	DriveFileID string      `json:"drive_file_id,omitempty"`
	DriveLink   string      `json:"drive_link,omitempty"`
	PublishedAt *time.Time  `json:"published_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
