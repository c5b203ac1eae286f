// Package postgres implements the repository ports on PostgreSQL via
// database/sql with the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/repository"
)

type IssueRepo struct{ db *sql.DB }

func NewIssueRepo(db *sql.DB) repository.IssueRepository {
	return &IssueRepo{db: db}
}

func (repo *IssueRepo) Create(ctx context.Context, issue *entity.Issue) error {
	const query = `
INSERT INTO issues (issue_number, title, status, item_count, drive_file_id, drive_link, published_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at`
	err := repo.db.QueryRowContext(ctx, query,
		issue.IssueNumber, issue.Title, issue.Status, issue.ItemCount,
		nullString(issue.DriveFileID), nullString(issue.DriveLink), issue.PublishedAt,
	).Scan(&issue.ID, &issue.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *IssueRepo) MarkPublished(ctx context.Context, issueNumber int, fileID, link string) error {
	const query = `
UPDATE issues
SET status = $1, drive_file_id = $2, drive_link = $3, published_at = now()
WHERE issue_number = $4`
	result, err := repo.db.ExecContext(ctx, query, entity.IssueStatusPublished, fileID, link, issueNumber)
	if err != nil {
		return fmt.Errorf("MarkPublished: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("MarkPublished: RowsAffected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("MarkPublished: issue %d not found", issueNumber)
	}
	return nil
}

func (repo *IssueRepo) Latest(ctx context.Context) (*entity.Issue, error) {
	const query = `
SELECT id, issue_number, title, status, item_count, drive_file_id, drive_link, published_at, created_at
FROM issues
ORDER BY issue_number DESC
LIMIT 1`
	issue, err := scanIssue(repo.db.QueryRowContext(ctx, query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Latest: %w", err)
	}
	return issue, nil
}

func (repo *IssueRepo) NextIssueNumber(ctx context.Context) (int, error) {
	const query = `SELECT COALESCE(MAX(issue_number), 0) + 1 FROM issues`
	var next int
	if err := repo.db.QueryRowContext(ctx, query).Scan(&next); err != nil {
		return 0, fmt.Errorf("NextIssueNumber: %w", err)
	}
	return next, nil
}

func (repo *IssueRepo) List(ctx context.Context, limit int) ([]*entity.Issue, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
SELECT id, issue_number, title, status, item_count, drive_file_id, drive_link, published_at, created_at
FROM issues
ORDER BY issue_number DESC
LIMIT $1`
	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	issues := make([]*entity.Issue, 0, limit)
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssue(row rowScanner) (*entity.Issue, error) {
	var issue entity.Issue
	var fileID, link sql.NullString
	if err := row.Scan(
		&issue.ID, &issue.IssueNumber, &issue.Title, &issue.Status, &issue.ItemCount,
		&fileID, &link, &issue.PublishedAt, &issue.CreatedAt,
	); err != nil {
		return nil, err
	}
	issue.DriveFileID = fileID.String
	issue.DriveLink = link.String
	return &issue, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
