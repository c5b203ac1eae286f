package postgres

import (
	"context"
	"testing"
	"time"

	"newsletter-press/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssueRepoMock(t *testing.T) (*IssueRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &IssueRepo{db: db}, mock
}

func TestIssueRepo_Create(t *testing.T) {
	repo, mock := newIssueRepoMock(t)

	createdAt := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO issues`).
		WithArgs(12, "AI Newsletter #12", string(entity.IssueStatusDraft), 13,
			sqlmock.AnyArg(), sqlmock.AnyArg(), nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), createdAt))

	issue := &entity.Issue{
		IssueNumber: 12,
		Title:       "AI Newsletter #12",
		Status:      entity.IssueStatusDraft,
		ItemCount:   13,
	}
	require.NoError(t, repo.Create(context.Background(), issue))

	assert.Equal(t, int64(7), issue.ID)
	assert.Equal(t, createdAt, issue.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueRepo_MarkPublished(t *testing.T) {
	repo, mock := newIssueRepoMock(t)

	mock.ExpectExec(`UPDATE issues`).
		WithArgs(string(entity.IssueStatusPublished), "f1", "https://drive.google.com/file/d/f1/view", 12).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkPublished(context.Background(), 12, "f1", "https://drive.google.com/file/d/f1/view")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueRepo_MarkPublished_NotFound(t *testing.T) {
	repo, mock := newIssueRepoMock(t)

	mock.ExpectExec(`UPDATE issues`).
		WithArgs(string(entity.IssueStatusPublished), "f1", "link", 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkPublished(context.Background(), 99, "f1", "link")
	assert.ErrorContains(t, err, "issue 99 not found")
}

func TestIssueRepo_Latest(t *testing.T) {
	repo, mock := newIssueRepoMock(t)

	publishedAt := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "issue_number", "title", "status", "item_count",
		"drive_file_id", "drive_link", "published_at", "created_at",
	}).AddRow(int64(7), 12, "AI Newsletter #12", "published", 13,
		"f1", "https://drive.google.com/file/d/f1/view", publishedAt, publishedAt)

	mock.ExpectQuery(`SELECT .+ FROM issues ORDER BY issue_number DESC`).WillReturnRows(rows)

	issue, err := repo.Latest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, issue)

	assert.Equal(t, 12, issue.IssueNumber)
	assert.Equal(t, entity.IssueStatusPublished, issue.Status)
	assert.Equal(t, "f1", issue.DriveFileID)
	require.NotNil(t, issue.PublishedAt)
	assert.Equal(t, publishedAt, *issue.PublishedAt)
}

func TestIssueRepo_Latest_EmptyArchive(t *testing.T) {
	repo, mock := newIssueRepoMock(t)

	mock.ExpectQuery(`SELECT .+ FROM issues ORDER BY issue_number DESC`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "issue_number", "title", "status", "item_count",
			"drive_file_id", "drive_link", "published_at", "created_at",
		}))

	issue, err := repo.Latest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, issue)
}

func TestIssueRepo_NextIssueNumber(t *testing.T) {
	repo, mock := newIssueRepoMock(t)

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(issue_number\), 0\) \+ 1 FROM issues`).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(13))

	next, err := repo.NextIssueNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 13, next)
}

func TestIssueRepo_List(t *testing.T) {
	repo, mock := newIssueRepoMock(t)

	createdAt := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "issue_number", "title", "status", "item_count",
		"drive_file_id", "drive_link", "published_at", "created_at",
	}).
		AddRow(int64(7), 12, "AI Newsletter #12", "published", 13, "f1", "link1", createdAt, createdAt).
		AddRow(int64(6), 11, "AI Newsletter #11", "draft", 10, nil, nil, nil, createdAt)

	mock.ExpectQuery(`SELECT .+ FROM issues`).WithArgs(20).WillReturnRows(rows)

	issues, err := repo.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, 12, issues[0].IssueNumber)
	assert.Equal(t, "", issues[1].DriveFileID)
	assert.Nil(t, issues[1].PublishedAt)
}
