package googleworkspace

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/resilience/retry"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// NewsletterFile is one past issue stored in the Drive folder.
type NewsletterFile struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"date"`
	DriveLink string `json:"drive_link"`
}

// UploadResult is the handle to a freshly stored newsletter.
type UploadResult struct {
	FileID   string `json:"file_id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// DriveClient stores rendered newsletters in a Drive folder and lists the
// issues already there.
type DriveClient struct {
	service  *drive.Service
	folderID string
}

// NewDriveClient builds a Drive client on the authenticated HTTP client.
// folderID is the default folder; per-call overrides take precedence.
// Extra options are for tests (endpoint overrides).
func NewDriveClient(ctx context.Context, client *http.Client, folderID string, opts ...option.ClientOption) (*DriveClient, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &DriveClient{service: svc, folderID: folderID}, nil
}

// ListNewsletters returns up to count past newsletter files in the folder,
// newest first. An empty folderID falls back to the configured default.
func (d *DriveClient) ListNewsletters(ctx context.Context, folderID string, count int) ([]NewsletterFile, error) {
	folderID, err := d.resolveFolder(folderID)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = 5
	}

	query := fmt.Sprintf("'%s' in parents and mimeType='text/html'", escapeDriveQuery(folderID))
	resp, err := d.service.Files.List().
		Q(query).
		PageSize(int64(count)).
		OrderBy("createdTime desc").
		Fields("files(id, name, createdTime, description)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list newsletter files: %w", asHTTPError(err))
	}

	files := make([]NewsletterFile, 0, len(resp.Files))
	for _, f := range resp.Files {
		files = append(files, NewsletterFile{
			ID:        f.Id,
			Title:     f.Name,
			CreatedAt: f.CreatedTime,
			DriveLink: fmt.Sprintf("https://drive.google.com/file/d/%s/view", f.Id),
		})
	}
	return files, nil
}

// Upload stores content under filename in the folder and returns the file id
// and browser link.
func (d *DriveClient) Upload(ctx context.Context, folderID, filename, mimeType, content string) (*UploadResult, error) {
	folderID, err := d.resolveFolder(folderID)
	if err != nil {
		return nil, err
	}
	if mimeType == "" {
		mimeType = "text/html"
	}

	meta := &drive.File{
		Name:     filename,
		Parents:  []string{folderID},
		MimeType: mimeType,
	}
	created, err := d.service.Files.Create(meta).
		Media(strings.NewReader(content)).
		Fields("id, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, asHTTPError(err))
	}

	return &UploadResult{FileID: created.Id, URL: created.WebViewLink, Filename: filename}, nil
}

func (d *DriveClient) resolveFolder(folderID string) (string, error) {
	if folderID != "" {
		return folderID, nil
	}
	if d.folderID == "" {
		return "", entity.NewSourceAuthError(workspaceSource,
			"No folder ID provided. Set NEWSLETTER_FOLDER_ID.")
	}
	return d.folderID, nil
}

// escapeDriveQuery escapes single quotes in values interpolated into a Drive
// query expression.
func escapeDriveQuery(v string) string {
	return strings.ReplaceAll(v, `'`, `\'`)
}

// asHTTPError rewrites a googleapi status error so retry classification can
// read the status code. Other errors pass through unchanged.
func asHTTPError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &retry.HTTPError{StatusCode: gerr.Code, Message: gerr.Message}
	}
	return err
}
