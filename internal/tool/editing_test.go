package tool

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"newsletter-press/internal/config"
	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/infra/googleworkspace"
	"newsletter-press/internal/usecase/draft"
	"newsletter-press/internal/usecase/render"
	"newsletter-press/internal/usecase/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editingDeps() EditingDeps {
	cfg := config.DefaultNewsletterConfig()
	return EditingDeps{
		Builder:   draft.NewBuilder(cfg, nil),
		Organizer: draft.NewOrganizer(cfg),
		Validator: validate.New(),
	}
}

func researchBundle() *entity.ContentBundle {
	bundle := entity.NewContentBundle(fixedNow())
	bundle.Results[entity.SourceArxiv] = entity.SourceResult{Items: []entity.ContentItem{{
		Source:      entity.SourceArxiv,
		Title:       "A Paper",
		URL:         "https://arxiv.org/abs/2401.00001",
		PublishedAt: fixedNow().Add(-24 * time.Hour),
	}}}
	return bundle
}

func bundleArgs(t *testing.T, bundle *entity.ContentBundle, issue int) string {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"research": bundle, "issue_number": issue})
	require.NoError(t, err)
	return string(raw)
}

func draftRecord(t *testing.T, d *entity.Draft) string {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"draft": d})
	require.NoError(t, err)
	return string(raw)
}

func builtDraft(t *testing.T) *entity.Draft {
	t.Helper()
	deps := editingDeps()
	d, err := deps.Builder.Build(context.Background(), researchBundle(), 4)
	require.NoError(t, err)
	return d
}

func TestCreateNewsletterDraft(t *testing.T) {
	tl := createDraftTool(editingDeps())

	result, err := dispatchOne(t, tl, bundleArgs(t, researchBundle(), 4))
	require.NoError(t, err)

	d := result.(*entity.Draft)
	assert.Equal(t, 4, d.IssueNumber)
	assert.Equal(t, "AI Newsletter #4", d.Title)
	assert.Equal(t, fixedNow(), d.CreatedAt)
}

func TestCreateNewsletterDraft_RequiresBundle(t *testing.T) {
	tl := createDraftTool(editingDeps())

	_, err := dispatchOne(t, tl, `{"issue_number": 1}`)

	var br *BadRequestError
	assert.ErrorAs(t, err, &br)
}

func TestCreateNewsletterDraft_RejectsZeroIssue(t *testing.T) {
	tl := createDraftTool(editingDeps())

	_, err := dispatchOne(t, tl, bundleArgs(t, researchBundle(), 0))

	var br *BadRequestError
	assert.ErrorAs(t, err, &br)
}

func TestOrganizeContentSections(t *testing.T) {
	tl := organizeSectionsTool(editingDeps())
	d := builtDraft(t)

	result, err := dispatchOne(t, tl, draftRecord(t, d))
	require.NoError(t, err)

	organized := result.(*entity.Draft)
	assert.True(t, organized.Metadata.Organized)
	assert.False(t, d.Metadata.Organized, "input draft must not be mutated")
}

func TestValidateNewsletterContent(t *testing.T) {
	tl := validateContentTool(editingDeps())

	result, err := dispatchOne(t, tl, draftRecord(t, builtDraft(t)))
	require.NoError(t, err)

	report := result.(entity.ValidationReport)
	assert.NotEmpty(t, report.Findings, "empty optional sections produce warnings")
}

func TestValidateNewsletterContent_RequiresDraft(t *testing.T) {
	tl := validateContentTool(editingDeps())

	_, err := dispatchOne(t, tl, `{}`)

	var br *BadRequestError
	assert.ErrorAs(t, err, &br)
}

func TestPreviewNewsletter(t *testing.T) {
	tl := previewTool()

	result, err := dispatchOne(t, tl, draftRecord(t, builtDraft(t)))
	require.NoError(t, err)

	got := result.(previewResult)
	assert.Contains(t, got.Preview, "AI Newsletter #4")
	assert.Greater(t, got.WordCount, 0)
}

func TestGenerateHTMLNewsletter(t *testing.T) {
	tl := generateHTMLTool(ExportDeps{Renderer: render.New()})

	result, err := dispatchOne(t, tl, draftRecord(t, builtDraft(t)))
	require.NoError(t, err)

	got := result.(exportResult)
	assert.Equal(t, entity.FormatHTML, got.Format)
	assert.Equal(t, "ai_newsletter_4.html", got.Filename)
	assert.Contains(t, got.Content, "AI Newsletter #4")
	assert.Equal(t, len(got.Content), got.Size)
}

func TestExportNewsletter_Markdown(t *testing.T) {
	tl := exportTool(ExportDeps{Renderer: render.New()})

	raw, err := json.Marshal(map[string]any{"draft": builtDraft(t), "format": "markdown"})
	require.NoError(t, err)

	result, err := dispatchOne(t, tl, string(raw))
	require.NoError(t, err)

	got := result.(exportResult)
	assert.Equal(t, entity.FormatMarkdown, got.Format)
	assert.Equal(t, "ai_newsletter_4.md", got.Filename)
}

func TestExportNewsletter_RejectsUnknownFormat(t *testing.T) {
	tl := exportTool(ExportDeps{Renderer: render.New()})

	raw, err := json.Marshal(map[string]any{"draft": builtDraft(t), "format": "pdf"})
	require.NoError(t, err)

	_, err = dispatchOne(t, tl, string(raw))

	var br *BadRequestError
	assert.ErrorAs(t, err, &br)
}

type stubUploader struct {
	folderID, filename, mimeType, content string
}

func (s *stubUploader) Upload(_ context.Context, folderID, filename, mimeType, content string) (*googleworkspace.UploadResult, error) {
	s.folderID, s.filename, s.mimeType, s.content = folderID, filename, mimeType, content
	return &googleworkspace.UploadResult{FileID: "f1", URL: "https://drive.google.com/file/d/f1/view", Filename: filename}, nil
}

func TestSaveToDrive(t *testing.T) {
	uploader := &stubUploader{}
	tl := saveToDriveTool(ExportDeps{Uploader: uploader})

	result, err := dispatchOne(t, tl, `{"content": "<html></html>", "filename": "ai_newsletter_4.html"}`)
	require.NoError(t, err)

	assert.Equal(t, "ai_newsletter_4.html", uploader.filename)
	assert.Equal(t, "<html></html>", uploader.content)
	assert.Equal(t, "f1", result.(*googleworkspace.UploadResult).FileID)
}

func TestSaveToDrive_RequiresContentAndFilename(t *testing.T) {
	tl := saveToDriveTool(ExportDeps{Uploader: &stubUploader{}})

	_, err := dispatchOne(t, tl, `{"filename": "x.html"}`)

	var br *BadRequestError
	assert.ErrorAs(t, err, &br)
}

func TestSaveToDrive_NotConfigured(t *testing.T) {
	tl := saveToDriveTool(ExportDeps{})

	_, err := dispatchOne(t, tl, `{"content": "<html></html>", "filename": "x.html"}`)

	assert.Equal(t, entity.KindSourceAuth, NewErrorRecord(err).Kind)
}
