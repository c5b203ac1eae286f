// Package render turns validated drafts into deliverable formats: inline-CSS
// HTML for mail clients, Markdown, a lossless JSON export, and a plain-text
// preview for quick review.
package render

import (
	"fmt"

	"newsletter-press/internal/domain/entity"
)

// Renderer dispatches a draft to the requested format backend.
type Renderer struct{}

// New creates a Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render produces the draft in the given format. The filename encodes the
// issue number and the format's extension.
func (r *Renderer) Render(d *entity.Draft, format entity.Format) (*entity.RenderedOutput, error) {
	var content string
	var err error

	switch format {
	case entity.FormatHTML:
		content, err = renderHTML(d)
	case entity.FormatMarkdown:
		content = renderMarkdown(d)
	case entity.FormatJSON:
		content, err = renderJSON(d)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	return &entity.RenderedOutput{
		Format:   format,
		Content:  content,
		Filename: Filename(d.IssueNumber, format),
	}, nil
}

// Filename is the canonical name for a rendered issue.
func Filename(issueNumber int, format entity.Format) string {
	return fmt.Sprintf("ai_newsletter_%d%s", issueNumber, format.Extension())
}
