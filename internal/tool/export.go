package tool

import (
	"context"
	"encoding/json"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/infra/googleworkspace"
	"newsletter-press/internal/usecase/render"
)

// Uploader stores one file in the archive folder. Implemented by
// googleworkspace.DriveClient.
type Uploader interface {
	Upload(ctx context.Context, folderID, filename, mimeType, content string) (*googleworkspace.UploadResult, error)
}

// ExportDeps holds the collaborators behind the export tools. Uploader may
// be nil when Google credentials are not configured.
type ExportDeps struct {
	Renderer *render.Renderer
	Uploader Uploader
}

// ExportTools returns the tools that turn drafts into deliverables.
func ExportTools(deps ExportDeps) []Tool {
	return []Tool{
		generateHTMLTool(deps),
		exportTool(deps),
		saveToDriveTool(deps),
	}
}

type exportResult struct {
	Format   entity.Format `json:"format"`
	Content  string        `json:"content"`
	Filename string        `json:"filename"`
	Size     int           `json:"size"`
}

func generateHTMLTool(deps ExportDeps) Tool {
	return Tool{
		Name:        "generate_html_newsletter",
		Description: "Render a draft as email-client-safe HTML with inline styles.",
		Schema:      draftSchema,
		Handler: func(_ context.Context, raw json.RawMessage) (any, error) {
			d, err := requireDraft(raw)
			if err != nil {
				return nil, err
			}
			out, err := deps.Renderer.Render(d, entity.FormatHTML)
			if err != nil {
				return nil, err
			}
			return exportResult{Format: out.Format, Content: out.Content, Filename: out.Filename, Size: len(out.Content)}, nil
		},
	}
}

type exportArgs struct {
	Draft  *entity.Draft `json:"draft"`
	Format string        `json:"format"`
}

func exportTool(deps ExportDeps) Tool {
	return Tool{
		Name:        "export_newsletter",
		Description: "Export a draft as html, markdown, or json. The json export round-trips losslessly.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"draft": {"type": "object", "description": "Draft returned by create_newsletter_draft"},
				"format": {"type": "string", "enum": ["html", "markdown", "json"], "default": "html"}
			},
			"required": ["draft"]
		}`),
		Handler: func(_ context.Context, raw json.RawMessage) (any, error) {
			var args exportArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if args.Draft == nil {
				return nil, BadRequest("draft is required")
			}
			format, err := entity.ParseFormat(args.Format)
			if err != nil {
				return nil, BadRequest("%v", err)
			}
			out, err := deps.Renderer.Render(args.Draft, format)
			if err != nil {
				return nil, err
			}
			return exportResult{Format: out.Format, Content: out.Content, Filename: out.Filename, Size: len(out.Content)}, nil
		},
	}
}

type saveToDriveArgs struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
	FolderID string `json:"folder_id"`
	MIMEType string `json:"mime_type"`
}

func saveToDriveTool(deps ExportDeps) Tool {
	return Tool{
		Name:        "save_to_drive",
		Description: "Save rendered newsletter content to the Drive archive folder and return the file handle.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"content": {"type": "string", "description": "Rendered newsletter content"},
				"filename": {"type": "string"},
				"folder_id": {"type": "string", "description": "Drive folder override"},
				"mime_type": {"type": "string", "default": "text/html"}
			},
			"required": ["content", "filename"]
		}`),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args saveToDriveArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if args.Content == "" || args.Filename == "" {
				return nil, BadRequest("content and filename are required")
			}
			if deps.Uploader == nil {
				return nil, entity.NewSourceAuthError("google",
					"Google Drive not configured. Set GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, GOOGLE_REFRESH_TOKEN.")
			}
			return deps.Uploader.Upload(ctx, args.FolderID, args.Filename, args.MIMEType, args.Content)
		},
	}
}
