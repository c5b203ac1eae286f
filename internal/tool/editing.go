package tool

import (
	"context"
	"encoding/json"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/usecase/draft"
	"newsletter-press/internal/usecase/render"
	"newsletter-press/internal/usecase/validate"
)

// EditingDeps holds the collaborators behind the draft editing tools. These
// are pure transformations; the host assistant threads the draft record
// between calls.
type EditingDeps struct {
	Builder   *draft.Builder
	Organizer *draft.Organizer
	Validator *validate.Validator
}

// EditingTools returns the tools that shape research output into a draft.
func EditingTools(deps EditingDeps) []Tool {
	return []Tool{
		createDraftTool(deps),
		organizeSectionsTool(deps),
		validateContentTool(deps),
		previewTool(),
	}
}

type createDraftArgs struct {
	Research    *entity.ContentBundle `json:"research"`
	IssueNumber int                   `json:"issue_number"`
}

func createDraftTool(deps EditingDeps) Tool {
	return Tool{
		Name:        "create_newsletter_draft",
		Description: "Build a structured newsletter draft from a research bundle. The same bundle and issue number always produce the same draft.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"research": {"type": "object", "description": "Bundle returned by fetch_all_research"},
				"issue_number": {"type": "integer", "default": 1}
			},
			"required": ["research"]
		}`),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			args := createDraftArgs{IssueNumber: 1}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if args.Research == nil {
				return nil, BadRequest("research bundle is required")
			}
			if args.IssueNumber < 1 {
				return nil, BadRequest("issue_number must be at least 1")
			}
			return deps.Builder.Build(ctx, args.Research, args.IssueNumber)
		},
	}
}

type draftArgs struct {
	Draft *entity.Draft `json:"draft"`
}

// requireDraft decodes the common single-draft argument record.
func requireDraft(raw json.RawMessage) (*entity.Draft, error) {
	var args draftArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if args.Draft == nil {
		return nil, BadRequest("draft is required")
	}
	return args.Draft, nil
}

var draftSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"draft": {"type": "object", "description": "Draft returned by create_newsletter_draft"}
	},
	"required": ["draft"]
}`)

func organizeSectionsTool(deps EditingDeps) Tool {
	return Tool{
		Name:        "organize_content_sections",
		Description: "Sort each section by score and trim it to its cap. Overflow items are recorded in the draft metadata. Organizing twice changes nothing.",
		Schema:      draftSchema,
		Handler: func(_ context.Context, raw json.RawMessage) (any, error) {
			d, err := requireDraft(raw)
			if err != nil {
				return nil, err
			}
			return deps.Organizer.Organize(d), nil
		},
	}
}

func validateContentTool(deps EditingDeps) Tool {
	return Tool{
		Name:        "validate_newsletter_content",
		Description: "Check a draft against the publication rules and return every finding with its severity.",
		Schema:      draftSchema,
		Handler: func(_ context.Context, raw json.RawMessage) (any, error) {
			d, err := requireDraft(raw)
			if err != nil {
				return nil, err
			}
			return deps.Validator.Validate(d), nil
		},
	}
}

type previewResult struct {
	Preview   string `json:"preview"`
	WordCount int    `json:"word_count"`
}

func previewTool() Tool {
	return Tool{
		Name:        "preview_newsletter",
		Description: "Render a plain-text summary of a draft for quick review.",
		Schema:      draftSchema,
		Handler: func(_ context.Context, raw json.RawMessage) (any, error) {
			d, err := requireDraft(raw)
			if err != nil {
				return nil, err
			}
			text := render.Preview(d)
			return previewResult{Preview: text, WordCount: render.WordCount(text)}, nil
		},
	}
}
