// Package draft turns an aggregated content bundle into a structured
// newsletter draft and organizes drafts into their final section order.
package draft

import (
	"context"
	"fmt"
	"log/slog"

	"newsletter-press/internal/config"
	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/observability/metrics"
)

// Summarizer condenses the big story into a teaser blurb. Optional: a nil
// summarizer leaves the blurb empty.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Builder assembles drafts from bundles according to the section layout.
type Builder struct {
	cfg        config.NewsletterConfig
	summarizer Summarizer
}

// NewBuilder creates a builder over the given layout. summarizer may be nil.
func NewBuilder(cfg config.NewsletterConfig, summarizer Summarizer) *Builder {
	return &Builder{cfg: cfg, summarizer: summarizer}
}

// Build assembles a draft from the bundle. The draft's creation time is the
// bundle's fetch timestamp, so building the same bundle twice yields the
// same draft. Sections follow the configured layout; a section whose source
// failed carries the fetch error and stays empty. The big story is the
// highest-scoring item across all sections.
func (b *Builder) Build(ctx context.Context, bundle *entity.ContentBundle, issueNumber int) (*entity.Draft, error) {
	if issueNumber < 1 {
		return nil, fmt.Errorf("issue number must be positive, got %d", issueNumber)
	}

	d := &entity.Draft{
		IssueNumber: issueNumber,
		Title:       fmt.Sprintf(b.cfg.TitleFormat, issueNumber),
		CreatedAt:   bundle.FetchedAt,
		Sections:    make([]entity.Section, 0, len(b.cfg.Sections)),
	}

	for _, layout := range b.cfg.Sections {
		tag := entity.SourceTag(layout.Source)
		result := bundle.Results[tag]

		section := entity.Section{
			Name:     layout.Name,
			Title:    layout.Title,
			Limit:    layout.Limit,
			Optional: layout.Optional,
		}
		if result.Failed() {
			section.FetchError = result.Err
			d.Metadata.SourceErrors = append(d.Metadata.SourceErrors, result.Err)
		} else {
			section.Items = append(section.Items, result.Items...)
		}
		d.Sections = append(d.Sections, section)
	}

	b.selectBigStory(ctx, d)
	d.Recount()

	metrics.RecordDraftBuilt()
	slog.Info("draft built",
		slog.Int("issue_number", issueNumber),
		slog.Int("items", totalItems(d)),
		slog.Int("source_errors", len(d.Metadata.SourceErrors)))

	return d, nil
}

// selectBigStory picks the single highest-scoring item across all sections
// and, when a summarizer is wired, condenses its summary into a blurb. A
// summarizer failure downgrades to the raw summary; the highlight is
// editorial garnish, never a reason to fail the build.
func (b *Builder) selectBigStory(ctx context.Context, d *entity.Draft) {
	scorer := NewScorer(b.cfg.Keywords, d.CreatedAt)

	var best *entity.ContentItem
	var bestSection string
	for si := range d.Sections {
		for ii := range d.Sections[si].Items {
			item := &d.Sections[si].Items[ii]
			if best == nil || scorer.Less(*item, *best) {
				best = item
				bestSection = d.Sections[si].Name
			}
		}
	}
	if best == nil {
		return
	}

	ref := &entity.BigStoryRef{
		Section: bestSection,
		URL:     best.URL,
		Title:   best.Title,
		Blurb:   best.Summary,
	}
	if b.summarizer != nil && best.Summary != "" {
		blurb, err := b.summarizer.Summarize(ctx, best.Title+"\n"+best.Summary)
		if err != nil {
			slog.Warn("big story blurb condensation failed, using raw summary",
				slog.String("url", best.URL),
				slog.String("error", err.Error()))
		} else {
			ref.Blurb = blurb
		}
	}
	d.BigStory = ref
}

func totalItems(d *entity.Draft) int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Items)
	}
	return n
}
