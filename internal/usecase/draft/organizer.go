package draft

import (
	"log/slog"

	"newsletter-press/internal/config"
	"newsletter-press/internal/domain/entity"
)

// Organizer re-ranks section items and enforces section caps.
type Organizer struct {
	cfg config.NewsletterConfig
}

// NewOrganizer creates an organizer using the layout's keywords for scoring.
func NewOrganizer(cfg config.NewsletterConfig) *Organizer {
	return &Organizer{cfg: cfg}
}

// Organize returns a copy of the draft with every section stably re-sorted
// by score and capped at its limit. Overflow lands in draft metadata instead
// of disappearing. Organizing an already organized draft changes nothing:
// the sort is stable and the scorer is anchored at the draft's creation
// time, so a second pass sees the same ordering it produced.
func (o *Organizer) Organize(d *entity.Draft) *entity.Draft {
	scorer := NewScorer(o.cfg.Keywords, d.CreatedAt)

	out := cloneDraft(d)

	for si := range out.Sections {
		section := &out.Sections[si]
		scorer.SortStable(section.Items)

		if section.Limit > 0 && len(section.Items) > section.Limit {
			for _, dropped := range section.Items[section.Limit:] {
				out.Metadata.Dropped = append(out.Metadata.Dropped, entity.DroppedItem{
					Section: section.Name,
					Item:    dropped,
				})
			}
			section.Items = section.Items[:section.Limit:section.Limit]
		}
	}

	out.Metadata.Organized = true
	out.Recount()

	// The highlight may have been capped out of its section; re-point it at
	// the best surviving item if so.
	if out.BigStory != nil && out.FindItem(out.BigStory.Section, out.BigStory.URL) == nil {
		reselectBigStory(out, scorer)
	}

	if len(out.Metadata.Dropped) > 0 {
		slog.Info("section caps enforced",
			slog.Int("issue_number", out.IssueNumber),
			slog.Int("dropped", len(out.Metadata.Dropped)))
	}
	return out
}

// reselectBigStory picks the top surviving item, keeping any blurb the
// original highlight carried only if the item is unchanged.
func reselectBigStory(d *entity.Draft, scorer *Scorer) {
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
		d.BigStory = nil
		return
	}
	d.BigStory = &entity.BigStoryRef{
		Section: bestSection,
		URL:     best.URL,
		Title:   best.Title,
		Blurb:   best.Summary,
	}
}

// cloneDraft deep-copies the mutable parts of a draft so Organize never
// aliases its input.
func cloneDraft(d *entity.Draft) *entity.Draft {
	out := *d

	out.Sections = make([]entity.Section, len(d.Sections))
	for i, s := range d.Sections {
		cs := s
		cs.Items = append([]entity.ContentItem(nil), s.Items...)
		out.Sections[i] = cs
	}
	if d.BigStory != nil {
		ref := *d.BigStory
		out.BigStory = &ref
	}
	out.Counts = make(map[string]int, len(d.Counts))
	for k, v := range d.Counts {
		out.Counts[k] = v
	}
	out.Metadata.Dropped = append([]entity.DroppedItem(nil), d.Metadata.Dropped...)
	out.Metadata.SourceErrors = append([]*entity.SourceError(nil), d.Metadata.SourceErrors...)
	return &out
}
