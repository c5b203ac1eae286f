package entity

import "time"

// Section is one named block of a newsletter draft. Items keep the order
// they arrived in until the organizer re-scores them.
type Section struct {
	Name  string `json:"name"`
	Title string `json:"title"`

	Items []ContentItem `json:"items"`

	// Limit caps how many items the organizer keeps; zero means unlimited.
	Limit int `json:"limit,omitempty"`

	// Optional sections may be empty without failing validation; they raise
	// a warning instead.
	Optional bool `json:"optional,omitempty"`

	// FetchError carries the upstream failure when the section's source
	// degraded to empty-with-error during aggregation.
	FetchError *SourceError `json:"fetch_error,omitempty"`
}

// BigStoryRef points at the single highlighted item of an issue. The item is
// identified by section name and URL rather than index so the reference
// survives organizer reordering.
type BigStoryRef struct {
	Section string `json:"section"`
	URL     string `json:"url"`
	Title   string `json:"title"`

	// Blurb is an optional condensed summary produced by the summarizer.
	Blurb string `json:"blurb,omitempty"`
}

// DroppedItem records an item the organizer removed when enforcing a section
// cap. Dropped items stay observable through draft metadata instead of
// silently disappearing.
type DroppedItem struct {
	Section string      `json:"section"`
	Item    ContentItem `json:"item"`
}

// DraftMetadata carries bookkeeping that is not rendered into the newsletter
// body but must survive export for observability.
type DraftMetadata struct {
	Dropped      []DroppedItem  `json:"dropped,omitempty"`
	SourceErrors []*SourceError `json:"source_errors,omitempty"`
	Organized    bool           `json:"organized,omitempty"`
}

// Draft is the structured, pre-render representation of one newsletter
// issue. CreatedAt is copied from the bundle's fetch timestamp so building
// the same bundle twice yields byte-identical drafts.
type Draft struct {
	IssueNumber int          `json:"issue_number"`
	Title       string       `json:"title"`
	CreatedAt   time.Time    `json:"created_at"`
	Sections    []Section    `json:"sections"`
	BigStory    *BigStoryRef `json:"big_story,omitempty"`

	// Counts maps section name to item count and must match section sizes.
	Counts map[string]int `json:"counts"`

	Metadata DraftMetadata `json:"metadata"`
}

// Section returns the named section, or nil if the draft has none.
func (d *Draft) Section(name string) *Section {
	for i := range d.Sections {
		if d.Sections[i].Name == name {
			return &d.Sections[i]
		}
	}
	return nil
}

// Recount rebuilds Counts from the current section sizes. Every operation
// that adds or drops items calls this before returning the draft.
func (d *Draft) Recount() {
	counts := make(map[string]int, len(d.Sections))
	for _, s := range d.Sections {
		counts[s.Name] = len(s.Items)
	}
	d.Counts = counts
}

// FindItem locates an item by section name and URL. Used by validation to
// check that the big story reference points into the draft.
func (d *Draft) FindItem(section, url string) *ContentItem {
	s := d.Section(section)
	if s == nil {
		return nil
	}
	for i := range s.Items {
		if s.Items[i].URL == url {
			return &s.Items[i]
		}
	}
	return nil
}
