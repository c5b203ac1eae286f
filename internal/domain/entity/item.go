// Package entity defines the core domain types for newsletter assembly:
// content items fetched from external sources, the per-run content bundle,
// newsletter drafts with their sections, validation reports, and the error
// taxonomy shared by adapters, the aggregation pipeline, and the publisher.
package entity

import "time"

// SourceTag identifies the external service a content item came from.
type SourceTag string

const (
	SourceArxiv       SourceTag = "arxiv"
	SourceGitHub      SourceTag = "github"
	SourceProductHunt SourceTag = "producthunt"
	SourceTwitter     SourceTag = "twitter"
)

// KnownSources lists every source tag in lexical order. Aggregation and
// bundle assembly iterate this slice so results are deterministic regardless
// of adapter completion order.
var KnownSources = []SourceTag{
	SourceArxiv,
	SourceGitHub,
	SourceProductHunt,
	SourceTwitter,
}

// ContentItem is the common shape every adapter normalizes its provider
// response into. An item is immutable once fetched: the pipeline copies
// items between bundle, sections, and drafts but never mutates them.
//
// The provider-specific fields (Authors, Stars, Votes, Likes, ...) are
// populated only by the adapter owning that provider and are zero for
// everything else. They round-trip through the JSON renderer unchanged.
type ContentItem struct {
	Source      SourceTag `json:"source"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at"`

	// Engagement is the provider's popularity signal (stars, votes, likes)
	// normalized by the adapter into a single comparable number.
	Engagement float64 `json:"engagement,omitempty"`

	// arXiv
	Authors    []string `json:"authors,omitempty"`
	Categories []string `json:"categories,omitempty"`
	PDFURL     string   `json:"pdf_url,omitempty"`

	// GitHub
	Stars    int      `json:"stars,omitempty"`
	Forks    int      `json:"forks,omitempty"`
	Language string   `json:"language,omitempty"`
	Topics   []string `json:"topics,omitempty"`

	// Product Hunt
	Votes   int    `json:"votes,omitempty"`
	Tagline string `json:"tagline,omitempty"`

	// Twitter
	Author   string `json:"author,omitempty"`
	Likes    int    `json:"likes,omitempty"`
	Retweets int    `json:"retweets,omitempty"`
}
