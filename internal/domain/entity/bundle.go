package entity

import "time"

// SourceResult holds one source's contribution to a bundle: the normalized
// items on success, or the classified failure on error. A source that
// succeeded with zero results has empty Items and a nil Err.
type SourceResult struct {
	Items []ContentItem `json:"items"`
	Err   *SourceError  `json:"error,omitempty"`
}

// Failed reports whether the source contributed an error instead of items.
func (r SourceResult) Failed() bool { return r.Err != nil }

// ContentBundle is the per-run aggregation result: one SourceResult per
// source tag plus the fetch timestamp. A bundle is built once per
// aggregation run and read-only afterward.
type ContentBundle struct {
	FetchedAt time.Time                  `json:"fetched_at"`
	Results   map[SourceTag]SourceResult `json:"results"`
}

// NewContentBundle returns an empty bundle stamped with the given fetch time.
func NewContentBundle(fetchedAt time.Time) *ContentBundle {
	return &ContentBundle{
		FetchedAt: fetchedAt,
		Results:   make(map[SourceTag]SourceResult, len(KnownSources)),
	}
}

// Items returns the items fetched for a tag, or nil if the source failed or
// was never fetched.
func (b *ContentBundle) Items(tag SourceTag) []ContentItem {
	return b.Results[tag].Items
}

// TotalItems counts items across all sources.
func (b *ContentBundle) TotalItems() int {
	n := 0
	for _, r := range b.Results {
		n += len(r.Items)
	}
	return n
}

// Errors returns the per-source failures in KnownSources order.
func (b *ContentBundle) Errors() []*SourceError {
	var errs []*SourceError
	for _, tag := range KnownSources {
		if r, ok := b.Results[tag]; ok && r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
