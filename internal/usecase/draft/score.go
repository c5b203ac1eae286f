package draft

import (
	"math"
	"sort"
	"strings"
	"time"

	"newsletter-press/internal/domain/entity"
)

// Scoring weights. Recency dominates because the newsletter is a weekly
// digest; source priority reflects editorial trust; keyword hits and raw
// engagement break the remaining ties.
const (
	weightRecency    = 0.5
	weightPriority   = 0.3
	weightKeywords   = 0.1
	weightEngagement = 0.1

	// recencyHalfLife is the age at which the recency component halves.
	recencyHalfLife = 3 * 24 * time.Hour

	// engagementScale normalizes raw engagement into (0,1); an item at the
	// scale value scores 0.5 on the engagement component.
	engagementScale = 500.0
)

// sourcePriority ranks sources editorially: papers over repos over launches
// over tweets.
var sourcePriority = map[entity.SourceTag]float64{
	entity.SourceArxiv:       0.9,
	entity.SourceGitHub:      0.8,
	entity.SourceProductHunt: 0.6,
	entity.SourceTwitter:     0.4,
}

// Scorer computes item scores for big-story selection and section ranking.
// The score is a pure function of the item and the reference time, so the
// same bundle always produces the same ordering.
type Scorer struct {
	keywords []string
	refTime  time.Time
}

// NewScorer creates a scorer anchored at the reference time (the bundle's
// fetch timestamp) with the configured boost keywords.
func NewScorer(keywords []string, refTime time.Time) *Scorer {
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return &Scorer{keywords: lowered, refTime: refTime}
}

// Score returns the item's composite score in [0, 1].
func (s *Scorer) Score(item entity.ContentItem) float64 {
	return weightRecency*s.recency(item) +
		weightPriority*sourcePriority[item.Source] +
		weightKeywords*s.keywordHits(item) +
		weightEngagement*s.engagement(item)
}

// recency decays exponentially with age; items newer than the reference
// time clamp to 1.
func (s *Scorer) recency(item entity.ContentItem) float64 {
	if item.PublishedAt.IsZero() {
		return 0
	}
	age := s.refTime.Sub(item.PublishedAt)
	if age <= 0 {
		return 1
	}
	return math.Exp2(-float64(age) / float64(recencyHalfLife))
}

// keywordHits is the fraction of configured keywords present in the title
// or summary, capped at 1 once three keywords match.
func (s *Scorer) keywordHits(item entity.ContentItem) float64 {
	if len(s.keywords) == 0 {
		return 0
	}
	text := strings.ToLower(item.Title + " " + item.Summary + " " + item.Tagline)
	hits := 0
	for _, k := range s.keywords {
		if strings.Contains(text, k) {
			hits++
		}
	}
	const saturation = 3
	if hits > saturation {
		hits = saturation
	}
	return float64(hits) / saturation
}

// engagement squashes the provider's raw popularity signal into (0, 1).
func (s *Scorer) engagement(item entity.ContentItem) float64 {
	if item.Engagement <= 0 {
		return 0
	}
	return item.Engagement / (item.Engagement + engagementScale)
}

// Less orders items for ranking: higher score first; ties go to the earlier
// timestamp, then to the lexically smaller source tag. The tie-break keeps
// output deterministic for identical inputs.
func (s *Scorer) Less(a, b entity.ContentItem) bool {
	sa, sb := s.Score(a), s.Score(b)
	if sa != sb {
		return sa > sb
	}
	if !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.Before(b.PublishedAt)
	}
	return a.Source < b.Source
}

// SortStable sorts items in place by rank, preserving incoming order for
// fully tied items.
func (s *Scorer) SortStable(items []entity.ContentItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return s.Less(items[i], items[j])
	})
}
