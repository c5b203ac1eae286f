package draft

import (
	"context"
	"fmt"
	"testing"
	"time"

	"newsletter-press/internal/config"
	"newsletter-press/internal/domain/entity"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fetchTime = time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

func testBundle() *entity.ContentBundle {
	bundle := entity.NewContentBundle(fetchTime)
	bundle.Results[entity.SourceArxiv] = entity.SourceResult{Items: []entity.ContentItem{
		{Source: entity.SourceArxiv, Title: "Transformer Compression", URL: "https://arxiv.org/abs/1", Summary: "State of the art reasoning benchmark for compression", PublishedAt: fetchTime.Add(-24 * time.Hour)},
		{Source: entity.SourceArxiv, Title: "Old Benchmark Paper", URL: "https://arxiv.org/abs/2", Summary: "benchmarks", PublishedAt: fetchTime.Add(-6 * 24 * time.Hour)},
	}}
	bundle.Results[entity.SourceGitHub] = entity.SourceResult{Items: []entity.ContentItem{
		{Source: entity.SourceGitHub, Title: "acme/agent-kit", URL: "https://github.com/acme/agent-kit", Summary: "agent toolkit", PublishedAt: fetchTime.Add(-48 * time.Hour), Engagement: 4200},
	}}
	bundle.Results[entity.SourceProductHunt] = entity.SourceResult{Items: []entity.ContentItem{
		{Source: entity.SourceProductHunt, Title: "DraftPilot", URL: "https://producthunt.com/posts/draftpilot", Summary: "newsletter tool", PublishedAt: fetchTime.Add(-72 * time.Hour), Engagement: 512},
	}}
	bundle.Results[entity.SourceTwitter] = entity.SourceResult{
		Err: entity.NewSourceAuthError(entity.SourceTwitter, "no token"),
	}
	return bundle
}

func TestBuild_AssemblesSectionsFromLayout(t *testing.T) {
	builder := NewBuilder(config.DefaultNewsletterConfig(), nil)

	d, err := builder.Build(context.Background(), testBundle(), 12)
	require.NoError(t, err)

	assert.Equal(t, 12, d.IssueNumber)
	assert.Equal(t, "AI Newsletter #12", d.Title)
	assert.Equal(t, fetchTime, d.CreatedAt)
	require.Len(t, d.Sections, 4)

	papers := d.Section("top_papers")
	require.NotNil(t, papers)
	assert.Len(t, papers.Items, 2)
	assert.Nil(t, papers.FetchError)

	tweets := d.Section("tweets")
	require.NotNil(t, tweets)
	assert.Empty(t, tweets.Items)
	require.NotNil(t, tweets.FetchError)
	assert.Equal(t, entity.KindSourceAuth, tweets.FetchError.Kind)

	require.Len(t, d.Metadata.SourceErrors, 1)
	assert.Equal(t, entity.SourceTwitter, d.Metadata.SourceErrors[0].Source)
}

func TestBuild_CountsMatchSections(t *testing.T) {
	builder := NewBuilder(config.DefaultNewsletterConfig(), nil)

	d, err := builder.Build(context.Background(), testBundle(), 1)
	require.NoError(t, err)

	for _, s := range d.Sections {
		assert.Equal(t, len(s.Items), d.Counts[s.Name], "section %s", s.Name)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	builder := NewBuilder(config.DefaultNewsletterConfig(), nil)

	first, err := builder.Build(context.Background(), testBundle(), 12)
	require.NoError(t, err)
	second, err := builder.Build(context.Background(), testBundle(), 12)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second, cmpopts.IgnoreUnexported(entity.SourceError{})); diff != "" {
		t.Errorf("identical bundles produced different drafts:\n%s", diff)
	}
}

func TestBuild_SelectsBigStory(t *testing.T) {
	builder := NewBuilder(config.DefaultNewsletterConfig(), nil)

	d, err := builder.Build(context.Background(), testBundle(), 12)
	require.NoError(t, err)

	require.NotNil(t, d.BigStory)
	assert.NotNil(t, d.FindItem(d.BigStory.Section, d.BigStory.URL),
		"big story must reference an item present in the draft")

	// The fresh paper leads: recency dominates and arXiv has top priority.
	assert.Equal(t, "https://arxiv.org/abs/1", d.BigStory.URL)
	assert.Equal(t, "State of the art reasoning benchmark for compression", d.BigStory.Blurb)
}

type stubSummarizer struct {
	out string
	err error
}

func (s *stubSummarizer) Summarize(_ context.Context, _ string) (string, error) {
	return s.out, s.err
}

func TestBuild_BigStoryBlurbFromSummarizer(t *testing.T) {
	builder := NewBuilder(config.DefaultNewsletterConfig(), &stubSummarizer{out: "a tight teaser"})

	d, err := builder.Build(context.Background(), testBundle(), 12)
	require.NoError(t, err)

	require.NotNil(t, d.BigStory)
	assert.Equal(t, "a tight teaser", d.BigStory.Blurb)
}

func TestBuild_SummarizerFailureDowngrades(t *testing.T) {
	builder := NewBuilder(config.DefaultNewsletterConfig(), &stubSummarizer{err: fmt.Errorf("api down")})

	d, err := builder.Build(context.Background(), testBundle(), 12)
	require.NoError(t, err)

	require.NotNil(t, d.BigStory)
	assert.Equal(t, "State of the art reasoning benchmark for compression", d.BigStory.Blurb)
}

func TestBuild_EmptyBundleHasNoBigStory(t *testing.T) {
	builder := NewBuilder(config.DefaultNewsletterConfig(), nil)
	bundle := entity.NewContentBundle(fetchTime)

	d, err := builder.Build(context.Background(), bundle, 1)
	require.NoError(t, err)

	assert.Nil(t, d.BigStory)
	assert.Len(t, d.Sections, 4)
}

func TestBuild_RejectsNonPositiveIssueNumber(t *testing.T) {
	builder := NewBuilder(config.DefaultNewsletterConfig(), nil)

	_, err := builder.Build(context.Background(), testBundle(), 0)
	assert.Error(t, err)
}
