package tool

import (
	"context"
	"testing"
	"time"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/infra/googleworkspace"
	"newsletter-press/internal/infra/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAggregator struct {
	window source.Window
	bundle *entity.ContentBundle
}

func (s *stubAggregator) FetchAll(_ context.Context, w source.Window) (*entity.ContentBundle, error) {
	s.window = w
	return s.bundle, nil
}

type stubTrending struct {
	language, timeframe, topic string
	maxItems                   int
	items                      []entity.ContentItem
	err                        error
}

func (s *stubTrending) FetchTrending(_ context.Context, language, timeframe, topic string, maxItems int) ([]entity.ContentItem, error) {
	s.language, s.timeframe, s.topic, s.maxItems = language, timeframe, topic, maxItems
	return s.items, s.err
}

type stubProducts struct {
	limit int
	items []entity.ContentItem
}

func (s *stubProducts) SearchProducts(_ context.Context, limit int) ([]entity.ContentItem, error) {
	s.limit = limit
	return s.items, nil
}

type stubTweets struct {
	hashtags []string
	minLikes int
	items    []entity.ContentItem
}

func (s *stubTweets) FetchTrends(_ context.Context, hashtags []string, minLikes int) ([]entity.ContentItem, error) {
	s.hashtags, s.minLikes = hashtags, minLikes
	return s.items, nil
}

type stubLister struct {
	folderID string
	count    int
	files    []googleworkspace.NewsletterFile
}

func (s *stubLister) ListNewsletters(_ context.Context, folderID string, count int) ([]googleworkspace.NewsletterFile, error) {
	s.folderID, s.count = folderID, count
	return s.files, nil
}

type stubScanner struct {
	daysBack int
	keywords []string
	summary  *googleworkspace.FeedbackSummary
}

func (s *stubScanner) ScanFeedback(_ context.Context, daysBack int, keywords []string) (*googleworkspace.FeedbackSummary, error) {
	s.daysBack, s.keywords = daysBack, keywords
	return s.summary, nil
}

type stubArchive struct {
	limit  int
	issues []*entity.Issue
}

func (s *stubArchive) Create(context.Context, *entity.Issue) error           { return nil }
func (s *stubArchive) MarkPublished(context.Context, int, string, string) error { return nil }
func (s *stubArchive) Latest(context.Context) (*entity.Issue, error)         { return nil, nil }
func (s *stubArchive) NextIssueNumber(context.Context) (int, error)          { return 1, nil }
func (s *stubArchive) List(_ context.Context, limit int) ([]*entity.Issue, error) {
	s.limit = limit
	return s.issues, nil
}

func TestFetchAllResearch_DefaultWindow(t *testing.T) {
	agg := &stubAggregator{bundle: entity.NewContentBundle(fixedNow())}
	tl := fetchAllResearchTool(ResearchDeps{Aggregator: agg, Now: fixedNow})

	result, err := dispatchOne(t, tl, `{}`)
	require.NoError(t, err)

	assert.Same(t, agg.bundle, result)
	assert.Equal(t, fixedNow().AddDate(0, 0, -7), agg.window.Since)
	assert.Equal(t, 10, agg.window.MaxItems)
}

func TestFetchAllResearch_CustomWindow(t *testing.T) {
	agg := &stubAggregator{bundle: entity.NewContentBundle(fixedNow())}
	tl := fetchAllResearchTool(ResearchDeps{Aggregator: agg, Now: fixedNow})

	_, err := dispatchOne(t, tl, `{"days_back": 3, "max_items": 5, "query": "cat:cs.CL"}`)
	require.NoError(t, err)

	assert.Equal(t, fixedNow().AddDate(0, 0, -3), agg.window.Since)
	assert.Equal(t, 5, agg.window.MaxItems)
	assert.Equal(t, "cat:cs.CL", agg.window.Query)
}

func TestFetchAllResearch_RejectsNonPositiveWindow(t *testing.T) {
	tl := fetchAllResearchTool(ResearchDeps{Aggregator: &stubAggregator{}, Now: fixedNow})

	_, err := dispatchOne(t, tl, `{"days_back": -1}`)

	var br *BadRequestError
	assert.ErrorAs(t, err, &br)
}

func TestSearchArxivPapers(t *testing.T) {
	arxiv := &stubWindowFetcher{items: []entity.ContentItem{
		{Source: entity.SourceArxiv, Title: "A Paper", URL: "https://arxiv.org/abs/2401.00001"},
	}}
	tl := searchArxivPapersTool(ResearchDeps{Arxiv: arxiv, Now: fixedNow})

	result, err := dispatchOne(t, tl, `{"query": "ti:transformers", "max_results": 4, "days_back": 2}`)
	require.NoError(t, err)

	got := result.(papersResult)
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "ti:transformers", got.Query)
	assert.Equal(t, "ti:transformers", arxiv.window.Query)
	assert.Equal(t, 4, arxiv.window.MaxItems)
	assert.Equal(t, fixedNow().AddDate(0, 0, -2), arxiv.window.Since)
}

func TestSearchArxivPapers_PropagatesSourceError(t *testing.T) {
	arxiv := &stubWindowFetcher{err: entity.NewSourceUnavailable(entity.SourceArxiv, assert.AnError)}
	tl := searchArxivPapersTool(ResearchDeps{Arxiv: arxiv, Now: fixedNow})

	_, err := dispatchOne(t, tl, `{}`)

	assert.Equal(t, entity.KindSourceUnavailable, NewErrorRecord(err).Kind)
}

func TestFetchGitHubTrending_Defaults(t *testing.T) {
	gh := &stubTrending{items: []entity.ContentItem{{Source: entity.SourceGitHub, Title: "acme/kit"}}}
	tl := fetchGitHubTrendingTool(ResearchDeps{GitHub: gh})

	result, err := dispatchOne(t, tl, `{}`)
	require.NoError(t, err)

	got := result.(reposResult)
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "python", gh.language)
	assert.Equal(t, "weekly", gh.timeframe)
	assert.Equal(t, "artificial-intelligence", gh.topic)
	assert.Equal(t, 10, gh.maxItems)
}

func TestSearchProductHunt(t *testing.T) {
	ph := &stubProducts{items: []entity.ContentItem{{Source: entity.SourceProductHunt, Title: "Launchy"}}}
	tl := searchProductHuntTool(ResearchDeps{ProductHunt: ph})

	result, err := dispatchOne(t, tl, `{"limit": 3}`)
	require.NoError(t, err)

	assert.Equal(t, 3, ph.limit)
	assert.Equal(t, 1, result.(productsResult).Count)
}

func TestFetchTwitterTrends(t *testing.T) {
	tw := &stubTweets{items: []entity.ContentItem{{Source: entity.SourceTwitter, Title: "big if true"}}}
	tl := fetchTwitterTrendsTool(ResearchDeps{Twitter: tw})

	result, err := dispatchOne(t, tl, `{"hashtags": ["AI", "LLM"], "min_likes": 250}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"AI", "LLM"}, tw.hashtags)
	assert.Equal(t, 250, tw.minLikes)
	assert.Equal(t, 1, result.(tweetsResult).Count)
}

func TestFetchPastNewsletters_Drive(t *testing.T) {
	drive := &stubLister{files: []googleworkspace.NewsletterFile{
		{ID: "f1", Title: "ai_newsletter_3.html"},
	}}
	tl := fetchPastNewslettersTool(ResearchDeps{Drive: drive})

	result, err := dispatchOne(t, tl, `{"folder_id": "folder-9", "count": 2}`)
	require.NoError(t, err)

	assert.Equal(t, "folder-9", drive.folderID)
	assert.Equal(t, 2, drive.count)
	assert.Equal(t, 1, result.(newslettersResult).Count)
}

func TestFetchPastNewsletters_ArchiveFallback(t *testing.T) {
	published := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	archive := &stubArchive{issues: []*entity.Issue{{
		IssueNumber: 3,
		Title:       "AI Newsletter #3",
		DriveFileID: "f3",
		DriveLink:   "https://drive.google.com/file/d/f3/view",
		CreatedAt:   published,
	}}}
	tl := fetchPastNewslettersTool(ResearchDeps{Issues: archive})

	result, err := dispatchOne(t, tl, `{"count": 5}`)
	require.NoError(t, err)

	got := result.(newslettersResult)
	assert.Equal(t, 5, archive.limit)
	require.Equal(t, 1, got.Count)
	assert.Equal(t, "AI Newsletter #3", got.Newsletters[0].Title)
	assert.Equal(t, "f3", got.Newsletters[0].ID)
	assert.Equal(t, published.Format(time.RFC3339), got.Newsletters[0].CreatedAt)
}

func TestFetchPastNewsletters_NothingConfigured(t *testing.T) {
	tl := fetchPastNewslettersTool(ResearchDeps{})

	_, err := dispatchOne(t, tl, `{}`)

	assert.Equal(t, entity.KindSourceAuth, NewErrorRecord(err).Kind)
}

func TestScanGmailFeedback(t *testing.T) {
	scanner := &stubScanner{summary: &googleworkspace.FeedbackSummary{TotalResponses: 2}}
	tl := scanGmailFeedbackTool(ResearchDeps{Gmail: scanner})

	result, err := dispatchOne(t, tl, `{"days_back": 14, "keywords": ["great"]}`)
	require.NoError(t, err)

	assert.Equal(t, 14, scanner.daysBack)
	assert.Equal(t, []string{"great"}, scanner.keywords)
	assert.Equal(t, 2, result.(*googleworkspace.FeedbackSummary).TotalResponses)
}

func TestScanGmailFeedback_NotConfigured(t *testing.T) {
	tl := scanGmailFeedbackTool(ResearchDeps{})

	_, err := dispatchOne(t, tl, `{}`)

	assert.Equal(t, entity.KindSourceAuth, NewErrorRecord(err).Kind)
}
