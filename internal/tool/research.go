package tool

import (
	"context"
	"encoding/json"
	"time"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/infra/googleworkspace"
	"newsletter-press/internal/infra/source"
	"newsletter-press/internal/repository"
)

// Aggregator runs the fan-out fetch across every configured source.
type Aggregator interface {
	FetchAll(ctx context.Context, w source.Window) (*entity.ContentBundle, error)
}

// PaperSearcher is the arXiv adapter surface: a window carries the query,
// the item cap, and the publication cutoff.
type PaperSearcher interface {
	Fetch(ctx context.Context, w source.Window) ([]entity.ContentItem, error)
}

// TrendingFetcher is the GitHub adapter surface.
type TrendingFetcher interface {
	FetchTrending(ctx context.Context, language, timeframe, topic string, maxItems int) ([]entity.ContentItem, error)
}

// ProductSearcher is the Product Hunt adapter surface.
type ProductSearcher interface {
	SearchProducts(ctx context.Context, limit int) ([]entity.ContentItem, error)
}

// TweetFetcher is the Twitter adapter surface.
type TweetFetcher interface {
	FetchTrends(ctx context.Context, hashtags []string, minLikes int) ([]entity.ContentItem, error)
}

// ArchiveLister lists past newsletters from the Drive folder.
type ArchiveLister interface {
	ListNewsletters(ctx context.Context, folderID string, count int) ([]googleworkspace.NewsletterFile, error)
}

// FeedbackScanner scans the mailbox for reader feedback.
type FeedbackScanner interface {
	ScanFeedback(ctx context.Context, daysBack int, keywords []string) (*googleworkspace.FeedbackSummary, error)
}

// ResearchDeps holds the collaborators behind the research tools. Drive and
// Gmail may be nil when Google credentials are not configured; Issues backs
// fetch_past_newsletters when Drive is absent.
type ResearchDeps struct {
	Aggregator  Aggregator
	Arxiv       PaperSearcher
	GitHub      TrendingFetcher
	ProductHunt ProductSearcher
	Twitter     TweetFetcher
	Drive       ArchiveLister
	Gmail       FeedbackScanner
	Issues      repository.IssueRepository

	Now func() time.Time
}

func (d ResearchDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// ResearchTools returns the tools that gather newsletter raw material.
func ResearchTools(deps ResearchDeps) []Tool {
	return []Tool{
		fetchAllResearchTool(deps),
		searchArxivPapersTool(deps),
		fetchGitHubTrendingTool(deps),
		searchProductHuntTool(deps),
		fetchTwitterTrendsTool(deps),
		fetchPastNewslettersTool(deps),
		scanGmailFeedbackTool(deps),
	}
}

type fetchAllArgs struct {
	DaysBack int    `json:"days_back"`
	MaxItems int    `json:"max_items"`
	Query    string `json:"query"`
}

func fetchAllResearchTool(deps ResearchDeps) Tool {
	return Tool{
		Name:        "fetch_all_research",
		Description: "Fetch content from every configured source in one run. Per-source failures are reported inline; the remaining sources still contribute.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"days_back": {"type": "integer", "description": "Content published in the last N days", "default": 7},
				"max_items": {"type": "integer", "description": "Item cap per source", "default": 10},
				"query": {"type": "string", "description": "arXiv search query override"}
			}
		}`),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			args := fetchAllArgs{DaysBack: 7, MaxItems: 10}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if args.DaysBack <= 0 || args.MaxItems <= 0 {
				return nil, BadRequest("days_back and max_items must be positive")
			}

			w := source.Window{
				Since:    deps.now().AddDate(0, 0, -args.DaysBack),
				MaxItems: args.MaxItems,
				Query:    args.Query,
			}
			return deps.Aggregator.FetchAll(ctx, w)
		},
	}
}

type searchArxivArgs struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
	DaysBack   int    `json:"days_back"`
}

type papersResult struct {
	Count  int                  `json:"count"`
	Papers []entity.ContentItem `json:"papers"`
	Query  string               `json:"query"`
}

func searchArxivPapersTool(deps ResearchDeps) Tool {
	return Tool{
		Name:        "search_arxiv_papers",
		Description: "Search arXiv for recent AI research papers. Supports arXiv query syntax (cat:, ti:, abs:, au:, all:).",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Search query; defaults to the cs.AI category"},
				"max_results": {"type": "integer", "default": 10},
				"days_back": {"type": "integer", "default": 7}
			}
		}`),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			args := searchArxivArgs{MaxResults: 10, DaysBack: 7}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if args.MaxResults <= 0 || args.DaysBack <= 0 {
				return nil, BadRequest("max_results and days_back must be positive")
			}

			papers, err := deps.Arxiv.Fetch(ctx, source.Window{
				Since:    deps.now().AddDate(0, 0, -args.DaysBack),
				MaxItems: args.MaxResults,
				Query:    args.Query,
			})
			if err != nil {
				return nil, err
			}
			return papersResult{Count: len(papers), Papers: papers, Query: args.Query}, nil
		},
	}
}

type githubArgs struct {
	Language  string `json:"language"`
	Timeframe string `json:"timeframe"`
	Topic     string `json:"topic"`
	MaxItems  int    `json:"max_items"`
}

type reposResult struct {
	Count        int                  `json:"count"`
	Repositories []entity.ContentItem `json:"repositories"`
	Language     string               `json:"language"`
	Timeframe    string               `json:"timeframe"`
}

func fetchGitHubTrendingTool(deps ResearchDeps) Tool {
	return Tool{
		Name:        "fetch_github_trending",
		Description: "Fetch trending AI repositories from GitHub, via the search API when a token is configured and the trending page otherwise.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"language": {"type": "string", "default": "python"},
				"timeframe": {"type": "string", "enum": ["daily", "weekly", "monthly"], "default": "weekly"},
				"topic": {"type": "string", "default": "artificial-intelligence"},
				"max_items": {"type": "integer", "default": 10}
			}
		}`),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			args := githubArgs{Language: "python", Timeframe: "weekly", Topic: "artificial-intelligence", MaxItems: 10}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if args.MaxItems <= 0 {
				return nil, BadRequest("max_items must be positive")
			}

			repos, err := deps.GitHub.FetchTrending(ctx, args.Language, args.Timeframe, args.Topic, args.MaxItems)
			if err != nil {
				return nil, err
			}
			return reposResult{Count: len(repos), Repositories: repos, Language: args.Language, Timeframe: args.Timeframe}, nil
		},
	}
}

type productHuntArgs struct {
	Limit int `json:"limit"`
}

type productsResult struct {
	Count    int                  `json:"count"`
	Products []entity.ContentItem `json:"products"`
}

func searchProductHuntTool(deps ResearchDeps) Tool {
	return Tool{
		Name:        "search_product_hunt",
		Description: "Fetch top AI product launches from Product Hunt, ordered by votes.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "integer", "default": 10}
			}
		}`),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			args := productHuntArgs{Limit: 10}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if args.Limit <= 0 {
				return nil, BadRequest("limit must be positive")
			}

			products, err := deps.ProductHunt.SearchProducts(ctx, args.Limit)
			if err != nil {
				return nil, err
			}
			return productsResult{Count: len(products), Products: products}, nil
		},
	}
}

type twitterArgs struct {
	Hashtags []string `json:"hashtags"`
	MinLikes int      `json:"min_likes"`
}

type tweetsResult struct {
	Count    int                  `json:"count"`
	Tweets   []entity.ContentItem `json:"tweets"`
	Hashtags []string             `json:"hashtags"`
}

func fetchTwitterTrendsTool(deps ResearchDeps) Tool {
	return Tool{
		Name:        "fetch_twitter_trends",
		Description: "Fetch viral AI-related tweets above a like threshold, ranked by engagement.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"hashtags": {"type": "array", "items": {"type": "string"}},
				"min_likes": {"type": "integer", "default": 100}
			}
		}`),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			args := twitterArgs{MinLikes: 100}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if args.MinLikes < 0 {
				return nil, BadRequest("min_likes must not be negative")
			}

			tweets, err := deps.Twitter.FetchTrends(ctx, args.Hashtags, args.MinLikes)
			if err != nil {
				return nil, err
			}
			return tweetsResult{Count: len(tweets), Tweets: tweets, Hashtags: args.Hashtags}, nil
		},
	}
}

type pastNewslettersArgs struct {
	FolderID string `json:"folder_id"`
	Count    int    `json:"count"`
}

type newslettersResult struct {
	Count       int                              `json:"count"`
	Newsletters []googleworkspace.NewsletterFile `json:"newsletters"`
}

func fetchPastNewslettersTool(deps ResearchDeps) Tool {
	return Tool{
		Name:        "fetch_past_newsletters",
		Description: "List recent past newsletters from the Drive archive folder, newest first. Falls back to the local issue archive when Drive is not configured.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"folder_id": {"type": "string", "description": "Drive folder override"},
				"count": {"type": "integer", "default": 5}
			}
		}`),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			args := pastNewslettersArgs{Count: 5}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if args.Count <= 0 {
				return nil, BadRequest("count must be positive")
			}

			if deps.Drive != nil {
				files, err := deps.Drive.ListNewsletters(ctx, args.FolderID, args.Count)
				if err != nil {
					return nil, err
				}
				return newslettersResult{Count: len(files), Newsletters: files}, nil
			}
			return listArchivedIssues(ctx, deps, args.Count)
		},
	}
}

// listArchivedIssues serves past newsletters from the local archive when no
// Drive client is wired.
func listArchivedIssues(ctx context.Context, deps ResearchDeps, count int) (any, error) {
	if deps.Issues == nil {
		return nil, entity.NewSourceAuthError("google",
			"Google Drive not configured and no local archive available. Set GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, GOOGLE_REFRESH_TOKEN.")
	}

	issues, err := deps.Issues.List(ctx, count)
	if err != nil {
		return nil, err
	}
	files := make([]googleworkspace.NewsletterFile, 0, len(issues))
	for _, issue := range issues {
		files = append(files, googleworkspace.NewsletterFile{
			ID:        issue.DriveFileID,
			Title:     issue.Title,
			CreatedAt: issue.CreatedAt.Format(time.RFC3339),
			DriveLink: issue.DriveLink,
		})
	}
	return newslettersResult{Count: len(files), Newsletters: files}, nil
}

type gmailArgs struct {
	DaysBack int      `json:"days_back"`
	Keywords []string `json:"keywords"`
}

func scanGmailFeedbackTool(deps ResearchDeps) Tool {
	return Tool{
		Name:        "scan_gmail_feedback",
		Description: "Scan the Gmail inbox for recent newsletter reader feedback.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"days_back": {"type": "integer", "default": 7},
				"keywords": {"type": "array", "items": {"type": "string"}}
			}
		}`),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			args := gmailArgs{DaysBack: 7}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if args.DaysBack <= 0 {
				return nil, BadRequest("days_back must be positive")
			}
			if deps.Gmail == nil {
				return nil, entity.NewSourceAuthError("google",
					"Gmail not configured. Set GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, GOOGLE_REFRESH_TOKEN.")
			}
			return deps.Gmail.ScanFeedback(ctx, args.DaysBack, args.Keywords)
		},
	}
}
