package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/resilience/circuitbreaker"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"
)

const (
	githubAPIBaseURL      = "https://api.github.com"
	githubTrendingBaseURL = "https://github.com"
	githubDefaultLanguage = "python"
	githubDefaultTopic    = "artificial-intelligence"
	githubMaxTopics       = 5
)

// Timeframe names accepted by FetchTrending, mapped to a created-after
// cutoff in days.
var githubTimeframes = map[string]int{
	"daily":   1,
	"weekly":  7,
	"monthly": 30,
}

// githubSearchResponse is the subset of the repository search payload the
// adapter consumes.
type githubSearchResponse struct {
	Items []githubRepo `json:"items"`
}

type githubRepo struct {
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Description string   `json:"description"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	HTMLURL     string   `json:"html_url"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	CreatedAt   string   `json:"created_at"`
}

// GitHubAdapter fetches trending repositories. With a token it uses the
// authenticated search API; without one it scrapes the public trending page,
// which has no topic filter but also no rate ceiling worth worrying about.
type GitHubAdapter struct {
	client          *http.Client
	token           string
	apiBaseURL      string
	trendingBaseURL string
	circuitBreaker  *circuitbreaker.CircuitBreaker
	now             func() time.Time
}

// NewGitHubAdapter creates an adapter. An empty token switches the adapter
// to the unauthenticated trending-page scrape.
func NewGitHubAdapter(client *http.Client, token string) *GitHubAdapter {
	return &GitHubAdapter{
		client:          client,
		token:           token,
		apiBaseURL:      githubAPIBaseURL,
		trendingBaseURL: githubTrendingBaseURL,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.SourceFetchConfig(string(entity.SourceGitHub))),
		now:             time.Now,
	}
}

// Tag reports the source this adapter owns.
func (g *GitHubAdapter) Tag() entity.SourceTag { return entity.SourceGitHub }

// Fetch returns trending repositories for the window. The window length
// picks the closest timeframe bucket.
func (g *GitHubAdapter) Fetch(ctx context.Context, w Window) ([]entity.ContentItem, error) {
	timeframe := timeframeFor(g.now().Sub(w.Since))
	return g.FetchTrending(ctx, githubDefaultLanguage, timeframe, githubDefaultTopic, w.MaxItems)
}

// FetchTrending returns repositories created in the timeframe, sorted by
// stars. Language and topic narrow the search; empty values take defaults.
func (g *GitHubAdapter) FetchTrending(ctx context.Context, language, timeframe, topic string, maxItems int) ([]entity.ContentItem, error) {
	if language == "" {
		language = githubDefaultLanguage
	}
	if topic == "" {
		topic = githubDefaultTopic
	}
	days, ok := githubTimeframes[timeframe]
	if !ok {
		days = githubTimeframes["weekly"]
	}
	if maxItems <= 0 {
		maxItems = 10
	}

	cbResult, err := g.circuitBreaker.Execute(func() (interface{}, error) {
		if g.token == "" {
			return g.scrapeTrending(ctx, language, timeframe, maxItems)
		}
		return g.searchRepositories(ctx, language, topic, days, maxItems)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("github circuit breaker open, request rejected",
				slog.String("source", string(entity.SourceGitHub)),
				slog.String("state", g.circuitBreaker.State().String()))
		}
		return nil, classify(entity.SourceGitHub, err)
	}

	return cbResult.([]entity.ContentItem), nil
}

// searchRepositories queries the authenticated repository search API.
func (g *GitHubAdapter) searchRepositories(ctx context.Context, language, topic string, days, maxItems int) ([]entity.ContentItem, error) {
	cutoff := g.now().AddDate(0, 0, -days).Format("2006-01-02")

	params := url.Values{}
	params.Set("q", fmt.Sprintf("language:%s created:>%s topic:%s", language, cutoff, topic))
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(maxItems))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiBaseURL+"/search/repositories?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Authorization", "token "+g.token)

	body, err := doJSON(g.client, req)
	if err != nil {
		return nil, err
	}

	var decoded githubSearchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	items := make([]entity.ContentItem, 0, len(decoded.Items))
	for _, repo := range decoded.Items {
		topics := repo.Topics
		if len(topics) > githubMaxTopics {
			topics = topics[:githubMaxTopics]
		}
		createdAt, _ := time.Parse(time.RFC3339, repo.CreatedAt)
		items = append(items, entity.ContentItem{
			Source:      entity.SourceGitHub,
			Title:       repo.FullName,
			URL:         repo.HTMLURL,
			Summary:     repo.Description,
			PublishedAt: createdAt,
			Engagement:  float64(repo.Stars),
			Stars:       repo.Stars,
			Forks:       repo.Forks,
			Language:    repo.Language,
			Topics:      topics,
		})
	}
	return items, nil
}

// scrapeTrending parses the public trending page. The page carries no topic
// metadata and no creation dates, so PublishedAt is the scrape time.
func (g *GitHubAdapter) scrapeTrending(ctx context.Context, language, timeframe string, maxItems int) ([]entity.ContentItem, error) {
	pageURL := fmt.Sprintf("%s/trending/%s?since=%s", g.trendingBaseURL, url.PathEscape(language), url.QueryEscape(timeframe))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "newsletter-press")

	body, err := doJSON(g.client, req)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse trending page: %w", err)
	}

	scrapedAt := g.now()
	items := make([]entity.ContentItem, 0, maxItems)
	doc.Find("article.Box-row").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		repoPath := strings.TrimPrefix(strings.TrimSpace(s.Find("h2 a").AttrOr("href", "")), "/")
		if repoPath == "" {
			return true
		}
		fullName := strings.Join(strings.Fields(repoPath), "")
		description := strings.TrimSpace(s.Find("p").First().Text())
		lang := strings.TrimSpace(s.Find("[itemprop=programmingLanguage]").Text())
		stars := parseStarCount(s.Find("a[href$='/stargazers']").First().Text())

		items = append(items, entity.ContentItem{
			Source:      entity.SourceGitHub,
			Title:       fullName,
			URL:         g.trendingBaseURL + "/" + fullName,
			Summary:     description,
			PublishedAt: scrapedAt,
			Engagement:  float64(stars),
			Stars:       stars,
			Language:    lang,
		})
		return len(items) < maxItems
	})

	return items, nil
}

// parseStarCount reads a human-formatted star count like "1,234" or "12.3k".
func parseStarCount(raw string) int {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return 0
	}
	if strings.HasSuffix(raw, "k") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(raw, "k"), 64)
		if err != nil {
			return 0
		}
		return int(f * 1000)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// timeframeFor picks the trending bucket closest to the window length.
func timeframeFor(d time.Duration) string {
	switch {
	case d <= 36*time.Hour:
		return "daily"
	case d <= 14*24*time.Hour:
		return "weekly"
	default:
		return "monthly"
	}
}
