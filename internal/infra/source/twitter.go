package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/resilience/circuitbreaker"

	"github.com/sony/gobreaker"
)

const (
	twitterBaseURL     = "https://api.twitter.com/2/tweets/search/recent"
	twitterMaxResults  = 100
	twitterTextLimit   = 280
	twitterMinLikes    = 100
	retweetWeight      = 2
	twitterMaxReturned = 10
)

// defaultHashtags are the AI hashtags tracked when the caller supplies none.
var defaultHashtags = []string{"AI", "MachineLearning", "LLM", "ChatGPT", "GenerativeAI"}

type twitterSearchResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Text          string `json:"text"`
		AuthorID      string `json:"author_id"`
		CreatedAt     string `json:"created_at"`
		PublicMetrics struct {
			LikeCount    int `json:"like_count"`
			RetweetCount int `json:"retweet_count"`
			ReplyCount   int `json:"reply_count"`
		} `json:"public_metrics"`
	} `json:"data"`
	Includes struct {
		Users []twitterUser `json:"users"`
	} `json:"includes"`
}

type twitterUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// TwitterAdapter fetches viral AI tweets via the v2 recent search API. The
// bearer token is mandatory; without it every fetch is an auth error.
type TwitterAdapter struct {
	client         *http.Client
	bearerToken    string
	baseURL        string
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewTwitterAdapter creates an adapter with the given bearer token.
func NewTwitterAdapter(client *http.Client, bearerToken string) *TwitterAdapter {
	return &TwitterAdapter{
		client:         client,
		bearerToken:    bearerToken,
		baseURL:        twitterBaseURL,
		circuitBreaker: circuitbreaker.New(circuitbreaker.SourceFetchConfig(string(entity.SourceTwitter))),
	}
}

// Tag reports the source this adapter owns.
func (t *TwitterAdapter) Tag() entity.SourceTag { return entity.SourceTwitter }

// Fetch returns the most engaging tweets in the window using the default
// hashtags and likes threshold.
func (t *TwitterAdapter) Fetch(ctx context.Context, w Window) ([]entity.ContentItem, error) {
	items, err := t.FetchTrends(ctx, nil, twitterMinLikes)
	if err != nil {
		return nil, err
	}
	items = filterSince(items, w.Since)
	if w.MaxItems > 0 && len(items) > w.MaxItems {
		items = items[:w.MaxItems]
	}
	return items, nil
}

// FetchTrends returns tweets matching the hashtags with at least minLikes
// likes, sorted by engagement (likes plus twice the retweets) descending.
// Ties keep the API's recency order so results are stable across calls.
func (t *TwitterAdapter) FetchTrends(ctx context.Context, hashtags []string, minLikes int) ([]entity.ContentItem, error) {
	if t.bearerToken == "" {
		return nil, entity.NewSourceAuthError(entity.SourceTwitter,
			"Twitter API token not configured. Set TWITTER_BEARER_TOKEN.")
	}
	if len(hashtags) == 0 {
		hashtags = defaultHashtags
	}
	if minLikes < 0 {
		minLikes = twitterMinLikes
	}

	cbResult, err := t.circuitBreaker.Execute(func() (interface{}, error) {
		return t.doSearch(ctx, hashtags, minLikes)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("twitter circuit breaker open, request rejected",
				slog.String("source", string(entity.SourceTwitter)),
				slog.String("state", t.circuitBreaker.State().String()))
		}
		return nil, classify(entity.SourceTwitter, err)
	}

	return cbResult.([]entity.ContentItem), nil
}

func (t *TwitterAdapter) doSearch(ctx context.Context, hashtags []string, minLikes int) ([]entity.ContentItem, error) {
	params := url.Values{}
	params.Set("query", buildTweetQuery(hashtags))
	params.Set("max_results", fmt.Sprintf("%d", twitterMaxResults))
	params.Set("tweet.fields", "public_metrics,created_at,author_id")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "username,name")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+t.bearerToken)

	body, err := doJSON(t.client, req)
	if err != nil {
		return nil, err
	}

	var decoded twitterSearchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	users := make(map[string]twitterUser, len(decoded.Includes.Users))
	for _, u := range decoded.Includes.Users {
		users[u.ID] = u
	}

	items := make([]entity.ContentItem, 0, len(decoded.Data))
	for _, tw := range decoded.Data {
		if tw.PublicMetrics.LikeCount < minLikes {
			continue
		}
		username := "i"
		author := "@unknown"
		if u, ok := users[tw.AuthorID]; ok {
			username = u.Username
			author = "@" + u.Username
		}
		createdAt, _ := time.Parse(time.RFC3339, tw.CreatedAt)
		likes := tw.PublicMetrics.LikeCount
		retweets := tw.PublicMetrics.RetweetCount

		items = append(items, entity.ContentItem{
			Source:      entity.SourceTwitter,
			Title:       truncate(tw.Text, twitterTextLimit),
			URL:         fmt.Sprintf("https://twitter.com/%s/status/%s", username, tw.ID),
			PublishedAt: createdAt,
			Engagement:  float64(likes + retweetWeight*retweets),
			Author:      author,
			Likes:       likes,
			Retweets:    retweets,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Engagement > items[j].Engagement
	})
	if len(items) > twitterMaxReturned {
		items = items[:twitterMaxReturned]
	}
	return items, nil
}

// buildTweetQuery assembles the v2 search query: any of the hashtags,
// excluding retweets, English only.
func buildTweetQuery(hashtags []string) string {
	tags := make([]string, 0, len(hashtags))
	for _, h := range hashtags {
		h = strings.TrimPrefix(strings.TrimSpace(h), "#")
		if h == "" {
			continue
		}
		tags = append(tags, "#"+h)
	}
	return "(" + strings.Join(tags, " OR ") + ") -is:retweet lang:en"
}
