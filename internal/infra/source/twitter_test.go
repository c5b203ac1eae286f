package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"newsletter-press/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twitterFixture = `{
  "data": [
    {
      "id": "1001",
      "text": "New multimodal model drops today",
      "author_id": "u1",
      "created_at": "2024-01-05T10:00:00Z",
      "public_metrics": {"like_count": 150, "retweet_count": 10, "reply_count": 4}
    },
    {
      "id": "1002",
      "text": "Quiet take nobody liked",
      "author_id": "u1",
      "created_at": "2024-01-05T11:00:00Z",
      "public_metrics": {"like_count": 12, "retweet_count": 1, "reply_count": 0}
    },
    {
      "id": "1003",
      "text": "Thread on evaluation pitfalls",
      "author_id": "u2",
      "created_at": "2024-01-04T09:00:00Z",
      "public_metrics": {"like_count": 120, "retweet_count": 40, "reply_count": 9}
    }
  ],
  "includes": {
    "users": [
      {"id": "u1", "username": "mlnews", "name": "ML News"},
      {"id": "u2", "username": "evalcritic", "name": "Eval Critic"}
    ]
  }
}`

func newTwitterTestAdapter(t *testing.T, token string, handler http.HandlerFunc) *TwitterAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter := NewTwitterAdapter(server.Client(), token)
	adapter.baseURL = server.URL
	return adapter
}

func TestTwitterAdapter_FetchTrends(t *testing.T) {
	var gotQuery string
	adapter := newTwitterTestAdapter(t, "bearer-token", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		assert.Equal(t, "Bearer bearer-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twitterFixture))
	})

	items, err := adapter.FetchTrends(context.Background(), []string{"AI", "LLM"}, 100)
	require.NoError(t, err)
	require.Len(t, items, 2, "tweet under the likes threshold must be dropped")

	assert.Equal(t, "(#AI OR #LLM) -is:retweet lang:en", gotQuery)

	// likes + 2*retweets: 120+80=200 outranks 150+20=170.
	assert.Equal(t, "Thread on evaluation pitfalls", items[0].Title)
	assert.Equal(t, float64(200), items[0].Engagement)
	assert.Equal(t, "@evalcritic", items[0].Author)
	assert.Equal(t, "https://twitter.com/evalcritic/status/1003", items[0].URL)

	assert.Equal(t, "New multimodal model drops today", items[1].Title)
	assert.Equal(t, 150, items[1].Likes)
	assert.Equal(t, 10, items[1].Retweets)
}

func TestTwitterAdapter_MissingToken(t *testing.T) {
	adapter := NewTwitterAdapter(http.DefaultClient, "")

	_, err := adapter.FetchTrends(context.Background(), nil, 100)
	require.Error(t, err)

	var se *entity.SourceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, entity.KindSourceAuth, se.Kind)
	assert.Equal(t, entity.SourceTwitter, se.Source)
}

func TestTwitterAdapter_Fetch_CapsWindow(t *testing.T) {
	adapter := newTwitterTestAdapter(t, "bearer-token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twitterFixture))
	})

	items, err := adapter.Fetch(context.Background(), Window{MaxItems: 1})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestBuildTweetQuery(t *testing.T) {
	assert.Equal(t, "(#AI) -is:retweet lang:en", buildTweetQuery([]string{"AI"}))
	assert.Equal(t, "(#AI OR #LLM) -is:retweet lang:en", buildTweetQuery([]string{"#AI", " LLM "}))
}

func TestTruncate_RuneBoundary(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	cut := truncate(strings.Repeat("モデル", 100), twitterTextLimit)
	assert.True(t, utf8.ValidString(cut), "cut must not split a rune")
	assert.Equal(t, twitterTextLimit+3, utf8.RuneCountInString(cut))
	assert.True(t, strings.HasSuffix(cut, "..."))
}
