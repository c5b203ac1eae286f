package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/resilience/circuitbreaker"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"
)

const (
	arxivBaseURL     = "http://export.arxiv.org/api/query"
	arxivDefaultCat  = "cs.AI"
	summaryMaxLength = 400
	maxAuthors       = 3
	maxCategories    = 3
)

// ArxivAdapter fetches recent papers from the arXiv Atom API. The API needs
// no credential but asks clients to stay under one request every three
// seconds, which the process-wide limiter budget already guarantees.
type ArxivAdapter struct {
	client         *http.Client
	baseURL        string
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewArxivAdapter creates an adapter backed by the given HTTP client.
func NewArxivAdapter(client *http.Client) *ArxivAdapter {
	return &ArxivAdapter{
		client:         client,
		baseURL:        arxivBaseURL,
		circuitBreaker: circuitbreaker.New(circuitbreaker.SourceFetchConfig(string(entity.SourceArxiv))),
	}
}

// Tag reports the source this adapter owns.
func (a *ArxivAdapter) Tag() entity.SourceTag { return entity.SourceArxiv }

// Fetch returns recent papers in the window, newest first as the API orders
// them. An empty Query falls back to the cs.AI category.
func (a *ArxivAdapter) Fetch(ctx context.Context, w Window) ([]entity.ContentItem, error) {
	items, err := a.Search(ctx, w.Query, w.MaxItems)
	if err != nil {
		return nil, err
	}
	return filterSince(items, w.Since), nil
}

// Search queries arXiv for papers matching the query string, capped at
// maxResults. The query may be a category expression ("cat:cs.LG") or free
// text matched against all fields.
func (a *ArxivAdapter) Search(ctx context.Context, query string, maxResults int) ([]entity.ContentItem, error) {
	if maxResults <= 0 {
		maxResults = 10
	}
	searchQuery := buildArxivQuery(query)

	params := url.Values{}
	params.Set("search_query", searchQuery)
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")
	feedURL := a.baseURL + "?" + params.Encode()

	cbResult, err := a.circuitBreaker.Execute(func() (interface{}, error) {
		return a.doFetch(ctx, feedURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("arxiv circuit breaker open, request rejected",
				slog.String("source", string(entity.SourceArxiv)),
				slog.String("state", a.circuitBreaker.State().String()))
		}
		return nil, classify(entity.SourceArxiv, err)
	}

	return cbResult.([]entity.ContentItem), nil
}

// doFetch performs the actual feed fetch without the circuit breaker.
func (a *ArxivAdapter) doFetch(ctx context.Context, feedURL string) ([]entity.ContentItem, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = "newsletter-press"
	fp.Client = a.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]entity.ContentItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		pubAt := time.Now()
		if it.PublishedParsed != nil {
			pubAt = *it.PublishedParsed
		}

		authors := make([]string, 0, maxAuthors)
		for _, au := range it.Authors {
			if len(authors) == maxAuthors {
				break
			}
			authors = append(authors, au.Name)
		}

		categories := it.Categories
		if len(categories) > maxCategories {
			categories = categories[:maxCategories]
		}

		items = append(items, entity.ContentItem{
			Source:      entity.SourceArxiv,
			Title:       strings.Join(strings.Fields(it.Title), " "),
			URL:         it.Link,
			Summary:     truncate(strings.TrimSpace(it.Description), summaryMaxLength),
			PublishedAt: pubAt,
			Authors:     authors,
			Categories:  categories,
			PDFURL:      arxivPDFURL(it.Link),
		})
	}

	return items, nil
}

// buildArxivQuery turns a user query into the API's search_query syntax.
// Raw field expressions ("cat:", "ti:", "all:") pass through untouched.
func buildArxivQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return "cat:" + arxivDefaultCat
	}
	for _, prefix := range []string{"cat:", "ti:", "abs:", "au:", "all:"} {
		if strings.HasPrefix(query, prefix) {
			return query
		}
	}
	return "all:" + query
}

// arxivPDFURL derives the PDF link from an abstract page URL.
func arxivPDFURL(absURL string) string {
	if !strings.Contains(absURL, "/abs/") {
		return ""
	}
	return strings.Replace(absURL, "/abs/", "/pdf/", 1)
}

// filterSince keeps items published at or after the cutoff. A zero cutoff
// keeps everything.
func filterSince(items []entity.ContentItem, since time.Time) []entity.ContentItem {
	if since.IsZero() {
		return items
	}
	kept := make([]entity.ContentItem, 0, len(items))
	for _, it := range items {
		if !it.PublishedAt.Before(since) {
			kept = append(kept, it)
		}
	}
	return kept
}
