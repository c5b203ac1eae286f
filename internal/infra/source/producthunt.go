package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/resilience/circuitbreaker"

	"github.com/sony/gobreaker"
)

const (
	productHuntBaseURL      = "https://api.producthunt.com/v2/api/graphql"
	productHuntTopic        = "artificial-intelligence"
	productHuntSummaryLimit = 200
)

// productHuntQuery fetches the top-voted posts in a topic. The API is
// GraphQL-only; this is the single query shape the adapter needs.
const productHuntQuery = `query($topic: String!, $first: Int!) {
  posts(order: VOTES, topic: $topic, first: $first) {
    edges {
      node {
        name
        tagline
        description
        votesCount
        url
        createdAt
      }
    }
  }
}`

type productHuntRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type productHuntResponse struct {
	Data struct {
		Posts struct {
			Edges []struct {
				Node productHuntPost `json:"node"`
			} `json:"edges"`
		} `json:"posts"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type productHuntPost struct {
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
	VotesCount  int    `json:"votesCount"`
	URL         string `json:"url"`
	CreatedAt   string `json:"createdAt"`
}

// ProductHuntAdapter fetches top-voted AI product launches via the Product
// Hunt GraphQL API. The API key is mandatory; without it every fetch is an
// auth error so the pipeline can degrade the section instead of failing.
type ProductHuntAdapter struct {
	client         *http.Client
	apiKey         string
	baseURL        string
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewProductHuntAdapter creates an adapter with the given API key.
func NewProductHuntAdapter(client *http.Client, apiKey string) *ProductHuntAdapter {
	return &ProductHuntAdapter{
		client:         client,
		apiKey:         apiKey,
		baseURL:        productHuntBaseURL,
		circuitBreaker: circuitbreaker.New(circuitbreaker.SourceFetchConfig(string(entity.SourceProductHunt))),
	}
}

// Tag reports the source this adapter owns.
func (p *ProductHuntAdapter) Tag() entity.SourceTag { return entity.SourceProductHunt }

// Fetch returns the top-voted AI launches in the window.
func (p *ProductHuntAdapter) Fetch(ctx context.Context, w Window) ([]entity.ContentItem, error) {
	items, err := p.SearchProducts(ctx, w.MaxItems)
	if err != nil {
		return nil, err
	}
	return filterSince(items, w.Since), nil
}

// SearchProducts returns up to limit AI products ordered by votes.
func (p *ProductHuntAdapter) SearchProducts(ctx context.Context, limit int) ([]entity.ContentItem, error) {
	if p.apiKey == "" {
		return nil, entity.NewSourceAuthError(entity.SourceProductHunt,
			"Product Hunt API key not configured. Set PRODUCT_HUNT_API_KEY.")
	}
	if limit <= 0 {
		limit = 10
	}

	cbResult, err := p.circuitBreaker.Execute(func() (interface{}, error) {
		return p.doQuery(ctx, limit)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("producthunt circuit breaker open, request rejected",
				slog.String("source", string(entity.SourceProductHunt)),
				slog.String("state", p.circuitBreaker.State().String()))
		}
		return nil, classify(entity.SourceProductHunt, err)
	}

	return cbResult.([]entity.ContentItem), nil
}

func (p *ProductHuntAdapter) doQuery(ctx context.Context, limit int) ([]entity.ContentItem, error) {
	payload, err := json.Marshal(productHuntRequest{
		Query: productHuntQuery,
		Variables: map[string]interface{}{
			"topic": productHuntTopic,
			"first": limit,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	body, err := doJSON(p.client, req)
	if err != nil {
		return nil, err
	}

	var decoded productHuntResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode posts response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", decoded.Errors[0].Message)
	}

	items := make([]entity.ContentItem, 0, len(decoded.Data.Posts.Edges))
	for _, edge := range decoded.Data.Posts.Edges {
		node := edge.Node
		createdAt, _ := time.Parse(time.RFC3339, node.CreatedAt)
		items = append(items, entity.ContentItem{
			Source:      entity.SourceProductHunt,
			Title:       node.Name,
			URL:         node.URL,
			Summary:     truncate(node.Description, productHuntSummaryLimit),
			PublishedAt: createdAt,
			Engagement:  float64(node.VotesCount),
			Votes:       node.VotesCount,
			Tagline:     node.Tagline,
		})
	}
	return items, nil
}
