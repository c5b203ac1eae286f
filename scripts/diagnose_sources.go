// Command diagnose_sources probes every content source with the credentials
// from the environment and prints a per-source JSON report. Run it when a
// scheduled issue comes up light to see which provider is failing and why.
//
//	go run ./scripts/diagnose_sources.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"newsletter-press/internal/config"
	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/infra/source"
)

// SourceDiagnostic is the per-source probe result.
type SourceDiagnostic struct {
	Source       string `json:"source"`
	Status       string `json:"status"` // "OK", "EMPTY", or the error kind
	ItemCount    int    `json:"item_count"`
	LatestItem   string `json:"latest_item,omitempty"`
	LatestDate   string `json:"latest_date,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
}

func main() {
	_ = godotenv.Load()
	creds := config.LoadCredentials()

	client := &http.Client{Timeout: 30 * time.Second}
	adapters := []source.Adapter{
		source.NewArxivAdapter(client),
		source.NewGitHubAdapter(client, creds.GitHubToken),
		source.NewProductHuntAdapter(client, creds.ProductHuntAPIKey),
		source.NewTwitterAdapter(client, creds.TwitterBearerToken),
	}

	window := source.DefaultWindow(time.Now())
	results := make([]SourceDiagnostic, 0, len(adapters))
	failed := 0

	for _, adapter := range adapters {
		diag := probe(adapter, window)
		if diag.Status != "OK" && diag.Status != "EMPTY" {
			failed++
		}
		results = append(results, diag)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		fmt.Fprintln(os.Stderr, "encode report:", err)
		os.Exit(1)
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d sources failing\n", failed, len(adapters))
		os.Exit(1)
	}
}

func probe(adapter source.Adapter, window source.Window) SourceDiagnostic {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	diag := SourceDiagnostic{Source: string(adapter.Tag())}

	start := time.Now()
	items, err := adapter.Fetch(ctx, window)
	diag.ResponseTime = time.Since(start).Milliseconds()

	if err != nil {
		diag.Status = "internal_error"
		var srcErr *entity.SourceError
		if errors.As(err, &srcErr) {
			diag.Status = string(srcErr.Kind)
		}
		diag.ErrorMessage = err.Error()
		return diag
	}

	diag.ItemCount = len(items)
	if len(items) == 0 {
		diag.Status = "EMPTY"
		return diag
	}

	diag.Status = "OK"
	latest := items[0]
	for _, item := range items[1:] {
		if item.PublishedAt.After(latest.PublishedAt) {
			latest = item
		}
	}
	diag.LatestItem = latest.Title
	diag.LatestDate = latest.PublishedAt.Format(time.RFC3339)
	return diag
}
