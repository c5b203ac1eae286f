// Package source implements the content source adapters. Each adapter owns
// one provider's query construction and response mapping and normalizes the
// provider-specific response record into the common entity.ContentItem
// shape. Adapters are mutually independent and share no state beyond the
// rate limiter injected by the aggregator.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/resilience/retry"
)

// Window bounds one fetch: items published since the given time, capped at
// MaxItems. Query optionally narrows the search for providers that take one.
type Window struct {
	Since    time.Time
	MaxItems int
	Query    string
}

// DefaultWindow returns the standard weekly window.
func DefaultWindow(now time.Time) Window {
	return Window{Since: now.AddDate(0, 0, -7), MaxItems: 10}
}

// Adapter is the contract every source implements. Fetch returns the
// normalized items, or an error from the entity taxonomy. Zero results is a
// valid empty slice, never an error.
type Adapter interface {
	Tag() entity.SourceTag
	Fetch(ctx context.Context, w Window) ([]entity.ContentItem, error)
}

// maxResponseBytes caps provider response bodies so a misbehaving upstream
// cannot exhaust memory.
const maxResponseBytes = 4 << 20

// doJSON issues the request, enforces a 2xx status, and returns the body.
// Non-2xx statuses become retry.HTTPError so the aggregator's retry
// combinator can distinguish transient from permanent failures.
func doJSON(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: truncate(string(body), 200)}
	}
	return body, nil
}

// classify maps a raw adapter failure into the source error taxonomy:
// auth statuses become source_auth_error, everything else degrades to
// source_unavailable. Errors already classified pass through unchanged.
func classify(tag entity.SourceTag, err error) error {
	var se *entity.SourceError
	if errors.As(err, &se) {
		return err
	}
	var httpErr *retry.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden {
			return entity.NewSourceAuthError(tag, httpErr.Error())
		}
	}
	return entity.NewSourceUnavailable(tag, err)
}

// truncate cuts s to n runes so multi-byte characters in provider text never
// get split mid-sequence.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
