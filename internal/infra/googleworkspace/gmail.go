package googleworkspace

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	gmailSearchLimit  = 50
	gmailDetailLimit  = 10
	feedbackBodyLimit = 500
)

// FeedbackEmail is one reader reply extracted from the inbox.
type FeedbackEmail struct {
	Subject string `json:"subject"`
	Snippet string `json:"snippet"`
	Body    string `json:"body,omitempty"`
	Date    string `json:"date"`
}

// FeedbackSummary aggregates a feedback scan.
type FeedbackSummary struct {
	TotalResponses int             `json:"total_responses"`
	Emails         []FeedbackEmail `json:"emails"`
}

// GmailClient scans the mailbox for newsletter reader feedback.
type GmailClient struct {
	service *gmail.Service
	now     func() time.Time
}

// NewGmailClient builds a Gmail client on the authenticated HTTP client.
func NewGmailClient(ctx context.Context, client *http.Client, opts ...option.ClientOption) (*GmailClient, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &GmailClient{service: svc, now: time.Now}, nil
}

// ScanFeedback searches the last daysBack days for newsletter replies and
// returns subjects, snippets, and readable body text for the most recent
// matches. Keywords further narrow the search when present.
func (g *GmailClient) ScanFeedback(ctx context.Context, daysBack int, keywords []string) (*FeedbackSummary, error) {
	if daysBack <= 0 {
		daysBack = 7
	}
	query := buildFeedbackQuery(g.now(), daysBack, keywords)

	listResp, err := g.service.Users.Messages.List("me").
		Q(query).
		MaxResults(gmailSearchLimit).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search feedback: %w", err)
	}

	summary := &FeedbackSummary{
		TotalResponses: len(listResp.Messages),
		Emails:         make([]FeedbackEmail, 0, gmailDetailLimit),
	}

	for i, ref := range listResp.Messages {
		if i == gmailDetailLimit {
			break
		}
		msg, err := g.service.Users.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("fetch message %s: %w", ref.Id, err)
		}

		summary.Emails = append(summary.Emails, FeedbackEmail{
			Subject: headerValue(msg, "Subject"),
			Snippet: msg.Snippet,
			Body:    extractBody(msg),
			Date:    fmt.Sprintf("%d", msg.InternalDate),
		})
	}
	return summary, nil
}

// buildFeedbackQuery assembles the Gmail search expression: a date floor,
// newsletter-related subjects, and optional keyword terms.
func buildFeedbackQuery(now time.Time, daysBack int, keywords []string) string {
	threshold := now.AddDate(0, 0, -daysBack).Format("2006/01/02")
	query := fmt.Sprintf("after:%s subject:(newsletter OR feedback OR reply)", threshold)
	if len(keywords) > 0 {
		query += " (" + strings.Join(keywords, " OR ") + ")"
	}
	return query
}

func headerValue(msg *gmail.Message, name string) string {
	if msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// extractBody pulls readable text out of the message. HTML parts go through
// the readability extractor so boilerplate and quoted chrome drop out; plain
// text parts are used as-is. Returns at most feedbackBodyLimit characters.
func extractBody(msg *gmail.Message) string {
	if msg.Payload == nil {
		return ""
	}
	plain, html := collectParts(msg.Payload)

	if html != "" {
		article, err := readability.FromReader(strings.NewReader(html), nil)
		if err == nil && article.TextContent != "" {
			return truncateBody(strings.TrimSpace(article.TextContent))
		}
	}
	return truncateBody(strings.TrimSpace(plain))
}

// collectParts walks the MIME tree accumulating the first text/plain and
// text/html bodies it finds.
func collectParts(part *gmail.MessagePart) (plain, html string) {
	if part.Body != nil && part.Body.Data != "" {
		decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(part.Body.Data)
		if err == nil {
			switch part.MimeType {
			case "text/plain":
				if plain == "" {
					plain = string(decoded)
				}
			case "text/html":
				if html == "" {
					html = string(decoded)
				}
			}
		}
	}
	for _, child := range part.Parts {
		p, h := collectParts(child)
		if plain == "" {
			plain = p
		}
		if html == "" {
			html = h
		}
	}
	return plain, html
}

// truncateBody caps a reply body at the rune limit. Reader mail is often
// non-ASCII, so the cut must land on a rune boundary.
func truncateBody(s string) string {
	if utf8.RuneCountInString(s) <= feedbackBodyLimit {
		return s
	}
	return string([]rune(s)[:feedbackBodyLimit]) + "..."
}
