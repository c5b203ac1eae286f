package googleworkspace

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"google.golang.org/api/gmail/v1"

	"github.com/stretchr/testify/assert"
)

func TestBuildFeedbackQuery(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	query := buildFeedbackQuery(now, 7, nil)
	assert.Equal(t, "after:2024/01/03 subject:(newsletter OR feedback OR reply)", query)

	query = buildFeedbackQuery(now, 3, []string{"great", "unsubscribe"})
	assert.Equal(t, "after:2024/01/07 subject:(newsletter OR feedback OR reply) (great OR unsubscribe)", query)
}

func encodePart(s string) string {
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(s))
}

func TestExtractBody_PrefersReadableHTML(t *testing.T) {
	html := `<html><body><nav>menu chrome</nav><article><p>Loved the section on evaluation, more of that please.</p></article></body></html>`
	msg := &gmail.Message{
		Payload: &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmail.MessagePart{
				{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encodePart("plain fallback")}},
				{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encodePart(html)}},
			},
		},
	}

	body := extractBody(msg)
	assert.Contains(t, body, "Loved the section on evaluation")
}

func TestExtractBody_PlainTextFallback(t *testing.T) {
	msg := &gmail.Message{
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Body:     &gmail.MessagePartBody{Data: encodePart("  just a quick thank you note  ")},
		},
	}

	assert.Equal(t, "just a quick thank you note", extractBody(msg))
}

func TestExtractBody_TruncatesLongBodies(t *testing.T) {
	long := make([]byte, feedbackBodyLimit+100)
	for i := range long {
		long[i] = 'x'
	}
	msg := &gmail.Message{
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Body:     &gmail.MessagePartBody{Data: encodePart(string(long))},
		},
	}

	body := extractBody(msg)
	assert.Len(t, body, feedbackBodyLimit+3)
	assert.True(t, len(body) < len(long))
}

func TestTruncateBody_RuneBoundary(t *testing.T) {
	long := strings.Repeat("読", feedbackBodyLimit+50)

	body := truncateBody(long)
	assert.True(t, utf8.ValidString(body), "cut must not split a rune")
	assert.Equal(t, feedbackBodyLimit+3, utf8.RuneCountInString(body))
	assert.True(t, strings.HasSuffix(body, "..."))
}

func TestHeaderValue(t *testing.T) {
	msg := &gmail.Message{
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "reader@example.com"},
				{Name: "Subject", Value: "Re: AI Newsletter #12"},
			},
		},
	}

	assert.Equal(t, "Re: AI Newsletter #12", headerValue(msg, "Subject"))
	assert.Equal(t, "", headerValue(msg, "Reply-To"))
}
