package summarizer

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Noop truncates instead of calling an AI provider. It keeps the pipeline
// deterministic when no API key is configured.
type Noop struct {
	limit int
}

// NewNoop creates the truncating summarizer with the configured limit.
func NewNoop() *Noop {
	return &Noop{limit: LoadConfig("noop").CharacterLimit}
}

// Summarize returns the text cut at the rune limit, trimmed at the last
// space so the teaser does not end mid-word.
func (n *Noop) Summarize(_ context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= n.limit {
		return text, nil
	}

	runes := []rune(text)
	cut := string(runes[:n.limit])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "...", nil
}
