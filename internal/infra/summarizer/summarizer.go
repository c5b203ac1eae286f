// Package summarizer condenses content into short editorial blurbs using an
// AI provider. The draft builder uses it for the big-story teaser; when no
// provider is configured it degrades to a deterministic truncation.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pkgconfig "newsletter-press/internal/pkg/config"
)

// Summarizer condenses text into a blurb of at most the configured length.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Config holds the shared summarizer settings.
type Config struct {
	// CharacterLimit is the maximum blurb length in runes.
	CharacterLimit int

	// Model is the provider model identifier.
	Model string

	// MaxTokens caps the API response size.
	MaxTokens int

	// Timeout bounds a single API call.
	Timeout time.Duration
}

const (
	defaultCharLimit = 280
	minCharLimit     = 50
	maxCharLimit     = 2000
)

// LoadConfig reads SUMMARIZER_CHAR_LIMIT with validate-and-fallback
// semantics and fills in provider defaults.
func LoadConfig(model string) Config {
	limit := pkgconfig.Int("SUMMARIZER_CHAR_LIMIT", defaultCharLimit,
		pkgconfig.ValidateIntRange(minCharLimit, maxCharLimit))
	for _, w := range limit.Warnings {
		slog.Warn("summarizer config fallback", slog.String("warning", w))
	}

	return Config{
		CharacterLimit: limit.Value,
		Model:          model,
		MaxTokens:      1024,
		Timeout:        60 * time.Second,
	}
}

// FromEnv selects the provider named by SUMMARIZER_PROVIDER: "openai",
// "claude", or "none" (the default). Selecting a provider without its API
// key is a configuration error.
func FromEnv(openAIKey, anthropicKey string) (Summarizer, error) {
	provider := pkgconfig.String("SUMMARIZER_PROVIDER", "none")

	switch provider {
	case "openai":
		if openAIKey == "" {
			return nil, fmt.Errorf("SUMMARIZER_PROVIDER=openai but OPENAI_API_KEY is empty")
		}
		return NewOpenAI(openAIKey), nil
	case "claude":
		if anthropicKey == "" {
			return nil, fmt.Errorf("SUMMARIZER_PROVIDER=claude but ANTHROPIC_API_KEY is empty")
		}
		return NewClaude(anthropicKey), nil
	case "none":
		return NewNoop(), nil
	default:
		return nil, fmt.Errorf("unknown SUMMARIZER_PROVIDER %q", provider)
	}
}

// buildPrompt asks for a tight editorial teaser within the rune limit.
func buildPrompt(limit int, text string) string {
	return fmt.Sprintf(
		"Condense the following newsletter story into an engaging one-paragraph teaser of at most %d characters. Respond with the teaser only:\n%s",
		limit, text)
}

// inputMaxChars bounds the text sent to a provider so a pathological item
// cannot blow the token budget.
const inputMaxChars = 10000

func clampInput(text string) string {
	if len(text) <= inputMaxChars {
		return text
	}
	return text[:inputMaxChars] + "..."
}
