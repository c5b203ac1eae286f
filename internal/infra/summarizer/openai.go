package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"newsletter-press/internal/resilience/circuitbreaker"
	"newsletter-press/internal/resilience/retry"
)

// OpenAI condenses text via the chat completions API with circuit breaker
// and retry protection.
type OpenAI struct {
	client         *openai.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
}

// NewOpenAI creates an OpenAI-backed summarizer with the given API key.
func NewOpenAI(apiKey string) *OpenAI {
	config := LoadConfig(openai.GPT4oMini)

	slog.Info("initialized openai summarizer",
		slog.Int("character_limit", config.CharacterLimit),
		slog.String("model", config.Model))

	return &OpenAI{
		client:         openai.NewClient(apiKey),
		circuitBreaker: circuitbreaker.New(circuitbreaker.SummarizerConfig("openai")),
		retryConfig:    retry.SummarizerConfig(),
		config:         config,
	}
}

// Summarize condenses the text into a teaser within the configured limit.
func (o *OpenAI) Summarize(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	var result string
	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doSummarize(ctx, text)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("openai summarize failed after retries: %w", retryErr)
	}
	return result, nil
}

func (o *OpenAI) doSummarize(ctx context.Context, inputText string) (string, error) {
	prompt := buildPrompt(o.config.CharacterLimit, clampInput(inputText))

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	duration := time.Since(start)

	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api returned no choices")
	}

	summary := resp.Choices[0].Message.Content
	slog.InfoContext(ctx, "summarization completed",
		slog.Int("summary_length", utf8.RuneCountInString(summary)),
		slog.Duration("duration", duration))

	return summary, nil
}
