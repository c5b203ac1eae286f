package config

import (
	"os"
)

// Credentials holds the optional secrets gating which adapters and the
// publisher are usable. A missing credential never crashes the process: the
// affected source reports a source_auth_error when invoked instead.
type Credentials struct {
	// Google OAuth (Drive and Gmail). All three are required together.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string

	// NewsletterFolderID is the default Drive folder for uploads and
	// past-issue listings.
	NewsletterFolderID string

	// Per-source API credentials.
	GitHubToken        string
	ProductHuntAPIKey  string
	TwitterBearerToken string

	// Summarizer backends.
	OpenAIAPIKey    string
	AnthropicAPIKey string
}

// LoadCredentials reads every credential from the environment.
func LoadCredentials() Credentials {
	return Credentials{
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRefreshToken: os.Getenv("GOOGLE_REFRESH_TOKEN"),
		NewsletterFolderID: os.Getenv("NEWSLETTER_FOLDER_ID"),
		GitHubToken:        os.Getenv("GITHUB_TOKEN"),
		ProductHuntAPIKey:  os.Getenv("PRODUCT_HUNT_API_KEY"),
		TwitterBearerToken: os.Getenv("TWITTER_BEARER_TOKEN"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
	}
}

// GoogleConfigured reports whether the full OAuth triple is present.
func (c Credentials) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRefreshToken != ""
}

// MissingOptional lists the optional credentials that are absent, for the
// startup log line.
func (c Credentials) MissingOptional() []string {
	var missing []string
	if c.NewsletterFolderID == "" {
		missing = append(missing, "NEWSLETTER_FOLDER_ID")
	}
	if c.GitHubToken == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if c.ProductHuntAPIKey == "" {
		missing = append(missing, "PRODUCT_HUNT_API_KEY")
	}
	if c.TwitterBearerToken == "" {
		missing = append(missing, "TWITTER_BEARER_TOKEN")
	}
	return missing
}
