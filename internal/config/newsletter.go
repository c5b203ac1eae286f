// Package config holds domain configuration for the newsletter pipeline:
// section layout, scoring weights, and external service credentials.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"newsletter-press/internal/domain/entity"
	pkgconfig "newsletter-press/internal/pkg/config"
)

// SectionLayout declares one newsletter section: which source feeds it, how
// many items it keeps after organizing, and whether an empty section is a
// validation failure or only a warning.
type SectionLayout struct {
	Name     string           `yaml:"name"`
	Title    string           `yaml:"title"`
	Source   entity.SourceTag `yaml:"source"`
	Limit    int              `yaml:"limit"`
	Optional bool             `yaml:"optional"`
}

// NewsletterConfig drives the draft builder, organizer, and validator.
type NewsletterConfig struct {
	// TitleFormat produces the issue title; it receives the issue number.
	TitleFormat string `yaml:"title_format"`

	// Sections in display order.
	Sections []SectionLayout `yaml:"sections"`

	// Keywords boost an item's score when they appear in its title or
	// summary. Matching is case-insensitive.
	Keywords []string `yaml:"keywords"`
}

// DefaultNewsletterConfig mirrors the layout the newsletter has shipped
// with: papers and repositories are required, products and tweets are
// optional extras.
func DefaultNewsletterConfig() NewsletterConfig {
	return NewsletterConfig{
		TitleFormat: "AI Newsletter #%d",
		Sections: []SectionLayout{
			{Name: "top_papers", Title: "Top AI Research Papers", Source: entity.SourceArxiv, Limit: 5},
			{Name: "github_repos", Title: "Trending GitHub Repositories", Source: entity.SourceGitHub, Limit: 5},
			{Name: "ai_products", Title: "New AI Products & Tools", Source: entity.SourceProductHunt, Limit: 3, Optional: true},
			{Name: "tweets", Title: "Trending AI Conversations", Source: entity.SourceTwitter, Limit: 3, Optional: true},
		},
		Keywords: []string{
			"open source",
			"state of the art",
			"benchmark",
			"agent",
			"multimodal",
			"reasoning",
		},
	}
}

// LoadNewsletterConfig reads the section layout from the YAML file named by
// NEWSLETTER_CONFIG_PATH, or returns the built-in default when the variable
// is unset. A file that exists but fails to parse is an error: a half-read
// layout could silently drop sections.
func LoadNewsletterConfig() (NewsletterConfig, error) {
	path := pkgconfig.String("NEWSLETTER_CONFIG_PATH", "")
	if path == "" {
		return DefaultNewsletterConfig(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return NewsletterConfig{}, fmt.Errorf("read newsletter config: %w", err)
	}

	var cfg NewsletterConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return NewsletterConfig{}, fmt.Errorf("parse newsletter config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return NewsletterConfig{}, fmt.Errorf("invalid newsletter config: %w", err)
	}
	return cfg, nil
}

// Validate checks the layout for the mistakes a hand-edited YAML file tends
// to contain.
func (c NewsletterConfig) Validate() error {
	if c.TitleFormat == "" {
		return fmt.Errorf("title_format is required")
	}
	if len(c.Sections) == 0 {
		return fmt.Errorf("at least one section is required")
	}
	seen := make(map[string]bool, len(c.Sections))
	for _, s := range c.Sections {
		if s.Name == "" {
			return fmt.Errorf("section name is required")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate section name %q", s.Name)
		}
		seen[s.Name] = true
		if s.Source == "" {
			return fmt.Errorf("section %q: source is required", s.Name)
		}
		if s.Limit < 0 {
			return fmt.Errorf("section %q: limit cannot be negative", s.Name)
		}
	}
	return nil
}

// SectionFor returns the layout fed by the given source tag, or nil when the
// layout has no section for it.
func (c NewsletterConfig) SectionFor(tag entity.SourceTag) *SectionLayout {
	for i := range c.Sections {
		if c.Sections[i].Source == tag {
			return &c.Sections[i]
		}
	}
	return nil
}
