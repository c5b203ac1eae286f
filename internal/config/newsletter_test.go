package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-press/internal/domain/entity"
)

func TestDefaultNewsletterConfigIsValid(t *testing.T) {
	cfg := DefaultNewsletterConfig()

	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Sections, 4)
	assert.Equal(t, "top_papers", cfg.Sections[0].Name)
	assert.False(t, cfg.Sections[0].Optional, "papers section is required")
	assert.True(t, cfg.Sections[3].Optional, "tweets section is optional")
}

func TestLoadNewsletterConfigDefaultsWhenUnset(t *testing.T) {
	t.Setenv("NEWSLETTER_CONFIG_PATH", "")

	cfg, err := LoadNewsletterConfig()

	require.NoError(t, err)
	assert.Equal(t, DefaultNewsletterConfig(), cfg)
}

func TestLoadNewsletterConfigFromYAML(t *testing.T) {
	layout := `
title_format: "Weekly Digest #%d"
sections:
  - name: papers
    title: Papers
    source: arxiv
    limit: 10
  - name: repos
    title: Repositories
    source: github
    limit: 5
    optional: true
keywords: [robotics]
`
	path := filepath.Join(t.TempDir(), "sections.yaml")
	require.NoError(t, os.WriteFile(path, []byte(layout), 0o600))
	t.Setenv("NEWSLETTER_CONFIG_PATH", path)

	cfg, err := LoadNewsletterConfig()

	require.NoError(t, err)
	assert.Equal(t, "Weekly Digest #%d", cfg.TitleFormat)
	require.Len(t, cfg.Sections, 2)
	assert.Equal(t, entity.SourceArxiv, cfg.Sections[0].Source)
	assert.True(t, cfg.Sections[1].Optional)
	assert.Equal(t, []string{"robotics"}, cfg.Keywords)
}

func TestLoadNewsletterConfigRejectsBadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sections.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title_format: x\nsections: []\n"), 0o600))
	t.Setenv("NEWSLETTER_CONFIG_PATH", path)

	_, err := LoadNewsletterConfig()

	assert.Error(t, err)
}

func TestValidateRejectsDuplicateSections(t *testing.T) {
	cfg := DefaultNewsletterConfig()
	cfg.Sections = append(cfg.Sections, cfg.Sections[0])

	assert.Error(t, cfg.Validate())
}

func TestSectionFor(t *testing.T) {
	cfg := DefaultNewsletterConfig()

	require.NotNil(t, cfg.SectionFor(entity.SourceGitHub))
	assert.Equal(t, "github_repos", cfg.SectionFor(entity.SourceGitHub).Name)
	assert.Nil(t, cfg.SectionFor(entity.SourceTag("unknown")))
}
