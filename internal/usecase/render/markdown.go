package render

import (
	"fmt"
	"strings"

	"newsletter-press/internal/domain/entity"
)

func renderMarkdown(d *entity.Draft) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	fmt.Fprintf(&b, "**Issue #%d** | %s\n\n---\n\n", d.IssueNumber, d.CreatedAt.Format("January 2, 2006"))

	if d.BigStory != nil {
		b.WriteString("## This Week's Big Story\n\n")
		fmt.Fprintf(&b, "### %s\n\n", d.BigStory.Title)
		if d.BigStory.Blurb != "" {
			fmt.Fprintf(&b, "%s\n\n", d.BigStory.Blurb)
		}
		fmt.Fprintf(&b, "[Read More](%s)\n\n---\n\n", d.BigStory.URL)
	}

	for _, section := range d.Sections {
		if len(section.Items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", section.Title)
		for i, item := range section.Items {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, item.Title)
			writeItemMeta(&b, item)
			if item.Summary != "" {
				fmt.Fprintf(&b, "%s\n\n", item.Summary)
			}
			fmt.Fprintf(&b, "[Read More](%s)\n\n---\n\n", item.URL)
		}
	}

	b.WriteString("**Thanks for reading!**\n")
	return b.String()
}

// writeItemMeta emits the provider-specific metadata line for an item.
func writeItemMeta(b *strings.Builder, item entity.ContentItem) {
	switch item.Source {
	case entity.SourceArxiv:
		if len(item.Authors) > 0 {
			fmt.Fprintf(b, "**Authors:** %s\n\n", strings.Join(item.Authors, ", "))
		}
	case entity.SourceGitHub:
		lang := item.Language
		if lang == "" {
			lang = "N/A"
		}
		fmt.Fprintf(b, "**Stats:** %d stars | %d forks | Language: %s\n\n", item.Stars, item.Forks, lang)
	case entity.SourceProductHunt:
		if item.Tagline != "" {
			fmt.Fprintf(b, "**%s**\n\n", item.Tagline)
		}
		fmt.Fprintf(b, "%d upvotes on Product Hunt\n\n", item.Votes)
	case entity.SourceTwitter:
		fmt.Fprintf(b, "%s | %d likes | %d retweets\n\n", item.Author, item.Likes, item.Retweets)
	}
}
