package render

import (
	"fmt"
	"strings"

	"newsletter-press/internal/domain/entity"
)

const previewRule = "============================================================"

// previewLeadItems caps how many leading items the preview shows per
// section.
const previewLeadItems = 3

// Preview renders a plain-text summary of the draft for quick review in a
// terminal or chat window.
func Preview(d *entity.Draft) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n%s\nIssue #%d | %s\n%s\n\n",
		previewRule, d.Title, d.IssueNumber, d.CreatedAt.Format("January 2, 2006"), previewRule)

	b.WriteString("CONTENT SUMMARY:\n")
	for _, section := range d.Sections {
		line := fmt.Sprintf("- %s: %d", section.Title, len(section.Items))
		if section.FetchError != nil {
			line += fmt.Sprintf(" (source failed: %s)", section.FetchError.Kind)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\nBIG STORY:\n")
	if d.BigStory != nil {
		b.WriteString(d.BigStory.Title + "\n")
	} else {
		b.WriteString("Not set\n")
	}

	for _, section := range d.Sections {
		if len(section.Items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", strings.ToUpper(section.Title))
		for i, item := range section.Items {
			if i == previewLeadItems {
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, item.Title)
		}
	}

	b.WriteString("\n" + previewRule + "\n")
	return b.String()
}

// WordCount counts whitespace-separated words, reported alongside previews.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
