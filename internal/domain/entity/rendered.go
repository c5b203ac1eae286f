package entity

import "fmt"

// Format tags a rendered artifact.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates a format string from a tool argument record.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatHTML, FormatMarkdown, FormatJSON:
		return Format(s), nil
	case "":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("invalid format %q (must be html, markdown, or json)", s)
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	default:
		return ".html"
	}
}

// MIMEType returns the content type uploads are tagged with.
func (f Format) MIMEType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown"
	case FormatJSON:
		return "application/json"
	default:
		return "text/html"
	}
}

// RenderedOutput is a serialized draft in one format, a pure function of a
// validator-passing Draft.
type RenderedOutput struct {
	Format   Format `json:"format"`
	Content  string `json:"content"`
	Filename string `json:"filename"`
}
