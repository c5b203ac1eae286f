package render

import (
	"html/template"
	"strings"

	"newsletter-press/internal/domain/entity"
)

// htmlTemplate is a single-column 600px email layout with inline-friendly
// styles. Mail clients ignore external stylesheets, so everything lives in
// one style block.
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f4f4f4; }
.container { background-color: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
.header { text-align: center; border-bottom: 3px solid #4A90E2; padding-bottom: 20px; margin-bottom: 30px; }
.header h1 { color: #4A90E2; margin: 0; font-size: 28px; }
.section { margin-bottom: 35px; }
.section h2 { color: #2C3E50; border-left: 4px solid #4A90E2; padding-left: 15px; margin-bottom: 20px; }
.item { background-color: #f8f9fa; padding: 18px; margin-bottom: 15px; border-radius: 8px; border-left: 3px solid #4A90E2; }
.item h3 { margin-top: 0; margin-bottom: 10px; color: #2C3E50; font-size: 18px; }
.meta { color: #666; font-size: 0.9em; margin-bottom: 10px; }
a { color: #4A90E2; text-decoration: none; font-weight: 500; }
a:hover { text-decoration: underline; }
.badge { display: inline-block; padding: 3px 8px; border-radius: 3px; font-size: 0.85em; margin-right: 5px; background: #e3f2fd; color: #1976d2; }
.footer { text-align: center; margin-top: 40px; padding-top: 20px; border-top: 2px solid #eee; color: #666; }
</style>
</head>
<body>
<div class="container">
<div class="header">
<h1>{{.Title}}</h1>
<p class="meta">Issue #{{.IssueNumber}} | {{.Date}}</p>
</div>
{{- if .BigStory}}
<div class="section">
<h2>This Week's Big Story</h2>
<div class="item">
<h3>{{.BigStory.Title}}</h3>
{{- if .BigStory.Blurb}}
<p>{{.BigStory.Blurb}}</p>
{{- end}}
<a href="{{.BigStory.URL}}" target="_blank">Read More</a>
</div>
</div>
{{- end}}
{{- range .Sections}}
{{- if .Items}}
<div class="section">
<h2>{{.Title}}</h2>
{{- range .Items}}
<div class="item">
<h3>{{.Title}}</h3>
{{- if .Authors}}
<p class="meta">Authors: {{join .Authors ", "}}</p>
{{- end}}
{{- if .Tagline}}
<p><strong>{{.Tagline}}</strong></p>
{{- end}}
{{- if .Summary}}
<p>{{.Summary}}</p>
{{- end}}
{{- if .Categories}}
<div class="meta">{{range .Categories}}<span class="badge">{{.}}</span>{{end}}</div>
{{- end}}
{{- if .Stars}}
<p class="meta">{{.Stars}} stars | {{.Forks}} forks{{if .Language}} | {{.Language}}{{end}}</p>
{{- end}}
{{- if .Topics}}
<div class="meta">{{range .Topics}}<span class="badge">{{.}}</span>{{end}}</div>
{{- end}}
{{- if .Votes}}
<p class="meta">{{.Votes}} upvotes on Product Hunt</p>
{{- end}}
{{- if .Likes}}
<p class="meta">{{.Author}} | {{.Likes}} likes | {{.Retweets}} retweets</p>
{{- end}}
<a href="{{.URL}}" target="_blank">Read More</a>
{{- if .PDFURL}}
 | <a href="{{.PDFURL}}" target="_blank">Download PDF</a>
{{- end}}
</div>
{{- end}}
</div>
{{- end}}
{{- end}}
<div class="footer">
<p>Thanks for reading!</p>
<p>Stay curious, keep learning.</p>
</div>
</div>
</body>
</html>
`

var htmlTmpl = template.Must(template.New("newsletter").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(htmlTemplate))

type htmlData struct {
	Title       string
	IssueNumber int
	Date        string
	BigStory    *entity.BigStoryRef
	Sections    []entity.Section
}

func renderHTML(d *entity.Draft) (string, error) {
	var buf strings.Builder
	err := htmlTmpl.Execute(&buf, htmlData{
		Title:       d.Title,
		IssueNumber: d.IssueNumber,
		Date:        d.CreatedAt.Format("January 2, 2006"),
		BigStory:    d.BigStory,
		Sections:    d.Sections,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
