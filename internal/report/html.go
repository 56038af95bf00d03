package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pders01/modeldrift/internal/mapping"
	"github.com/pders01/modeldrift/internal/models"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

// pageMarkdown also renders the pipe tables of model pages
var pageMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders a docstring as HTML. Raw HTML in the input is escaped.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

type reuseRow struct {
	mapping.Reuse
	Shown []string
	More  int
}

type riskRow struct {
	mapping.Impact
	Description template.HTML
}

type htmlPage struct {
	Generated string
	Version   string
	Commit    string
	Stats     mapping.Stats
	Reused    []reuseRow
	HighRisk  []riskRow
	Orphaned  []mapping.Orphan
}

// MappingHTML writes the standalone mapping report
func MappingHTML(w io.Writer, snap *models.Snapshot, a *mapping.Analysis) error {
	page := htmlPage{
		Generated: orNA(snap.Git.Timestamp),
		Version:   snap.Version,
		Commit:    orNA(short(snap.Git.CommitHash)),
		Stats:     a.Stats,
		Orphaned:  head(a.Orphaned, 20),
	}
	for _, r := range head(a.ReuseMatrix, 10) {
		row := reuseRow{Reuse: r, Shown: head(r.Endpoints, 5)}
		row.More = len(r.Endpoints) - len(row.Shown)
		page.Reused = append(page.Reused, row)
	}
	for _, imp := range head(a.HighRisk, 10) {
		row := riskRow{Impact: imp}
		if rec, ok := snap.Record(imp.Model); ok && rec.Docstring != "" {
			desc, err := Markdown(rec.Docstring)
			if err != nil {
				return err
			}
			row.Description = desc
		}
		page.HighRisk = append(page.HighRisk, row)
	}
	if err := mappingPage.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}

// DocHTML renders a markdown model page as a standalone HTML page
func DocHTML(w io.Writer, title string, src []byte) error {
	var body bytes.Buffer
	if err := pageMarkdown.Convert(src, &body); err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	page := struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(body.String())}
	if err := docPage.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render HTML page: %w", err)
	}
	return nil
}

var docPage = template.Must(template.New("doc").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 960px; margin: 0 auto; padding: 20px; }
        table { border-collapse: collapse; }
        th, td { padding: 8px 12px; border-bottom: 1px solid #ddd; text-align: left; }
        code { background: #f4f4f4; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

var mappingPage = template.Must(template.New("mapping").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Mapping Analysis Report</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 0; padding: 20px; background: #f5f5f5; }
        .container { max-width: 1200px; margin: 0 auto; background: white; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #333; border-bottom: 3px solid #4CAF50; padding-bottom: 10px; }
        h2 { color: #555; margin-top: 30px; }
        .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 15px; margin: 20px 0; }
        .stat-card { background: #f8f9fa; padding: 15px; border-radius: 6px; border-left: 4px solid #4CAF50; }
        .stat-value { font-size: 32px; font-weight: bold; color: #4CAF50; }
        .stat-label { color: #666; font-size: 14px; margin-top: 5px; }
        table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; vertical-align: top; }
        th { background: #4CAF50; color: white; font-weight: 600; }
        tr:hover { background: #f5f5f5; }
        .risk-high { color: #f44336; font-weight: bold; }
        .risk-medium { color: #ff9800; font-weight: bold; }
        .risk-low { color: #4CAF50; font-weight: bold; }
        .risk-none { color: #999; }
        .badge { display: inline-block; padding: 4px 8px; border-radius: 4px; font-size: 12px; font-weight: bold; margin: 2px; }
        .badge-success { background: #4CAF50; color: white; }
        code { background: #f4f4f4; padding: 2px 6px; border-radius: 3px; font-family: 'Courier New', monospace; }
        .doc p { margin: 0 0 6px 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>📊 Mapping Analysis Report</h1>
        <p><strong>Generated:</strong> {{.Generated}}</p>
        <p><strong>Version:</strong> {{.Version}}</p>
        <p><strong>Git Commit:</strong> <code>{{.Commit}}</code></p>

        <h2>📈 Overview Statistics</h2>
        <div class="stats">
            <div class="stat-card"><div class="stat-value">{{.Stats.TotalModels}}</div><div class="stat-label">Total Models</div></div>
            <div class="stat-card"><div class="stat-value">{{.Stats.TotalEndpoints}}</div><div class="stat-label">Total Endpoints</div></div>
            <div class="stat-card"><div class="stat-value">{{.Stats.ModelsWithEndpoints}}</div><div class="stat-label">Models in Use</div></div>
            <div class="stat-card"><div class="stat-value">{{.Stats.OrphanedModels}}</div><div class="stat-label">Orphaned Models</div></div>
            <div class="stat-card"><div class="stat-value">{{printf "%.1f" .Stats.EndpointCoverage}}%</div><div class="stat-label">Endpoint Coverage</div></div>
            <div class="stat-card"><div class="stat-value">{{printf "%.1f" .Stats.AvgModelReuse}}</div><div class="stat-label">Avg Model Reuse</div></div>
        </div>

        <h2>🔥 Top Reused Models</h2>
        <table>
            <tr><th>Model</th><th>File</th><th>Usage Count</th><th>Endpoints</th></tr>
{{- range .Reused}}
            <tr>
                <td><strong>{{.Model}}</strong></td>
                <td><code>{{.File}}</code></td>
                <td><span class="badge badge-success">{{.Count}}</span></td>
                <td>{{range $i, $ep := .Shown}}{{if $i}}<br>{{end}}<code>{{$ep}}</code>{{end}}{{if .More}}<br><em>... and {{.More}} more</em>{{end}}</td>
            </tr>
{{- end}}
        </table>

        <h2>⚠️ High Risk Models (High Impact Changes)</h2>
        <table>
            <tr><th>Model</th><th>Risk Level</th><th>Affected Endpoints</th><th>Affected Models</th><th>Description</th></tr>
{{- range .HighRisk}}
            <tr>
                <td><strong>{{.Model}}</strong></td>
                <td><span class="risk-high">HIGH</span></td>
                <td>{{len .AffectedEndpoints}}</td>
                <td>{{len .AffectedModels}}</td>
                <td class="doc">{{.Description}}</td>
            </tr>
{{- end}}
        </table>

        <h2>🔍 Orphaned Models (Not Used in Any Endpoint)</h2>
        <table>
            <tr><th>Model</th><th>File</th><th>Fields</th></tr>
{{- range .Orphaned}}
            <tr>
                <td><strong>{{.Name}}</strong></td>
                <td><code>{{.File}}</code></td>
                <td>{{.Fields}}</td>
            </tr>
{{- end}}
        </table>
    </div>
</body>
</html>
`))
