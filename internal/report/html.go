package report

import (
	"bytes"
	"html/template"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/neboloop/vizaudit/internal/finding"
)

// htmlData is the template input for index.html.
type htmlData struct {
	Snapshot
	Sorted        []finding.VisualIssue
	A11y          []finding.VisualIssue
	Screenshots   []string
	SeverityOrder []finding.Severity
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct":      func(score float64) int { return int(score * 100) },
	"markdown": renderMarkdown,
}).Parse(reportHTML))

// renderHTML renders the tabbed index.html page.
func (g *Generator) renderHTML(snap Snapshot) ([]byte, error) {
	var a11y []finding.VisualIssue
	for _, issue := range snap.Issues {
		if issue.Category == finding.CategoryAccessibility {
			a11y = append(a11y, issue)
		}
	}

	data := htmlData{
		Snapshot:      snap,
		Sorted:        snap.sortedIssues(),
		A11y:          finding.SortBySeverity(a11y),
		Screenshots:   g.collectScreenshots(snap.ScreenshotDir),
		SeverityOrder: finding.Severities,
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// collectScreenshots walks the screenshot tree recursively and returns image
// paths relative to the run directory. WalkDir visits lexically, so the
// gallery order is stable across regenerations.
func (g *Generator) collectScreenshots(dir string) []string {
	if dir == "" {
		return nil
	}
	var shots []string
	root := filepath.Join(g.outDir, dir)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".png", ".jpg", ".jpeg":
			rel, relErr := filepath.Rel(g.outDir, path)
			if relErr == nil {
				shots = append(shots, filepath.ToSlash(rel))
			}
		}
		return nil
	})
	if err != nil {
		g.logger.Warn("screenshot gallery walk failed", "dir", root, "error", err)
	}
	return shots
}

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Visual Audit — {{.BaseURL}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f6f7f9; color: #1a1d21; }
header { background: #1a1d21; color: #fff; padding: 24px 32px; }
header h1 { margin: 0 0 4px; font-size: 22px; }
header .meta { color: #9aa3ad; font-size: 13px; }
nav { display: flex; gap: 4px; background: #fff; padding: 0 24px; border-bottom: 1px solid #dde1e6; }
nav button { border: 0; background: none; padding: 14px 18px; font-size: 14px; cursor: pointer; color: #5c6670; border-bottom: 2px solid transparent; }
nav button.active { color: #1a1d21; border-bottom-color: #2563eb; font-weight: 600; }
main { padding: 24px 32px; }
.tab { display: none; }
.tab.active { display: block; }
.counters { display: flex; gap: 16px; margin-bottom: 24px; }
.counter { background: #fff; border-radius: 8px; padding: 16px 24px; min-width: 110px; border: 1px solid #dde1e6; }
.counter .num { font-size: 28px; font-weight: 700; }
.counter .label { font-size: 12px; text-transform: uppercase; color: #5c6670; }
.issue { background: #fff; border: 1px solid #dde1e6; border-left-width: 4px; border-radius: 6px; padding: 14px 18px; margin-bottom: 12px; }
.issue.critical { border-left-color: #d32f2f; }
.issue.high { border-left-color: #f57c00; }
.issue.medium { border-left-color: #fbc02d; }
.issue.low { border-left-color: #388e3c; }
.badge { display: inline-block; font-size: 11px; font-weight: 700; text-transform: uppercase; padding: 2px 8px; border-radius: 10px; color: #fff; margin-right: 8px; }
.badge.critical { background: #d32f2f; }
.badge.high { background: #f57c00; }
.badge.medium { background: #fbc02d; color: #1a1d21; }
.badge.low { background: #388e3c; }
.issue .where { color: #5c6670; font-size: 13px; }
.issue .rec { margin-top: 8px; font-size: 14px; }
.issue pre { background: #f1f3f5; padding: 8px 12px; border-radius: 4px; overflow-x: auto; font-size: 12px; }
table { border-collapse: collapse; background: #fff; width: 100%; }
th, td { text-align: left; padding: 10px 14px; border-bottom: 1px solid #dde1e6; font-size: 14px; }
th { background: #f1f3f5; font-size: 12px; text-transform: uppercase; color: #5c6670; }
.score { font-weight: 700; }
.score.good { color: #388e3c; }
.score.mid { color: #f57c00; }
.score.bad { color: #d32f2f; }
.gallery { display: grid; grid-template-columns: repeat(auto-fill, minmax(280px, 1fr)); gap: 16px; }
.gallery figure { margin: 0; background: #fff; border: 1px solid #dde1e6; border-radius: 6px; overflow: hidden; }
.gallery img { width: 100%; display: block; }
.gallery figcaption { padding: 8px 12px; font-size: 12px; color: #5c6670; word-break: break-all; }
</style>
</head>
<body>
<header>
<h1>Visual Audit Report</h1>
<div class="meta">{{.BaseURL}} &middot; {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</div>
</header>
<nav>
<button class="active" onclick="show(event,'summary')">Summary</button>
<button onclick="show(event,'issues')">Issues</button>
<button onclick="show(event,'performance')">Performance</button>
<button onclick="show(event,'accessibility')">Accessibility</button>
<button onclick="show(event,'screenshots')">Screenshots</button>
</nav>
<main>

<section id="summary" class="tab active">
<div class="counters">
{{range .SeverityOrder}}<div class="counter"><div class="num">{{$.CountBySeverity .}}</div><div class="label">{{.}}</div></div>
{{end}}<div class="counter"><div class="num">{{len .Issues}}</div><div class="label">total</div></div>
</div>
<p>{{len .Pages}} page configuration(s) audited.</p>
</section>

<section id="issues" class="tab">
{{range .Sorted}}<div class="issue {{.Severity}}">
<span class="badge {{.Severity}}">{{.Severity}}</span>
<strong>{{.Category}}</strong>
<span class="where">{{.Page}}{{with .Component}} / {{.}}{{end}}</span>
<div>{{.Description}}</div>
{{with .Recommendation}}<div class="rec">{{markdown .}}</div>{{end}}
{{with .WCAGViolation}}<div class="where">WCAG: {{.}}</div>{{end}}
{{with .CodeSnippet}}<pre>{{.}}</pre>{{end}}
{{with .Screenshot}}<div class="where">Screenshot: {{.}}</div>{{end}}
</div>
{{else}}<p>No issues found.</p>
{{end}}</section>

<section id="performance" class="tab">
<table>
<tr><th>Page</th><th>FCP (ms)</th><th>LCP (ms)</th><th>TTI (ms)</th><th>CLS</th><th>TBT (ms)</th><th>Performance</th><th>Accessibility</th><th>Best Practices</th><th>SEO</th></tr>
{{range .Metrics}}<tr>
<td>{{.Page}}</td><td>{{printf "%.0f" .FCP}}</td><td>{{printf "%.0f" .LCP}}</td><td>{{printf "%.0f" .TTI}}</td><td>{{printf "%.3f" .CLS}}</td><td>{{printf "%.0f" .TotalBlockingTime}}</td>
{{with .Scores}}<td class="score {{if ge .Performance 0.9}}good{{else if ge .Performance 0.5}}mid{{else}}bad{{end}}">{{pct .Performance}}%</td><td>{{pct .Accessibility}}%</td><td>{{pct .BestPractices}}%</td><td>{{pct .SEO}}%</td>{{else}}<td>-</td><td>-</td><td>-</td><td>-</td>{{end}}
</tr>
{{else}}<tr><td colspan="10">No metrics captured.</td></tr>
{{end}}</table>
</section>

<section id="accessibility" class="tab">
{{range .A11y}}<div class="issue {{.Severity}}">
<span class="badge {{.Severity}}">{{.Severity}}</span>
<span class="where">{{.Page}}</span>
<div>{{.Description}}</div>
{{with .WCAGViolation}}<div class="where">WCAG: {{.}}</div>{{end}}
{{with .Recommendation}}<div class="rec">{{markdown .}}</div>{{end}}
</div>
{{else}}<p>No accessibility issues found.</p>
{{end}}</section>

<section id="screenshots" class="tab">
<div class="gallery">
{{range .Screenshots}}<figure><a href="{{.}}"><img src="{{.}}" loading="lazy" alt="{{.}}"></a><figcaption>{{.}}</figcaption></figure>
{{else}}<p>No screenshots captured.</p>
{{end}}</div>
</section>

</main>
<script>
function show(ev, id) {
  document.querySelectorAll('.tab').forEach(t => t.classList.remove('active'));
  document.querySelectorAll('nav button').forEach(b => b.classList.remove('active'));
  document.getElementById(id).classList.add('active');
  ev.currentTarget.classList.add('active');
}
</script>
</body>
</html>
`
