package report

import (
	"encoding/json"
	"time"

	"github.com/neboloop/vizaudit/internal/finding"
)

type jsonSummary struct {
	RunID        string                   `json:"runId"`
	GeneratedAt  time.Time                `json:"generatedAt"`
	BaseURL      string                   `json:"baseUrl"`
	TotalIssues  int                      `json:"totalIssues"`
	BySeverity   map[finding.Severity]int `json:"bySeverity"`
	PagesAudited []string                 `json:"pagesAudited"`
}

type jsonReport struct {
	Summary       jsonSummary                  `json:"summary"`
	Issues        []finding.VisualIssue        `json:"issues"`
	Metrics       []finding.PerformanceMetrics `json:"metrics"`
	ScreenshotDir string                       `json:"screenshotDir"`
}

// buildJSON renders report.json: a summary plus the full issue and metric
// arrays in chronological order, for downstream tooling.
func buildJSON(snap Snapshot) ([]byte, error) {
	bySeverity := make(map[finding.Severity]int, len(finding.Severities))
	for _, sev := range finding.Severities {
		bySeverity[sev] = snap.CountBySeverity(sev)
	}

	doc := jsonReport{
		Summary: jsonSummary{
			RunID:        snap.RunID,
			GeneratedAt:  snap.GeneratedAt,
			BaseURL:      snap.BaseURL,
			TotalIssues:  len(snap.Issues),
			BySeverity:   bySeverity,
			PagesAudited: snap.Pages(),
		},
		Issues:        snap.Issues,
		Metrics:       snap.Metrics,
		ScreenshotDir: snap.ScreenshotDir,
	}
	return json.MarshalIndent(doc, "", "  ")
}
