package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neboloop/vizaudit/internal/finding"
)

func testSnapshot() Snapshot {
	return Snapshot{
		RunID:       "f4b6e9d2-8a3c-4c1e-9f1a-0f3d2f6f7a01",
		BaseURL:     "http://localhost:3000",
		GeneratedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Issues: []finding.VisualIssue{
			{
				Page: "landing-mobile", Severity: finding.SeverityLow, Category: finding.CategoryColor,
				Description: "Muted footer links", Recommendation: "Darken link color",
			},
			{
				Page: "landing-desktop", Severity: finding.SeverityCritical, Category: finding.CategoryPerformance,
				Description: "Page is slow to become interactive", Recommendation: "Split the main bundle",
				PerformanceImpact: 0.6,
			},
			{
				Page: "landing-desktop", Severity: finding.SeverityHigh, Category: finding.CategoryAccessibility,
				Description: "Focused button has no visible outline", Recommendation: "Add a :focus-visible style",
				WCAGViolation: "2.4.7 Focus Visible",
			},
		},
		Metrics: []finding.PerformanceMetrics{
			{
				Page: "landing-desktop", FCP: 1200, LCP: 2100, TTI: 1800, CLS: 0.05, TotalBlockingTime: 150,
				Scores: &finding.CategoryScores{Performance: 0.85, Accessibility: 0.9, BestPractices: 1, SEO: 0.7},
			},
		},
		ScreenshotDir: "screenshots",
	}
}

func TestWriteAllProducesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "screenshots"), 0o755))

	g := NewGenerator(dir)
	require.NoError(t, g.WriteAll(testSnapshot()))

	for _, name := range []string{"index.html", "report.md", "report.json", "task-list.md"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "missing artifact %s", name)
		assert.Greater(t, info.Size(), int64(0), "empty artifact %s", name)
	}
}

func TestWriteAllIsByteIdentical(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "screenshots"), 0o755))

	g := NewGenerator(dir)
	snap := testSnapshot()
	require.NoError(t, g.WriteAll(snap))

	first := map[string][]byte{}
	for _, name := range []string{"index.html", "report.md", "report.json", "task-list.md"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		first[name] = data
	}

	require.NoError(t, g.WriteAll(snap))
	for name, want := range first {
		got, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), "%s not byte-identical on regeneration", name)
	}
}

func TestJSONReportShape(t *testing.T) {
	data, err := buildJSON(testSnapshot())
	require.NoError(t, err)

	var doc struct {
		Summary struct {
			BaseURL      string         `json:"baseUrl"`
			TotalIssues  int            `json:"totalIssues"`
			BySeverity   map[string]int `json:"bySeverity"`
			PagesAudited []string       `json:"pagesAudited"`
		} `json:"summary"`
		Issues        []finding.VisualIssue        `json:"issues"`
		Metrics       []finding.PerformanceMetrics `json:"metrics"`
		ScreenshotDir string                       `json:"screenshotDir"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "http://localhost:3000", doc.Summary.BaseURL)
	assert.Equal(t, 3, doc.Summary.TotalIssues)
	assert.Equal(t, 1, doc.Summary.BySeverity["critical"])
	assert.Equal(t, 0, doc.Summary.BySeverity["medium"])
	assert.Contains(t, doc.Summary.PagesAudited, "landing-desktop")
	assert.Len(t, doc.Issues, 3)
	assert.Equal(t, "screenshots", doc.ScreenshotDir)

	// Issues stay in chronological order in the JSON artifact.
	assert.Equal(t, finding.SeverityLow, doc.Issues[0].Severity)
}

func TestMarkdownReportSections(t *testing.T) {
	out := buildMarkdown(testSnapshot())

	assert.Contains(t, out, "# Visual Audit Report")
	assert.Contains(t, out, "## Executive Summary")
	assert.Contains(t, out, "## Performance by Page")
	assert.Contains(t, out, "## Critical Issues")
	assert.Contains(t, out, "## High Severity Issues")
	assert.Contains(t, out, "## Top Action Items")
	assert.Contains(t, out, "2.4.7 Focus Visible")

	// Action items are severity-ordered: the critical issue leads.
	assert.Contains(t, out, "1. **critical**")
}

func TestMarkdownReportCapsActionItems(t *testing.T) {
	snap := testSnapshot()
	snap.Issues = nil
	for i := 0; i < 30; i++ {
		snap.Issues = append(snap.Issues, finding.VisualIssue{
			Page: "home", Severity: finding.SeverityMedium, Category: finding.CategoryLayout,
			Description: "Filler issue",
		})
	}
	out := buildMarkdown(snap)
	assert.Contains(t, out, "15. **medium**")
	assert.NotContains(t, out, "16. **medium**")
}

func TestHTMLReportRenders(t *testing.T) {
	dir := t.TempDir()
	shotDir := filepath.Join(dir, "screenshots", "components")
	require.NoError(t, os.MkdirAll(shotDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(shotDir, "landing-desktop-nav-0-before.png"), []byte("png"), 0o644))

	g := NewGenerator(dir)
	data, err := g.renderHTML(testSnapshot())
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "http://localhost:3000")
	assert.Contains(t, html, "Focused button has no visible outline")
	assert.Contains(t, html, "85%", "performance score rendered as a percentage")
	assert.Contains(t, html, "screenshots/components/landing-desktop-nav-0-before.png")
	// Severity sorting in the issues tab: critical appears before low.
	assert.Less(t,
		strings.Index(html, "Page is slow to become interactive"),
		strings.Index(html, "Muted footer links"))
}
