package report

import (
	"fmt"
	"strings"

	"github.com/neboloop/vizaudit/internal/finding"
)

const maxActionItems = 15

// buildMarkdown renders report.md: executive summary, per-page performance,
// critical/high detail sections, and a capped action-item list.
func buildMarkdown(snap Snapshot) string {
	var b strings.Builder

	b.WriteString("# Visual Audit Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", snap.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Target: %s\n\n", snap.BaseURL)

	b.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(&b, "| Severity | Count |\n|---|---|\n")
	for _, sev := range finding.Severities {
		fmt.Fprintf(&b, "| %s | %d |\n", sev, snap.CountBySeverity(sev))
	}
	fmt.Fprintf(&b, "\n%d issues across %d pages.\n\n", len(snap.Issues), len(snap.Pages()))

	if len(snap.Metrics) > 0 {
		b.WriteString("## Performance by Page\n\n")
		b.WriteString("| Page | FCP (ms) | LCP (ms) | TTI (ms) | CLS | TBT (ms) | Score |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, m := range snap.Metrics {
			score := "-"
			if m.Scores != nil {
				score = fmt.Sprintf("%d%%", int(m.Scores.Performance*100))
			}
			fmt.Fprintf(&b, "| %s | %.0f | %.0f | %.0f | %.3f | %.0f | %s |\n",
				m.Page, m.FCP, m.LCP, m.TTI, m.CLS, m.TotalBlockingTime, score)
		}
		b.WriteString("\n")
	}

	writeSeveritySection(&b, snap, finding.SeverityCritical, "Critical Issues")
	writeSeveritySection(&b, snap, finding.SeverityHigh, "High Severity Issues")

	b.WriteString("## Top Action Items\n\n")
	sorted := snap.sortedIssues()
	if len(sorted) == 0 {
		b.WriteString("None. Clean run.\n")
		return b.String()
	}
	if len(sorted) > maxActionItems {
		sorted = sorted[:maxActionItems]
	}
	for i, issue := range sorted {
		fmt.Fprintf(&b, "%d. **%s** [%s/%s] %s\n", i+1, issue.Severity, issue.Page, issue.Category, issue.Description)
		if issue.Recommendation != "" {
			fmt.Fprintf(&b, "   - %s\n", issue.Recommendation)
		}
	}
	return b.String()
}

func writeSeveritySection(b *strings.Builder, snap Snapshot, sev finding.Severity, title string) {
	var block strings.Builder
	for _, issue := range snap.Issues {
		if issue.Severity != sev {
			continue
		}
		fmt.Fprintf(&block, "### [%s] %s\n\n%s\n\n", issue.Page, issue.Category, issue.Description)
		if issue.Recommendation != "" {
			fmt.Fprintf(&block, "**Fix:** %s\n\n", issue.Recommendation)
		}
		if issue.WCAGViolation != "" {
			fmt.Fprintf(&block, "**WCAG:** %s\n\n", issue.WCAGViolation)
		}
		if issue.Screenshot != "" {
			fmt.Fprintf(&block, "Screenshot: `%s`\n\n", issue.Screenshot)
		}
	}
	if block.Len() > 0 {
		fmt.Fprintf(b, "## %s\n\n%s", title, block.String())
	}
}
