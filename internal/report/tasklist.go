package report

import (
	"fmt"
	"strings"

	"github.com/neboloop/vizaudit/internal/finding"
)

// Estimate is one effort entry: the label shown in the task list and the
// midpoint hours used when summing total effort.
type Estimate struct {
	Label string
	Hours float64
}

type effortKey struct {
	severity finding.Severity
	category finding.Category
}

// defaultEstimate backstops any (severity, category) pair missing from the
// table, so the lookup always resolves.
var defaultEstimate = Estimate{Label: "1-2 hours", Hours: 1.5}

var effortTable = map[effortKey]Estimate{
	{finding.SeverityCritical, finding.CategoryPerformance}:    {"8-16 hours", 12},
	{finding.SeverityCritical, finding.CategoryLayout}:         {"4-8 hours", 6},
	{finding.SeverityCritical, finding.CategoryAccessibility}:  {"4-8 hours", 6},
	{finding.SeverityCritical, finding.CategoryInteraction}:    {"4-8 hours", 6},
	{finding.SeverityCritical, finding.CategoryResponsiveness}: {"4-8 hours", 6},
	{finding.SeverityCritical, finding.CategoryColor}:          {"2-4 hours", 3},
	{finding.SeverityCritical, finding.CategoryTypography}:     {"2-4 hours", 3},
	{finding.SeverityCritical, finding.CategoryConsistency}:    {"2-4 hours", 3},

	{finding.SeverityHigh, finding.CategoryPerformance}:    {"4-8 hours", 6},
	{finding.SeverityHigh, finding.CategoryLayout}:         {"2-4 hours", 3},
	{finding.SeverityHigh, finding.CategoryAccessibility}:  {"2-4 hours", 3},
	{finding.SeverityHigh, finding.CategoryInteraction}:    {"2-4 hours", 3},
	{finding.SeverityHigh, finding.CategoryResponsiveness}: {"2-4 hours", 3},
	{finding.SeverityHigh, finding.CategoryColor}:          {"1-2 hours", 1.5},
	{finding.SeverityHigh, finding.CategoryTypography}:     {"1-2 hours", 1.5},
	{finding.SeverityHigh, finding.CategoryConsistency}:    {"1-2 hours", 1.5},

	{finding.SeverityMedium, finding.CategoryPerformance}:    {"2-4 hours", 3},
	{finding.SeverityMedium, finding.CategoryLayout}:         {"1-2 hours", 1.5},
	{finding.SeverityMedium, finding.CategoryAccessibility}:  {"1-2 hours", 1.5},
	{finding.SeverityMedium, finding.CategoryInteraction}:    {"1-2 hours", 1.5},
	{finding.SeverityMedium, finding.CategoryResponsiveness}: {"1-2 hours", 1.5},
	{finding.SeverityMedium, finding.CategoryColor}:          {"30 min", 0.5},
	{finding.SeverityMedium, finding.CategoryTypography}:     {"30 min", 0.5},
	{finding.SeverityMedium, finding.CategoryConsistency}:    {"30 min", 0.5},

	{finding.SeverityLow, finding.CategoryPerformance}:    {"1-2 hours", 1.5},
	{finding.SeverityLow, finding.CategoryLayout}:         {"30 min", 0.5},
	{finding.SeverityLow, finding.CategoryAccessibility}:  {"30 min", 0.5},
	{finding.SeverityLow, finding.CategoryInteraction}:    {"30 min", 0.5},
	{finding.SeverityLow, finding.CategoryResponsiveness}: {"30 min", 0.5},
	{finding.SeverityLow, finding.CategoryColor}:          {"15 min", 0.25},
	{finding.SeverityLow, finding.CategoryTypography}:     {"15 min", 0.25},
	{finding.SeverityLow, finding.CategoryConsistency}:    {"15 min", 0.25},
}

// Effort resolves the estimate for a severity/category pair. Every pair
// resolves to a non-empty label.
func Effort(severity finding.Severity, category finding.Category) Estimate {
	if e, ok := effortTable[effortKey{severity, category}]; ok {
		return e
	}
	return defaultEstimate
}

// FormatTotalEffort renders the summed hours: days under 40 hours of work,
// weeks at or above (one day = 8 hours, one week = 40).
func FormatTotalEffort(hours float64) string {
	if hours < 40 {
		return fmt.Sprintf("~%.1f days (%.1f hours)", hours/8, hours)
	}
	return fmt.Sprintf("~%.1f weeks (%.1f hours)", hours/40, hours)
}

// buildTaskList renders task-list.md: critical and high issues only, each
// with its effort estimate, grouped by severity.
func buildTaskList(snap Snapshot) string {
	var b strings.Builder
	b.WriteString("# Prioritized Task List\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", snap.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Target: %s\n\n", snap.BaseURL)

	total := 0.0
	count := 0
	for _, sev := range []finding.Severity{finding.SeverityCritical, finding.SeverityHigh} {
		var block strings.Builder
		for _, issue := range snap.Issues {
			if issue.Severity != sev {
				continue
			}
			est := Effort(issue.Severity, issue.Category)
			total += est.Hours
			count++
			fmt.Fprintf(&block, "- [ ] **[%s/%s]** %s — %s _(est. %s)_\n",
				issue.Page, issue.Category, issue.Description, issue.Recommendation, est.Label)
		}
		if block.Len() > 0 {
			fmt.Fprintf(&b, "## %s\n\n%s\n", strings.ToUpper(string(sev)), block.String())
		}
	}

	if count == 0 {
		b.WriteString("No critical or high severity issues found.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "## Total estimated effort\n\n%d tasks, %s\n", count, FormatTotalEffort(total))
	return b.String()
}
