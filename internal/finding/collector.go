package finding

import "sort"

// Collector accumulates issues and metrics for the lifetime of one audit run.
// It is append-only: scenarios run strictly sequentially, so exactly one
// scenario writes at a time and no locking is needed.
type Collector struct {
	issues  []VisualIssue
	metrics []PerformanceMetrics
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// AddIssue appends one issue in discovery order.
func (c *Collector) AddIssue(issue VisualIssue) {
	c.issues = append(c.issues, issue)
}

// AddIssues appends a batch of issues in discovery order.
func (c *Collector) AddIssues(issues []VisualIssue) {
	c.issues = append(c.issues, issues...)
}

// AddMetrics appends one page's performance metrics.
func (c *Collector) AddMetrics(m PerformanceMetrics) {
	c.metrics = append(c.metrics, m)
}

// Issues returns a copy of all issues in insertion order.
func (c *Collector) Issues() []VisualIssue {
	out := make([]VisualIssue, len(c.issues))
	copy(out, c.issues)
	return out
}

// Metrics returns a copy of all metrics in insertion order.
func (c *Collector) Metrics() []PerformanceMetrics {
	out := make([]PerformanceMetrics, len(c.metrics))
	copy(out, c.metrics)
	return out
}

// SortedIssues returns issues ordered by severity rank; issues of equal
// severity keep their insertion order.
func (c *Collector) SortedIssues() []VisualIssue {
	return SortBySeverity(c.Issues())
}

// CountBySeverity returns the number of issues at the given severity.
func (c *Collector) CountBySeverity(s Severity) int {
	n := 0
	for _, issue := range c.issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// SortBySeverity stably sorts issues by severity rank in place and returns
// the slice.
func SortBySeverity(issues []VisualIssue) []VisualIssue {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity.Rank() < issues[j].Severity.Rank()
	})
	return issues
}
