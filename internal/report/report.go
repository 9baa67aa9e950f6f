// Package report turns a finished audit's issues and metrics into the run
// artifacts: index.html, report.md, report.json, task-list.md, and annotated
// screenshot copies. Generation is pure over the snapshot; writing the same
// snapshot twice produces identical bytes.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/neboloop/vizaudit/internal/finding"
)

// Snapshot is the immutable input to every generator. RunID and GeneratedAt
// are part of the snapshot so regenerating from the same snapshot is
// byte-identical.
type Snapshot struct {
	RunID         string
	BaseURL       string
	GeneratedAt   time.Time
	Issues        []finding.VisualIssue
	Metrics       []finding.PerformanceMetrics
	ScreenshotDir string // relative to the run directory, e.g. "screenshots"
}

// CountBySeverity tallies issues at one severity.
func (s Snapshot) CountBySeverity(sev finding.Severity) int {
	n := 0
	for _, issue := range s.Issues {
		if issue.Severity == sev {
			n++
		}
	}
	return n
}

// Pages returns the distinct page names in first-seen order, across both
// issues and metrics.
func (s Snapshot) Pages() []string {
	seen := make(map[string]bool)
	var pages []string
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			pages = append(pages, p)
		}
	}
	for _, m := range s.Metrics {
		add(m.Page)
	}
	for _, issue := range s.Issues {
		add(issue.Page)
	}
	return pages
}

// sortedIssues returns a severity-ordered copy, leaving the snapshot's
// chronological order intact.
func (s Snapshot) sortedIssues() []finding.VisualIssue {
	out := make([]finding.VisualIssue, len(s.Issues))
	copy(out, s.Issues)
	return finding.SortBySeverity(out)
}

// Generator writes all artifacts into one run directory.
type Generator struct {
	outDir string
	logger *slog.Logger
}

// NewGenerator creates a generator rooted at the run directory.
func NewGenerator(outDir string) *Generator {
	return &Generator{
		outDir: outDir,
		logger: slog.Default().With("component", "report"),
	}
}

// WriteAll renders every artifact. The annotation pass is best-effort; a bad
// screenshot never fails the run, but an unwritable artifact does.
func (g *Generator) WriteAll(snap Snapshot) error {
	g.Annotate(snap)

	artifacts := []struct {
		name   string
		render func(Snapshot) ([]byte, error)
	}{
		{"index.html", g.renderHTML},
		{"report.md", func(s Snapshot) ([]byte, error) { return []byte(buildMarkdown(s)), nil }},
		{"report.json", buildJSON},
		{"task-list.md", func(s Snapshot) ([]byte, error) { return []byte(buildTaskList(s)), nil }},
	}

	for _, a := range artifacts {
		data, err := a.render(snap)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", a.name, err)
		}
		path := filepath.Join(g.outDir, a.name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", a.name, err)
		}
		g.logger.Info("report written", "artifact", a.name, "bytes", len(data))
	}
	return nil
}
