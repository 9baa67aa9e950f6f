package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/neboloop/vizaudit/internal/finding"
	"github.com/neboloop/vizaudit/internal/scenario"
)

// probeTimeout bounds the in-page timing read; on expiry the metrics stay
// zero-valued and the run continues.
const probeTimeout = 5 * time.Second

// scoreIssueThreshold: below this overall performance score an issue is
// raised; below criticalScore it is critical.
const (
	scoreIssueThreshold = 0.9
	criticalScore       = 0.5
)

// AuditResult is what the out-of-process performance audit collaborator
// produces: category scores plus Core Web Vitals.
type AuditResult struct {
	Scores            finding.CategoryScores
	FCP               float64
	LCP               float64
	TTI               float64
	CLS               float64
	FID               float64
	TotalBlockingTime float64
	SpeedIndex        float64
}

// PerfAuditor runs a full performance audit against a URL out-of-process. It
// manages (and must terminate) its own browser instance.
type PerfAuditor interface {
	Run(ctx context.Context, url string) (*AuditResult, error)
}

// NullPerfAuditor is the no-op default wired when the full audit is disabled.
type NullPerfAuditor struct{}

// Run reports the audit as unavailable.
func (NullPerfAuditor) Run(context.Context, string) (*AuditResult, error) {
	return nil, nil
}

// Performance captures paint/navigation timing from the live page and merges
// in the external audit's scores when available.
type Performance struct {
	auditor PerfAuditor
	logger  *slog.Logger
}

// NewPerformance creates the analyzer. A nil auditor gets the null default.
func NewPerformance(auditor PerfAuditor) *Performance {
	if auditor == nil {
		auditor = NullPerfAuditor{}
	}
	return &Performance{
		auditor: auditor,
		logger:  slog.Default().With("component", "perf"),
	}
}

const timingProbeJS = `() => {
	const paint = performance.getEntriesByType('paint');
	const nav = performance.getEntriesByType('navigation')[0];
	const byName = (n) => {
		const e = paint.find((p) => p.name === n);
		return e ? e.startTime : 0;
	};
	return {
		firstPaint: byName('first-paint'),
		firstContentfulPaint: byName('first-contentful-paint'),
		domContentLoaded: nav ? nav.domContentLoadedEventEnd : 0,
		loadComplete: nav ? nav.loadEventEnd : 0,
	};
}`

type timingProbe struct {
	FirstPaint           float64 `json:"firstPaint"`
	FirstContentfulPaint float64 `json:"firstContentfulPaint"`
	DOMContentLoaded     float64 `json:"domContentLoaded"`
	LoadComplete         float64 `json:"loadComplete"`
}

// Measure reads in-page timings (best effort) and, if configured, runs the
// external audit against the same URL. Returns the metrics record plus any
// issues derived from a low overall score.
func (p *Performance) Measure(ctx context.Context, page playwright.Page, cfg *scenario.TestConfig, url string) (finding.PerformanceMetrics, []finding.VisualIssue) {
	metrics := finding.PerformanceMetrics{Page: cfg.Name}

	if probe, ok := p.readTimings(page); ok {
		metrics.FCP = probe.FirstContentfulPaint
		metrics.TTI = probe.DOMContentLoaded
		metrics.SpeedIndex = probe.LoadComplete
	}

	result, err := p.auditor.Run(ctx, url)
	if err != nil {
		p.logger.Warn("external performance audit failed", "page", cfg.Name, "error", err)
		return metrics, nil
	}
	if result == nil {
		return metrics, nil
	}

	mergeAudit(&metrics, result)
	return metrics, scoreIssues(result.Scores.Performance, cfg.Name)
}

// readTimings evaluates the timing probe with a bounded wait; a hung page
// degrades to empty values.
func (p *Performance) readTimings(page playwright.Page) (timingProbe, bool) {
	type evalResult struct {
		raw any
		err error
	}
	done := make(chan evalResult, 1)
	go func() {
		raw, err := page.Evaluate(timingProbeJS)
		done <- evalResult{raw, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			p.logger.Warn("timing probe failed", "error", res.err)
			return timingProbe{}, false
		}
		var probe timingProbe
		if err := decodeEval(res.raw, &probe); err != nil {
			p.logger.Warn("timing probe returned unexpected shape", "error", err)
			return timingProbe{}, false
		}
		return probe, true
	case <-time.After(probeTimeout):
		p.logger.Warn("timing probe timed out")
		return timingProbe{}, false
	}
}

// mergeAudit overlays the external audit's vitals and scores onto the
// in-page record. Audit numbers win when present; the in-page probe is the
// fallback.
func mergeAudit(m *finding.PerformanceMetrics, r *AuditResult) {
	if r.FCP > 0 {
		m.FCP = r.FCP
	}
	m.LCP = r.LCP
	if r.TTI > 0 {
		m.TTI = r.TTI
	}
	m.CLS = r.CLS
	m.FID = r.FID
	m.TotalBlockingTime = r.TotalBlockingTime
	if r.SpeedIndex > 0 {
		m.SpeedIndex = r.SpeedIndex
	}
	scores := r.Scores
	m.Scores = &scores
}

// scoreIssues converts a low overall performance score into one issue.
func scoreIssues(score float64, pageName string) []finding.VisualIssue {
	if score >= scoreIssueThreshold {
		return nil
	}
	severity := finding.SeverityHigh
	if score < criticalScore {
		severity = finding.SeverityCritical
	}
	return []finding.VisualIssue{{
		Page:     pageName,
		Severity: severity,
		Category: finding.CategoryPerformance,
		Description: fmt.Sprintf("Overall performance score %.0f%% is below the %.0f%% target",
			score*100, scoreIssueThreshold*100),
		Recommendation:    "Profile the largest contentful paint and total blocking time; defer non-critical scripts and optimize images.",
		PerformanceImpact: 1 - score,
	}}
}
