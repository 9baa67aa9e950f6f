// Package perfaudit is the out-of-process performance audit collaborator.
// It launches its own headless Chromium via chromedp, measures Core Web
// Vitals against a cold page load, and derives heuristic category scores.
// The instance it launches is always terminated, whatever the outcome.
package perfaudit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/performance"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/neboloop/vizaudit/internal/analyze"
	"github.com/neboloop/vizaudit/internal/finding"
)

const defaultTimeout = 45 * time.Second

// Auditor implements analyze.PerfAuditor with an isolated Chromium instance
// per run, so measurements are not skewed by the main audit session.
type Auditor struct {
	timeout time.Duration
	logger  *slog.Logger
}

// New creates an auditor with the default timeout.
func New() *Auditor {
	return &Auditor{
		timeout: defaultTimeout,
		logger:  slog.Default().With("component", "perfaudit"),
	}
}

// vitalsProbeJS collects paint timing, buffered LCP/CLS/FID observer entries,
// and long-task totals after the load settles.
const vitalsProbeJS = `(() => {
	const nav = performance.getEntriesByType('navigation')[0];
	const paint = performance.getEntriesByType('paint');
	const fcpEntry = paint.find((p) => p.name === 'first-contentful-paint');

	const lcpEntries = performance.getEntriesByType('largest-contentful-paint');
	const lcp = lcpEntries.length ? lcpEntries[lcpEntries.length - 1].startTime : 0;

	let cls = 0;
	for (const e of performance.getEntriesByType('layout-shift')) {
		if (!e.hadRecentInput) cls += e.value;
	}

	let tbt = 0;
	for (const e of performance.getEntriesByType('longtask')) {
		const blocking = e.duration - 50;
		if (blocking > 0) tbt += blocking;
	}

	const fidEntries = performance.getEntriesByType('first-input');
	const fid = fidEntries.length ? fidEntries[0].processingStart - fidEntries[0].startTime : 0;

	return {
		fcp: fcpEntry ? fcpEntry.startTime : 0,
		lcp: lcp,
		tti: nav ? nav.domInteractive : 0,
		cls: cls,
		fid: fid,
		tbt: tbt,
		loadComplete: nav ? nav.loadEventEnd : 0,
	};
})()`

// qualityProbeJS gathers the signals behind the accessibility, best-practices,
// and SEO heuristic scores.
const qualityProbeJS = `(() => {
	const imgs = Array.from(document.images);
	const missingAlt = imgs.filter((i) => !i.hasAttribute('alt')).length;
	const links = Array.from(document.querySelectorAll('a'));
	const emptyLinks = links.filter((a) => !a.textContent.trim() && !a.getAttribute('aria-label')).length;
	return {
		images: imgs.length,
		missingAlt: missingAlt,
		links: links.length,
		emptyLinks: emptyLinks,
		https: location.protocol === 'https:',
		hasTitle: !!document.title,
		hasMetaDescription: !!document.querySelector('meta[name="description"]'),
		hasViewportMeta: !!document.querySelector('meta[name="viewport"]'),
		hasLang: !!document.documentElement.lang,
		docErrors: document.querySelectorAll('parsererror').length,
	};
})()`

type vitalsProbe struct {
	FCP          float64 `json:"fcp"`
	LCP          float64 `json:"lcp"`
	TTI          float64 `json:"tti"`
	CLS          float64 `json:"cls"`
	FID          float64 `json:"fid"`
	TBT          float64 `json:"tbt"`
	LoadComplete float64 `json:"loadComplete"`
}

type qualityProbe struct {
	Images             int  `json:"images"`
	MissingAlt         int  `json:"missingAlt"`
	Links              int  `json:"links"`
	EmptyLinks         int  `json:"emptyLinks"`
	HTTPS              bool `json:"https"`
	HasTitle           bool `json:"hasTitle"`
	HasMetaDescription bool `json:"hasMetaDescription"`
	HasViewportMeta    bool `json:"hasViewportMeta"`
	HasLang            bool `json:"hasLang"`
	DocErrors          int  `json:"docErrors"`
}

// Run performs the audit. The allocator is cancelled via defer on every path.
func (a *Auditor) Run(ctx context.Context, url string) (*analyze.AuditResult, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, a.timeout)
	defer cancelRun()

	var vitals vitalsProbe
	var quality qualityProbe
	var cdpMetrics []*performance.Metric

	err := chromedp.Run(runCtx,
		performance.Enable(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Let late layout shifts and long tasks land before sampling.
		chromedp.Sleep(3*time.Second),
		chromedp.Evaluate(vitalsProbeJS, &vitals, awaitPromise),
		chromedp.Evaluate(qualityProbeJS, &quality, awaitPromise),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			cdpMetrics, err = performance.GetMetrics().Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("performance audit of %s failed: %w", url, err)
	}

	result := &analyze.AuditResult{
		FCP:               vitals.FCP,
		LCP:               vitals.LCP,
		TTI:               vitals.TTI,
		CLS:               vitals.CLS,
		FID:               vitals.FID,
		TotalBlockingTime: vitals.TBT,
		SpeedIndex:        vitals.LoadComplete,
	}
	result.Scores = finding.CategoryScores{
		Performance:   PerformanceScore(vitals.FCP, vitals.LCP, vitals.TBT, vitals.CLS),
		Accessibility: accessibilityScore(quality),
		BestPractices: bestPracticesScore(quality),
		SEO:           seoScore(quality),
	}

	a.logger.Info("performance audit complete", "url", url,
		"score", result.Scores.Performance, "lcp", result.LCP, "cdp_metrics", len(cdpMetrics))

	return result, nil
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// PerformanceScore maps Core Web Vitals onto a 0-1 score using the standard
// good/needs-improvement thresholds, equally weighted.
func PerformanceScore(fcp, lcp, tbt, cls float64) float64 {
	score := bandScore(fcp, 1800, 3000) +
		bandScore(lcp, 2500, 4000) +
		bandScore(tbt, 200, 600) +
		bandScore(cls*1000, 100, 250) // CLS thresholds 0.1 / 0.25
	return score / 4
}

// bandScore gives 1.0 below good, 0 above poor, linear in between.
func bandScore(value, good, poor float64) float64 {
	if value <= good {
		return 1
	}
	if value >= poor {
		return 0
	}
	return (poor - value) / (poor - good)
}

func accessibilityScore(q qualityProbe) float64 {
	score := 1.0
	if q.Images > 0 {
		score -= 0.4 * float64(q.MissingAlt) / float64(q.Images)
	}
	if q.Links > 0 {
		score -= 0.3 * float64(q.EmptyLinks) / float64(q.Links)
	}
	if !q.HasLang {
		score -= 0.2
	}
	return clamp01(score)
}

func bestPracticesScore(q qualityProbe) float64 {
	score := 1.0
	if !q.HTTPS {
		score -= 0.3
	}
	if q.DocErrors > 0 {
		score -= 0.2
	}
	if !q.HasViewportMeta {
		score -= 0.2
	}
	return clamp01(score)
}

func seoScore(q qualityProbe) float64 {
	score := 1.0
	if !q.HasTitle {
		score -= 0.4
	}
	if !q.HasMetaDescription {
		score -= 0.3
	}
	if !q.HasViewportMeta {
		score -= 0.2
	}
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
