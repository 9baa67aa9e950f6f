// Package audit is the run orchestrator: it owns the results directory, the
// browser session, the collaborator wiring, and the strict sequential
// execution of scenarios.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/neboloop/vizaudit/internal/analyze"
	"github.com/neboloop/vizaudit/internal/browser"
	"github.com/neboloop/vizaudit/internal/finding"
	"github.com/neboloop/vizaudit/internal/report"
	"github.com/neboloop/vizaudit/internal/scenario"
	"github.com/neboloop/vizaudit/internal/vision"
)

// resultsDirName is the parent for timestamped run directories.
const resultsDirName = "visual-audit-results"

// Options wires one audit run. Every capability left nil falls back to its
// disabled default, so a bare Options{BaseURL: ...} still runs end to end.
type Options struct {
	BaseURL     string
	OutputDir   string // parent of the run directory; default "."
	Headless    bool
	RecordVideo bool
	Scenarios   []scenario.TestConfig

	RuleEngine   analyze.RuleEngine
	PerfAuditor  analyze.PerfAuditor
	VisionClient vision.Client
}

// Runner executes one audit run end to end.
type Runner struct {
	opts      Options
	runID     string
	collector *finding.Collector
	logger    *slog.Logger
}

// NewRunner builds a runner. Empty scenario lists get the default sweep.
func NewRunner(opts Options) *Runner {
	if len(opts.Scenarios) == 0 {
		opts.Scenarios = scenario.DefaultScenarios()
	}
	runID := uuid.NewString()
	return &Runner{
		opts:      opts,
		runID:     runID,
		collector: finding.NewCollector(),
		logger:    slog.Default().With("component", "audit", "run_id", runID),
	}
}

// Run performs the full audit and returns the run directory. Only launch and
// output-directory failures abort; everything else degrades into findings or
// log lines.
func (r *Runner) Run(ctx context.Context) (string, error) {
	runDir, err := r.makeRunDir()
	if err != nil {
		return "", err
	}
	shotDir := filepath.Join(runDir, "screenshots")
	r.logger.Info("audit run starting", "base_url", r.opts.BaseURL,
		"scenarios", len(r.opts.Scenarios), "output", runDir)

	waitForTarget(ctx, r.opts.BaseURL, r.logger)

	session, err := browser.Launch(ctx, browser.Options{
		BaseURL:     r.opts.BaseURL,
		Headless:    r.opts.Headless,
		RecordVideo: r.opts.RecordVideo,
		VideoDir:    filepath.Join(runDir, "videos"),
	})
	if err != nil {
		return "", fmt.Errorf("browser launch failed: %w", err)
	}
	defer session.Teardown()

	executor := browser.NewExecutor(shotDir)
	prober := browser.NewProber(executor, shotDir)
	verifier := browser.NewVerifier(executor, shotDir)
	accessibility := analyze.NewAccessibility(r.opts.RuleEngine)
	performance := analyze.NewPerformance(r.opts.PerfAuditor)
	critique := analyze.NewCritique(r.opts.VisionClient)

	for i := range r.opts.Scenarios {
		cfg := &r.opts.Scenarios[i]
		r.runScenario(ctx, session, cfg, shotDir,
			executor, prober, verifier, accessibility, performance, critique)
	}

	snap := report.Snapshot{
		RunID:         r.runID,
		BaseURL:       r.opts.BaseURL,
		GeneratedAt:   time.Now(),
		Issues:        r.collector.Issues(),
		Metrics:       r.collector.Metrics(),
		ScreenshotDir: "screenshots",
	}
	if err := report.NewGenerator(runDir).WriteAll(snap); err != nil {
		return runDir, fmt.Errorf("report generation failed: %w", err)
	}

	r.logSummary(runDir)
	return runDir, nil
}

// runScenario executes one scenario. A panic or navigation failure is
// captured as exactly one critical interaction issue; the run continues with
// the next scenario.
func (r *Runner) runScenario(ctx context.Context, session *browser.Session,
	cfg *scenario.TestConfig, shotDir string,
	executor *browser.Executor, prober *browser.Prober, verifier *browser.Verifier,
	accessibility *analyze.Accessibility, performance *analyze.Performance,
	critique *analyze.Critique) {

	log := r.logger.With("scenario", cfg.Name)
	log.Info("scenario starting", "url", cfg.URL)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("scenario panicked", "panic", rec)
			r.collector.AddIssue(scenarioFailure(cfg.Name, fmt.Sprintf("scenario panicked: %v", rec)))
		}
	}()

	page, degraded, err := session.OpenPage(ctx, cfg)
	if err != nil {
		log.Error("scenario navigation failed", "error", err)
		r.collector.AddIssue(scenarioFailure(cfg.Name, fmt.Sprintf("page failed to load: %v", err)))
		return
	}

	runAnalyzers := true
	if degraded && cfg.StrictNavigation {
		log.Warn("navigation degraded under strict mode, skipping analyzers")
		runAnalyzers = false
	}

	if runAnalyzers && cfg.Performance {
		metrics, issues := performance.Measure(ctx, page, cfg, r.opts.BaseURL+cfg.URL)
		r.collector.AddMetrics(metrics)
		r.collector.AddIssues(issues)
	}
	if runAnalyzers {
		a11y := accessibility.Audit(ctx, page, cfg)
		if len(a11y) > 0 {
			shot := filepath.Join(shotDir, "accessibility", cfg.Name+"-a11y.png")
			if _, err := page.Screenshot(playwright.PageScreenshotOptions{
				Path:     playwright.String(shot),
				FullPage: playwright.Bool(true),
			}); err != nil {
				log.Warn("accessibility evidence screenshot failed", "error", err)
			} else {
				a11y = tagScreenshot(a11y, filepath.Base(shot))
			}
		}
		r.collector.AddIssues(a11y)
	}

	for _, action := range cfg.Actions {
		executor.Perform(ctx, page, action, cfg.Name)
	}
	for _, comp := range cfg.Components {
		prober.Probe(ctx, page, comp, cfg.Name)
	}
	for _, state := range cfg.States {
		r.collector.AddIssues(verifier.Verify(ctx, page, state, cfg.Name))
	}

	finalShot := filepath.Join(shotDir, cfg.Name+"-final.png")
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(finalShot),
		FullPage: playwright.Bool(true),
	}); err != nil {
		log.Warn("final screenshot failed", "error", err)
	} else if runAnalyzers {
		r.collector.AddIssues(critique.Run(ctx, finalShot, cfg.Name))
	}

	log.Info("scenario complete")
}

// tagScreenshot fills in the evidence screenshot for issues that have none,
// so the report's annotation pass can locate the image their bounds refer to.
func tagScreenshot(issues []finding.VisualIssue, name string) []finding.VisualIssue {
	for i := range issues {
		if issues[i].Screenshot == "" {
			issues[i].Screenshot = name
		}
	}
	return issues
}

// scenarioFailure is the single issue recorded for a failed scenario.
func scenarioFailure(name, detail string) finding.VisualIssue {
	return finding.VisualIssue{
		Page:           name,
		Severity:       finding.SeverityCritical,
		Category:       finding.CategoryInteraction,
		Description:    detail,
		Recommendation: "Check that the target is reachable and the scenario's URL and selectors are current.",
	}
}

// makeRunDir creates the timestamped run directory and its screenshot tree.
func (r *Runner) makeRunDir() (string, error) {
	parent := r.opts.OutputDir
	if parent == "" {
		parent = "."
	}
	runDir := filepath.Join(parent, resultsDirName, time.Now().Format("2006-01-02_15-04-05"))
	for _, sub := range []string{"components", "interactions", "accessibility", "annotated"} {
		if err := os.MkdirAll(filepath.Join(runDir, "screenshots", sub), 0o755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	}
	return runDir, nil
}

// logSummary prints the closing per-severity counts and artifact paths.
func (r *Runner) logSummary(runDir string) {
	r.logger.Info("audit run complete",
		"critical", r.collector.CountBySeverity(finding.SeverityCritical),
		"high", r.collector.CountBySeverity(finding.SeverityHigh),
		"medium", r.collector.CountBySeverity(finding.SeverityMedium),
		"low", r.collector.CountBySeverity(finding.SeverityLow),
		"report", filepath.Join(runDir, "index.html"),
		"tasks", filepath.Join(runDir, "task-list.md"),
	)
}
