package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/neboloop/vizaudit/internal/finding"
	"github.com/neboloop/vizaudit/internal/scenario"
)

// wcagTags restricts rule scans to WCAG 2.0/2.1 A and AA.
var wcagTags = []string{"wcag2a", "wcag2aa", "wcag21a", "wcag21aa"}

// focusableSelectors is the fixed set sampled by the focus-visibility probe.
var focusableSelectors = []string{
	"a[href]",
	"button",
	"input",
	"select",
	"textarea",
	"[tabindex]:not([tabindex='-1'])",
}

const (
	tabPresses          = 10
	minDistinctFocus    = 3
	maxContrastFindings = 5
)

// Accessibility runs the rule engine plus the engine-native probes against a
// live page. Internal failures are logged and produce partial results, never
// errors.
type Accessibility struct {
	engine RuleEngine
	logger *slog.Logger
}

// NewAccessibility creates the analyzer. A nil engine gets the null default.
func NewAccessibility(engine RuleEngine) *Accessibility {
	if engine == nil {
		engine = NullRuleEngine{}
	}
	return &Accessibility{
		engine: engine,
		logger: slog.Default().With("component", "a11y"),
	}
}

// Audit scans one page and returns every accessibility finding.
func (a *Accessibility) Audit(ctx context.Context, page playwright.Page, cfg *scenario.TestConfig) []finding.VisualIssue {
	opts := cfg.Accessibility
	if opts == nil || !opts.Enabled {
		return nil
	}

	var issues []finding.VisualIssue

	report, err := a.engine.Analyze(ctx, page, wcagTags)
	if err != nil {
		a.logger.Warn("rule scan failed", "page", cfg.Name, "error", err)
	} else {
		for _, v := range report.Violations {
			issues = append(issues, mapViolation(v, cfg.Name))
		}
	}

	if opts.FocusVisibility {
		issues = append(issues, a.probeFocusVisibility(page, cfg.Name)...)
	}
	if opts.KeyboardNav {
		issues = append(issues, a.probeKeyboardNav(page, cfg.Name)...)
	}
	if opts.Contrast {
		issues = append(issues, a.probeContrast(page, cfg.Name)...)
	}

	return issues
}

// mapViolation converts one rule violation into an issue. Impact maps
// critical->critical, serious->high, moderate->medium, anything else low.
func mapViolation(v RuleViolation, pageName string) finding.VisualIssue {
	var severity finding.Severity
	switch v.Impact {
	case "critical":
		severity = finding.SeverityCritical
	case "serious":
		severity = finding.SeverityHigh
	case "moderate":
		severity = finding.SeverityMedium
	default:
		severity = finding.SeverityLow
	}

	snippet := ""
	if len(v.Nodes) > 0 {
		snippet = v.Nodes[0].HTML
	}

	return finding.VisualIssue{
		Page:           pageName,
		Severity:       severity,
		Category:       finding.CategoryAccessibility,
		Description:    fmt.Sprintf("%s (%d instances)", v.Description, len(v.Nodes)),
		Recommendation: v.Help,
		WCAGViolation:  strings.Join(v.Tags, ", "),
		CodeSnippet:    snippet,
	}
}

type focusSample struct {
	Selector string          `json:"selector"`
	Visible  bool            `json:"visible"`
	Bounds   *finding.Bounds `json:"bounds"`
}

const focusProbeJS = `(selectors) => {
	const out = [];
	for (const sel of selectors) {
		let els;
		try { els = Array.from(document.querySelectorAll(sel)).slice(0, 3); }
		catch (e) { continue; }
		if (els.length === 0) continue;
		let visible = false;
		let bounds = null;
		for (const el of els) {
			const before = getComputedStyle(el);
			const baseline = before.borderColor + '/' + before.borderWidth;
			el.focus({ preventScroll: true });
			const st = getComputedStyle(el);
			const hasOutline = st.outlineStyle !== 'none' && parseFloat(st.outlineWidth) > 0;
			const hasShadow = st.boxShadow && st.boxShadow !== 'none';
			const borderDelta = (st.borderColor + '/' + st.borderWidth) !== baseline;
			el.blur();
			if (hasOutline || hasShadow || borderDelta) { visible = true; break; }
			if (!bounds) {
				const r = el.getBoundingClientRect();
				bounds = { x: r.x, y: r.y, width: r.width, height: r.height };
			}
		}
		out.push({ selector: sel, visible: visible, bounds: bounds });
	}
	return out;
}`

// probeFocusVisibility focuses a sample of each focusable selector class and
// checks for a visible focus affordance.
func (a *Accessibility) probeFocusVisibility(page playwright.Page, pageName string) []finding.VisualIssue {
	raw, err := page.Evaluate(focusProbeJS, focusableSelectors)
	if err != nil {
		a.logger.Warn("focus-visibility probe failed", "page", pageName, "error", err)
		return nil
	}

	var samples []focusSample
	if err := decodeEval(raw, &samples); err != nil {
		a.logger.Warn("focus-visibility probe returned unexpected shape", "error", err)
		return nil
	}

	var issues []finding.VisualIssue
	for _, s := range samples {
		if s.Visible {
			continue
		}
		issues = append(issues, finding.VisualIssue{
			Page:     pageName,
			Severity: finding.SeverityHigh,
			Category: finding.CategoryAccessibility,
			Description: fmt.Sprintf(
				"Elements matching %q show no visible focus indicator (no outline, box-shadow, or border change)", s.Selector),
			Recommendation: "Add a :focus-visible style with a clearly visible outline or box-shadow.",
			WCAGViolation:  "2.4.7 Focus Visible",
			AffectedUsers:  []string{"keyboard users", "low-vision users"},
			Bounds:         s.Bounds,
		})
	}
	return issues
}

const activeElementJS = `() => {
	const el = document.activeElement;
	if (!el || el === document.body) return '';
	const cls = el.className && el.className.toString ? el.className.toString() : '';
	return el.tagName + '#' + (el.id || '') + '.' + cls + ':' + (el.name || '');
}`

// probeKeyboardNav presses Tab repeatedly and counts distinct focus stops.
func (a *Accessibility) probeKeyboardNav(page playwright.Page, pageName string) []finding.VisualIssue {
	distinct := make(map[string]bool)
	for i := 0; i < tabPresses; i++ {
		if err := page.Keyboard().Press("Tab"); err != nil {
			a.logger.Warn("tab press failed", "page", pageName, "error", err)
			return nil
		}
		raw, err := page.Evaluate(activeElementJS)
		if err != nil {
			continue
		}
		if key, ok := raw.(string); ok && key != "" {
			distinct[key] = true
		}
	}

	if len(distinct) >= minDistinctFocus {
		return nil
	}

	return []finding.VisualIssue{{
		Page:     pageName,
		Severity: finding.SeverityHigh,
		Category: finding.CategoryAccessibility,
		Description: fmt.Sprintf(
			"Tab navigation reached only %d distinct focusable elements after %d presses",
			len(distinct), tabPresses),
		Recommendation: "Ensure interactive elements are in the tab order and not trapped behind tabindex=-1 or focus traps.",
		WCAGViolation:  "2.1.1 Keyboard",
		AffectedUsers:  []string{"keyboard users", "screen reader users"},
	}}
}

// ContrastSample is one foreground/background pair sampled from the page.
type ContrastSample struct {
	Text       string          `json:"text"`
	Color      string          `json:"color"`
	Background string          `json:"background"`
	FontSize   float64         `json:"fontSize"`
	Bold       bool            `json:"bold"`
	Tag        string          `json:"tag"`
	Bounds     *finding.Bounds `json:"bounds"`
}

const contrastProbeJS = `() => {
	const out = [];
	const els = document.querySelectorAll('body *');
	for (const el of els) {
		if (out.length >= 400) break;
		if (!el.innerText || el.children.length > 0) continue;
		const st = getComputedStyle(el);
		if (st.visibility === 'hidden' || st.display === 'none') continue;
		let bg = st.backgroundColor;
		let node = el;
		while (bg === 'rgba(0, 0, 0, 0)' && node.parentElement) {
			node = node.parentElement;
			bg = getComputedStyle(node).backgroundColor;
		}
		const r = el.getBoundingClientRect();
		if (r.width === 0 || r.height === 0) continue;
		out.push({
			text: el.innerText.slice(0, 40),
			color: st.color,
			background: bg,
			fontSize: parseFloat(st.fontSize),
			bold: parseInt(st.fontWeight, 10) >= 700,
			tag: el.tagName.toLowerCase(),
			bounds: { x: r.x, y: r.y, width: r.width, height: r.height },
		});
	}
	return out;
}`

// probeContrast samples computed color pairs and applies the WCAG 1.4.3
// relative-luminance ratio.
func (a *Accessibility) probeContrast(page playwright.Page, pageName string) []finding.VisualIssue {
	raw, err := page.Evaluate(contrastProbeJS)
	if err != nil {
		a.logger.Warn("contrast probe failed", "page", pageName, "error", err)
		return nil
	}

	var samples []ContrastSample
	if err := decodeEval(raw, &samples); err != nil {
		a.logger.Warn("contrast probe returned unexpected shape", "error", err)
		return nil
	}

	return LowContrastIssues(samples, pageName, maxContrastFindings)
}

// LowContrastIssues filters samples through the WCAG AA ratio and returns up
// to max issues for the worst offenders, in sample order.
func LowContrastIssues(samples []ContrastSample, pageName string, max int) []finding.VisualIssue {
	var issues []finding.VisualIssue
	for _, s := range samples {
		if len(issues) >= max {
			break
		}
		fg, okFg := ParseCSSColor(s.Color)
		bg, okBg := ParseCSSColor(s.Background)
		if !okFg || !okBg {
			continue
		}
		// Skip translucent backgrounds; the effective color is unknown.
		if bg.A < 1 {
			continue
		}
		if MeetsContrastAA(fg, bg, s.FontSize, s.Bold) {
			continue
		}
		ratio := ContrastRatio(fg, bg)
		issues = append(issues, finding.VisualIssue{
			Page:     pageName,
			Severity: finding.SeverityMedium,
			Category: finding.CategoryAccessibility,
			Description: fmt.Sprintf("Low contrast %s on <%s> %q (%s on %s)",
				FormatRatio(ratio), s.Tag, s.Text, s.Color, s.Background),
			Recommendation: "Increase the contrast ratio to at least 4.5:1 for normal text or 3:1 for large text.",
			WCAGViolation:  "1.4.3 Contrast (Minimum)",
			AffectedUsers:  []string{"low-vision users"},
			Bounds:         s.Bounds,
		})
	}
	return issues
}
