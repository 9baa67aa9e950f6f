package browser

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/neboloop/vizaudit/internal/finding"
	"github.com/neboloop/vizaudit/internal/scenario"
)

// Verifier executes a state's setup sequence and evaluates its declarative
// assertions, converting failures into issues instead of aborting the run.
type Verifier struct {
	executor *Executor
	shotDir  string
	logger   *slog.Logger
}

// NewVerifier creates a verifier writing state screenshots under shotDir.
func NewVerifier(executor *Executor, shotDir string) *Verifier {
	return &Verifier{
		executor: executor,
		shotDir:  shotDir,
		logger:   slog.Default().With("component", "verifier"),
	}
}

// Verify runs one state and returns issues for every failed assertion.
func (v *Verifier) Verify(ctx context.Context, page playwright.Page, state scenario.TestState, configName string) []finding.VisualIssue {
	log := v.logger.With("config", configName, "state", state.Name)

	for _, action := range state.Setup {
		v.executor.Perform(ctx, page, action, configName)
	}

	var issues []finding.VisualIssue
	for _, assertion := range state.Assertions {
		ok, detail := v.check(page, assertion)
		if ok {
			continue
		}
		log.Warn("state assertion failed", "type", string(assertion.Type),
			"selector", assertion.Selector, "detail", detail)

		severity := finding.SeverityMedium
		if assertion.Type == scenario.AssertVisible || assertion.Type == scenario.AssertHidden {
			severity = finding.SeverityHigh
		}
		issues = append(issues, finding.VisualIssue{
			Page:      configName,
			Component: state.Name,
			Severity:  severity,
			Category:  finding.CategoryInteraction,
			Description: fmt.Sprintf("State %q failed %s assertion on %s: %s",
				state.Name, assertion.Type, assertion.Selector, detail),
			Recommendation: "Verify the interaction wiring and the expected DOM state for this flow.",
		})
	}

	if state.Screenshot {
		path := filepath.Join(v.shotDir, fmt.Sprintf("%s-state-%s.png", configName, state.Name))
		if _, err := page.Screenshot(playwright.PageScreenshotOptions{
			Path:     playwright.String(path),
			FullPage: playwright.Bool(true),
		}); err != nil {
			log.Warn("state screenshot failed", "error", err)
		}
	}

	return issues
}

// check evaluates one assertion. The boolean is pass/fail; detail explains a
// failure for the issue description.
func (v *Verifier) check(page playwright.Page, a scenario.StateAssertion) (bool, string) {
	locator := page.Locator(a.Selector).First()

	switch a.Type {
	case scenario.AssertVisible:
		visible, err := locator.IsVisible()
		if err != nil {
			return false, fmt.Sprintf("visibility check errored: %v", err)
		}
		if !visible {
			return false, "element is not visible"
		}
		return true, ""

	case scenario.AssertHidden:
		visible, err := locator.IsVisible()
		if err != nil {
			// An unqueryable element counts as hidden.
			return true, ""
		}
		if visible {
			return false, "element is unexpectedly visible"
		}
		return true, ""

	case scenario.AssertText:
		text, err := locator.TextContent()
		if err != nil {
			return false, fmt.Sprintf("element not found: %v", err)
		}
		if !strings.Contains(text, a.Expected) {
			return false, fmt.Sprintf("text %q does not contain %q", truncate(text, 80), a.Expected)
		}
		return true, ""

	case scenario.AssertAttribute:
		value, err := locator.GetAttribute(a.Attribute)
		if err != nil {
			return false, fmt.Sprintf("element not found: %v", err)
		}
		if value != a.Expected {
			return false, fmt.Sprintf("attribute %s = %q, expected %q", a.Attribute, value, a.Expected)
		}
		return true, ""

	case scenario.AssertClass:
		value, err := locator.GetAttribute("class")
		if err != nil {
			return false, fmt.Sprintf("element not found: %v", err)
		}
		if !hasClass(value, a.Expected) {
			return false, fmt.Sprintf("class list %q is missing %q", value, a.Expected)
		}
		return true, ""
	}

	return false, fmt.Sprintf("unknown assertion type %q", a.Type)
}

func hasClass(classList, class string) bool {
	for _, c := range strings.Fields(classList) {
		if c == class {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
