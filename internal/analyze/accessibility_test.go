package analyze

import (
	"strings"
	"testing"

	"github.com/neboloop/vizaudit/internal/finding"
)

func TestMapViolationSeriousImpact(t *testing.T) {
	v := RuleViolation{
		ID:          "color-contrast",
		Impact:      "serious",
		Description: "Elements must have sufficient color contrast",
		Help:        "Ensure contrast meets WCAG AA",
		Tags:        []string{"wcag2aa", "wcag143"},
		Nodes: []RuleNode{
			{HTML: `<p class="muted">hello</p>`, Impact: "serious"},
			{HTML: `<span class="hint">hi</span>`, Impact: "serious"},
		},
	}

	issue := mapViolation(v, "login-page")

	if issue.Severity != finding.SeverityHigh {
		t.Errorf("severity = %q, want high", issue.Severity)
	}
	if issue.Category != finding.CategoryAccessibility {
		t.Errorf("category = %q, want accessibility", issue.Category)
	}
	if !strings.Contains(issue.Description, "(2 instances)") {
		t.Errorf("description %q missing instance count", issue.Description)
	}
	if issue.WCAGViolation != "wcag2aa, wcag143" {
		t.Errorf("wcag tags = %q", issue.WCAGViolation)
	}
	if issue.CodeSnippet != `<p class="muted">hello</p>` {
		t.Errorf("code snippet = %q, want first node html", issue.CodeSnippet)
	}
	if issue.Page != "login-page" {
		t.Errorf("page = %q", issue.Page)
	}
}

func TestMapViolationImpactMapping(t *testing.T) {
	cases := map[string]finding.Severity{
		"critical": finding.SeverityCritical,
		"serious":  finding.SeverityHigh,
		"moderate": finding.SeverityMedium,
		"minor":    finding.SeverityLow,
		"":         finding.SeverityLow,
	}
	for impact, want := range cases {
		issue := mapViolation(RuleViolation{Impact: impact}, "p")
		if issue.Severity != want {
			t.Errorf("impact %q -> %q, want %q", impact, issue.Severity, want)
		}
	}
}

func TestLowContrastIssues(t *testing.T) {
	samples := []ContrastSample{
		{Text: "fine", Color: "rgb(0, 0, 0)", Background: "rgb(255, 255, 255)", FontSize: 16},
		{Text: "bad", Color: "rgb(200, 200, 200)", Background: "rgb(255, 255, 255)", FontSize: 16},
		{Text: "unparsable", Color: "currentcolor", Background: "rgb(255, 255, 255)", FontSize: 16},
		{Text: "translucent", Color: "rgb(0, 0, 0)", Background: "rgba(255, 255, 255, 0.4)", FontSize: 16},
	}

	issues := LowContrastIssues(samples, "home", 5)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1: %+v", len(issues), issues)
	}
	issue := issues[0]
	if issue.Severity != finding.SeverityMedium {
		t.Errorf("severity = %q, want medium", issue.Severity)
	}
	if issue.WCAGViolation != "1.4.3 Contrast (Minimum)" {
		t.Errorf("wcag tag = %q", issue.WCAGViolation)
	}
	if !strings.Contains(issue.Description, "bad") {
		t.Errorf("description %q missing sampled text", issue.Description)
	}
}

func TestLowContrastIssuesCapped(t *testing.T) {
	bad := ContrastSample{Color: "rgb(210, 210, 210)", Background: "rgb(255, 255, 255)", FontSize: 14}
	samples := make([]ContrastSample, 10)
	for i := range samples {
		samples[i] = bad
	}
	if got := LowContrastIssues(samples, "home", 5); len(got) != 5 {
		t.Errorf("got %d issues, want cap of 5", len(got))
	}
}
