package analyze

import (
	"testing"

	"github.com/neboloop/vizaudit/internal/finding"
)

func TestParseCritique(t *testing.T) {
	response := `[
		{"severity": "high", "category": "layout", "description": "Hero text overlaps the nav", "recommendation": "Add top padding"},
		{"severity": "low", "category": "color", "description": "Muted footer links", "recommendation": "Darken link color"}
	]`

	issues, err := ParseCritique(response, "home", "home-final.png")
	if err != nil {
		t.Fatalf("ParseCritique failed: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(issues))
	}
	if issues[0].Severity != finding.SeverityHigh || issues[0].Category != finding.CategoryLayout {
		t.Errorf("first issue mis-parsed: %+v", issues[0])
	}
	if issues[0].Page != "home" || issues[0].Screenshot != "home-final.png" {
		t.Errorf("issue not tagged with page/screenshot: %+v", issues[0])
	}
}

func TestParseCritiqueStripsCodeFence(t *testing.T) {
	response := "```json\n[{\"severity\":\"medium\",\"category\":\"typography\",\"description\":\"Tiny label text\",\"recommendation\":\"Bump to 14px\"}]\n```"
	issues, err := ParseCritique(response, "home", "s.png")
	if err != nil {
		t.Fatalf("ParseCritique failed on fenced response: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
}

func TestParseCritiqueDropsEntriesWithoutDescription(t *testing.T) {
	response := `[
		{"severity": "high", "category": "layout", "description": "", "recommendation": "n/a"},
		{"severity": "high", "category": "layout", "description": "Real problem", "recommendation": "Fix it"}
	]`
	issues, err := ParseCritique(response, "home", "s.png")
	if err != nil {
		t.Fatalf("ParseCritique failed: %v", err)
	}
	if len(issues) != 1 || issues[0].Description != "Real problem" {
		t.Errorf("partial entries not dropped individually: %+v", issues)
	}
}

func TestParseCritiqueCoercesUnknownEnums(t *testing.T) {
	response := `[{"severity": "blocker", "category": "aesthetics", "description": "Odd spacing", "recommendation": "Tune it"}]`
	issues, err := ParseCritique(response, "home", "s.png")
	if err != nil {
		t.Fatalf("ParseCritique failed: %v", err)
	}
	if issues[0].Severity != finding.SeverityMedium {
		t.Errorf("unknown severity not coerced: %q", issues[0].Severity)
	}
	if issues[0].Category != finding.CategoryConsistency {
		t.Errorf("unknown category not coerced: %q", issues[0].Category)
	}
}

func TestParseCritiqueMalformedReturnsError(t *testing.T) {
	if _, err := ParseCritique("I think the page looks great!", "home", "s.png"); err == nil {
		t.Error("expected error for non-JSON response")
	}
}

func TestParseCritiqueProseWrappedArray(t *testing.T) {
	response := `Here is my analysis: [{"severity":"low","category":"layout","description":"Slight misalignment","recommendation":"Align to grid"}] Hope this helps.`
	issues, err := ParseCritique(response, "home", "s.png")
	if err != nil {
		t.Fatalf("ParseCritique failed on prose-wrapped array: %v", err)
	}
	if len(issues) != 1 {
		t.Errorf("got %d issues, want 1", len(issues))
	}
}
