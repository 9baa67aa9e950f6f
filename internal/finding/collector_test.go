package finding

import "testing"

func TestSeverityRankOrder(t *testing.T) {
	if !(SeverityCritical.Rank() < SeverityHigh.Rank() &&
		SeverityHigh.Rank() < SeverityMedium.Rank() &&
		SeverityMedium.Rank() < SeverityLow.Rank()) {
		t.Fatalf("severity ranks out of order: %d %d %d %d",
			SeverityCritical.Rank(), SeverityHigh.Rank(), SeverityMedium.Rank(), SeverityLow.Rank())
	}
}

func TestSortBySeverityStable(t *testing.T) {
	c := NewCollector()
	c.AddIssue(VisualIssue{Page: "a", Severity: SeverityLow, Description: "low-1"})
	c.AddIssue(VisualIssue{Page: "a", Severity: SeverityCritical, Description: "crit-1"})
	c.AddIssue(VisualIssue{Page: "a", Severity: SeverityHigh, Description: "high-1"})
	c.AddIssue(VisualIssue{Page: "a", Severity: SeverityHigh, Description: "high-2"})
	c.AddIssue(VisualIssue{Page: "a", Severity: SeverityCritical, Description: "crit-2"})

	sorted := c.SortedIssues()
	want := []string{"crit-1", "crit-2", "high-1", "high-2", "low-1"}
	for i, w := range want {
		if sorted[i].Description != w {
			t.Errorf("sorted[%d] = %q, want %q", i, sorted[i].Description, w)
		}
	}
}

func TestSortDoesNotMutateCollector(t *testing.T) {
	c := NewCollector()
	c.AddIssue(VisualIssue{Severity: SeverityLow, Description: "first"})
	c.AddIssue(VisualIssue{Severity: SeverityCritical, Description: "second"})

	_ = c.SortedIssues()

	issues := c.Issues()
	if issues[0].Description != "first" || issues[1].Description != "second" {
		t.Errorf("insertion order lost: %q, %q", issues[0].Description, issues[1].Description)
	}
}

func TestCountBySeverity(t *testing.T) {
	c := NewCollector()
	c.AddIssues([]VisualIssue{
		{Severity: SeverityCritical},
		{Severity: SeverityHigh},
		{Severity: SeverityHigh},
	})
	if got := c.CountBySeverity(SeverityHigh); got != 2 {
		t.Errorf("CountBySeverity(high) = %d, want 2", got)
	}
	if got := c.CountBySeverity(SeverityLow); got != 0 {
		t.Errorf("CountBySeverity(low) = %d, want 0", got)
	}
}

func TestParseSeverityCoercion(t *testing.T) {
	cases := map[string]Severity{
		"critical": SeverityCritical,
		"HIGH":     SeverityHigh,
		" medium ": SeverityMedium,
		"low":      SeverityLow,
		"blocker":  SeverityMedium, // unknown coerces to medium
		"":         SeverityMedium,
	}
	for in, want := range cases {
		if got := ParseSeverity(in); got != want {
			t.Errorf("ParseSeverity(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseCategoryCoercion(t *testing.T) {
	if got := ParseCategory("Accessibility"); got != CategoryAccessibility {
		t.Errorf("ParseCategory(Accessibility) = %q", got)
	}
	if got := ParseCategory("vibes"); got != CategoryConsistency {
		t.Errorf("ParseCategory(vibes) = %q, want consistency", got)
	}
}
