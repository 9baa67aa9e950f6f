package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neboloop/vizaudit/internal/finding"
)

func TestEffortResolvesEveryPair(t *testing.T) {
	for _, sev := range finding.Severities {
		for _, cat := range finding.Categories {
			est := Effort(sev, cat)
			assert.NotEmpty(t, est.Label, "no effort label for %s/%s", sev, cat)
			assert.Greater(t, est.Hours, 0.0, "no effort hours for %s/%s", sev, cat)
		}
	}
}

func TestEffortUnknownPairFallsBack(t *testing.T) {
	est := Effort(finding.Severity("bogus"), finding.Category("bogus"))
	assert.Equal(t, "1-2 hours", est.Label)
}

func TestFormatTotalEffort(t *testing.T) {
	assert.Contains(t, FormatTotalEffort(16), "days")
	assert.Contains(t, FormatTotalEffort(39.9), "days")
	assert.Contains(t, FormatTotalEffort(40), "weeks")
	assert.Contains(t, FormatTotalEffort(120), "weeks")
}

func TestTaskListFiltersToCriticalAndHigh(t *testing.T) {
	snap := testSnapshot()
	out := buildTaskList(snap)

	require.Contains(t, out, "CRITICAL")
	require.Contains(t, out, "HIGH")
	assert.Contains(t, out, "Page is slow to become interactive")
	assert.Contains(t, out, "Focused button has no visible outline")
	assert.NotContains(t, out, "Muted footer links", "medium/low issues must not appear")
	assert.Contains(t, out, "Total estimated effort")
}

func TestTaskListEmptyRun(t *testing.T) {
	snap := testSnapshot()
	snap.Issues = nil
	out := buildTaskList(snap)
	assert.Contains(t, out, "No critical or high severity issues found")
	assert.NotContains(t, out, "Total estimated effort")
}

func TestTaskListSumsHours(t *testing.T) {
	snap := testSnapshot()
	// critical/performance (12h) + high/accessibility (3h) = 15h -> days.
	out := buildTaskList(snap)
	assert.Contains(t, out, "2 tasks")
	assert.Contains(t, out, "15.0 hours")
	assert.Contains(t, out, "days")
}
