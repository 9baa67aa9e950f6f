package report

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neboloop/vizaudit/internal/finding"
)

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, color.White)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestAnnotateDrawsOnOwnScreenshot(t *testing.T) {
	dir := t.TempDir()
	shotDir := filepath.Join(dir, "screenshots")
	require.NoError(t, os.MkdirAll(shotDir, 0o755))
	writeTestPNG(t, filepath.Join(shotDir, "home-a11y.png"))

	snap := Snapshot{
		ScreenshotDir: "screenshots",
		Issues: []finding.VisualIssue{{
			Page:       "home",
			Severity:   finding.SeverityHigh,
			Category:   finding.CategoryAccessibility,
			Screenshot: "home-a11y.png",
			Bounds:     &finding.Bounds{X: 10, Y: 10, Width: 50, Height: 20},
		}},
	}
	NewGenerator(dir).Annotate(snap)

	annotated := filepath.Join(shotDir, "annotated", "home-a11y.png")
	info, err := os.Stat(annotated)
	require.NoError(t, err, "annotated copy not written")
	assert.Greater(t, info.Size(), int64(0))
}

func TestAnnotateBoundsOnlyIssueUsesFinalScreenshot(t *testing.T) {
	dir := t.TempDir()
	shotDir := filepath.Join(dir, "screenshots")
	require.NoError(t, os.MkdirAll(shotDir, 0o755))
	writeTestPNG(t, filepath.Join(shotDir, "landing-desktop-final.png"))

	// Shaped like a focus-visibility probe finding: element bounds recorded,
	// no screenshot of its own.
	snap := Snapshot{
		ScreenshotDir: "screenshots",
		Issues: []finding.VisualIssue{{
			Page:          "landing-desktop",
			Severity:      finding.SeverityHigh,
			Category:      finding.CategoryAccessibility,
			WCAGViolation: "2.4.7 Focus Visible",
			Bounds:        &finding.Bounds{X: 20, Y: 40, Width: 80, Height: 30},
		}},
	}
	NewGenerator(dir).Annotate(snap)

	annotated := filepath.Join(shotDir, "annotated", "landing-desktop-final.png")
	if _, err := os.Stat(annotated); err != nil {
		t.Fatalf("bounds-only issue produced no annotated copy: %v", err)
	}
}

func TestAnnotateSkipsIssuesWithoutBounds(t *testing.T) {
	dir := t.TempDir()
	shotDir := filepath.Join(dir, "screenshots")
	require.NoError(t, os.MkdirAll(shotDir, 0o755))
	writeTestPNG(t, filepath.Join(shotDir, "home-final.png"))

	// Shaped like a vision-critique finding: screenshot but no bounds.
	snap := Snapshot{
		ScreenshotDir: "screenshots",
		Issues: []finding.VisualIssue{{
			Page:       "home",
			Severity:   finding.SeverityMedium,
			Category:   finding.CategoryLayout,
			Screenshot: "home-final.png",
		}},
	}
	NewGenerator(dir).Annotate(snap)

	entries, err := os.ReadDir(filepath.Join(shotDir, "annotated"))
	if err == nil && len(entries) > 0 {
		t.Errorf("issues without bounds must not be annotated, got %d files", len(entries))
	}
}
