package report

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"github.com/neboloop/vizaudit/internal/finding"
)

// severityColors are the annotation stroke colors, matching the report CSS.
var severityColors = map[finding.Severity][3]int{
	finding.SeverityCritical: {0xd3, 0x2f, 0x2f},
	finding.SeverityHigh:     {0xf5, 0x7c, 0x00},
	finding.SeverityMedium:   {0xfb, 0xc0, 0x2d},
	finding.SeverityLow:      {0x38, 0x8e, 0x3c},
}

// Annotate draws a severity-colored rectangle around each issue's element
// bounds on a copy of its screenshot, saved under screenshots/annotated/.
// Issues carrying bounds but no screenshot of their own (the accessibility
// probes report element boxes against the whole page) are drawn on the
// scenario's final full-page screenshot. Best-effort: a missing or unreadable
// screenshot skips that issue.
func (g *Generator) Annotate(snap Snapshot) {
	outDir := filepath.Join(g.outDir, snap.ScreenshotDir, "annotated")

	// One annotated copy per screenshot, even when several issues share it.
	byShot := make(map[string][]finding.VisualIssue)
	for _, issue := range snap.Issues {
		if issue.Bounds == nil {
			continue
		}
		shot := issue.Screenshot
		if shot == "" {
			shot = issue.Page + "-final.png"
		}
		byShot[shot] = append(byShot[shot], issue)
	}
	if len(byShot) == 0 {
		return
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		g.logger.Warn("annotated dir not created", "dir", outDir, "error", err)
		return
	}

	for shot, issues := range byShot {
		src := g.findScreenshot(snap.ScreenshotDir, shot)
		if src == "" {
			g.logger.Warn("screenshot for annotation not found", "screenshot", shot)
			continue
		}
		if err := annotateOne(src, filepath.Join(outDir, filepath.Base(shot)), issues); err != nil {
			g.logger.Warn("annotation failed", "screenshot", shot, "error", err)
		}
	}
}

// findScreenshot locates a screenshot by basename anywhere under the
// screenshot tree, excluding prior annotated copies so regeneration always
// draws on the original capture. Issues record basenames only.
func (g *Generator) findScreenshot(dir, name string) string {
	base := filepath.Base(name)
	for _, rel := range g.collectScreenshots(dir) {
		if strings.Contains(rel, "/annotated/") {
			continue
		}
		if filepath.Base(rel) == base {
			return filepath.Join(g.outDir, rel)
		}
	}
	return ""
}

func annotateOne(src, dst string, issues []finding.VisualIssue) error {
	img, err := gg.LoadImage(src)
	if err != nil {
		return err
	}
	dc := gg.NewContextForImage(img)
	dc.SetLineWidth(4)
	for _, issue := range issues {
		c := severityColors[issue.Severity]
		dc.SetRGB255(c[0], c[1], c[2])
		dc.DrawRectangle(issue.Bounds.X, issue.Bounds.Y, issue.Bounds.Width, issue.Bounds.Height)
		dc.Stroke()
	}
	return dc.SavePNG(dst)
}
