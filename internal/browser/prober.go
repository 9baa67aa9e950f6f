package browser

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/neboloop/vizaudit/internal/scenario"
)

// Prober drives interaction sequences against a named, selector-scoped DOM
// subtree, capturing before/after cropped screenshots per interaction.
type Prober struct {
	executor *Executor
	shotDir  string
	logger   *slog.Logger
}

// NewProber creates a prober writing component screenshots under shotDir.
func NewProber(executor *Executor, shotDir string) *Prober {
	return &Prober{
		executor: executor,
		shotDir:  shotDir,
		logger:   slog.Default().With("component", "prober"),
	}
}

// Probe runs a component test. A missing component root is a soft failure:
// logged, no issue, scenario continues.
func (p *Prober) Probe(ctx context.Context, page playwright.Page, comp scenario.ComponentTest, configName string) {
	log := p.logger.With("config", configName, "target", comp.Name)

	root := page.Locator(comp.Selector).First()
	if err := root.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(visibilityWait.Milliseconds())),
	}); err != nil {
		log.Warn("component not found, skipping probe", "selector", comp.Selector)
		return
	}

	for i, interaction := range comp.Interactions {
		p.capture(root, comp.Name, configName, i, "before", log)
		p.executor.PerformScoped(ctx, page, root, interaction, configName)

		// Give transitions a moment before the after shot.
		time.Sleep(300 * time.Millisecond)
		p.capture(root, comp.Name, configName, i, "after", log)
	}
}

func (p *Prober) capture(root playwright.Locator, compName, configName string, idx int, phase string, log *slog.Logger) {
	name := fmt.Sprintf("%s-%s-%d-%s.png", configName, compName, idx, phase)
	path := filepath.Join(p.shotDir, "components", name)
	if _, err := root.Screenshot(playwright.LocatorScreenshotOptions{
		Path: playwright.String(path),
	}); err != nil {
		log.Warn("component screenshot failed", "path", path, "error", err)
	}
}
