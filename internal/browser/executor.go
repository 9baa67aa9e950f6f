package browser

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/neboloop/vizaudit/internal/scenario"
)

const (
	// visibilityWait bounds the wait for each fallback selector candidate.
	visibilityWait = 5 * time.Second

	defaultWaitMS = 1000
)

// Resolution is the outcome of a selector lookup. A miss is an expected
// condition, not an error.
type Resolution struct {
	Found    bool
	Locator  playwright.Locator
	Selector string
}

// Executor interprets declarative actions against a live page. It never
// returns an error for a missing element: all-miss resolutions log a warning
// and the scenario continues.
type Executor struct {
	shotDir string
	logger  *slog.Logger
}

// NewExecutor creates an executor writing screenshots under shotDir.
func NewExecutor(shotDir string) *Executor {
	return &Executor{
		shotDir: shotDir,
		logger:  slog.Default().With("component", "executor"),
	}
}

// Perform executes one action against the page. Failures degrade to a
// skip-and-log; they never abort the scenario.
func (e *Executor) Perform(ctx context.Context, page playwright.Page, action scenario.TestAction, configName string) {
	e.PerformScoped(ctx, page, nil, action, configName)
}

// PerformScoped executes one action, resolving selectors inside root when it
// is non-nil (component-scoped interactions).
func (e *Executor) PerformScoped(ctx context.Context, page playwright.Page, root playwright.Locator, action scenario.TestAction, configName string) {
	log := e.logger.With("config", configName, "action", string(action.Type))

	switch action.Type {
	case scenario.ActionClick:
		if res := e.resolve(page, root, action.Selector); res.Found {
			if err := res.Locator.Click(playwright.LocatorClickOptions{
				Timeout: playwright.Float(float64(visibilityWait.Milliseconds())),
			}); err != nil {
				log.Warn("click failed", "selector", res.Selector, "error", err)
			}
		}

	case scenario.ActionHover:
		if res := e.resolve(page, root, action.Selector); res.Found {
			if err := res.Locator.Hover(playwright.LocatorHoverOptions{
				Timeout: playwright.Float(float64(visibilityWait.Milliseconds())),
			}); err != nil {
				log.Warn("hover failed", "selector", res.Selector, "error", err)
			}
		}

	case scenario.ActionTypeText:
		if res := e.resolve(page, root, action.Selector); res.Found {
			if err := res.Locator.Fill(action.Value, playwright.LocatorFillOptions{
				Timeout: playwright.Float(float64(visibilityWait.Milliseconds())),
			}); err != nil {
				log.Warn("type failed", "selector", res.Selector, "error", err)
			}
		}

	case scenario.ActionScroll:
		e.scroll(page, root, action, log)

	case scenario.ActionWait:
		ms := action.WaitMS
		if ms <= 0 {
			ms = defaultWaitMS
		}
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
		case <-ctx.Done():
		}

	case scenario.ActionKeyboard:
		if action.Key == "" {
			log.Warn("keyboard action missing key")
			break
		}
		if err := page.Keyboard().Press(action.Key); err != nil {
			log.Warn("key press failed", "key", action.Key, "error", err)
		}

	case scenario.ActionSelect:
		if res := e.resolve(page, root, action.Selector); res.Found {
			values := []string{action.Value}
			if _, err := res.Locator.SelectOption(playwright.SelectOptionValues{Values: &values}); err != nil {
				log.Warn("select failed", "selector", res.Selector, "error", err)
			}
		}

	case scenario.ActionCheck:
		if res := e.resolve(page, root, action.Selector); res.Found {
			if err := res.Locator.Check(); err != nil {
				log.Warn("check failed", "selector", res.Selector, "error", err)
			}
		}

	case scenario.ActionFocus:
		if res := e.resolve(page, root, action.Selector); res.Found {
			if err := res.Locator.Focus(); err != nil {
				log.Warn("focus failed", "selector", res.Selector, "error", err)
			}
		}

	case scenario.ActionScreenshot:
		e.captureAction(page, root, action, configName, log)
		return // screenshot action already captured; skip the flag below

	default:
		log.Warn("unknown action type")
	}

	if action.Screenshot {
		e.captureAction(page, root, action, configName, log)
	}
}

// resolve tries each fallback selector in declared order with a bounded
// visibility wait and stops at the first match.
func (e *Executor) resolve(page playwright.Page, root playwright.Locator, selectorList string) Resolution {
	candidates := SplitSelectors(selectorList)
	if len(candidates) == 0 {
		e.logger.Warn("action has no selector")
		return Resolution{}
	}

	for _, sel := range candidates {
		locator := e.locatorFor(page, root, sel).First()
		err := locator.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(float64(visibilityWait.Milliseconds())),
		})
		if err == nil {
			return Resolution{Found: true, Locator: locator, Selector: sel}
		}
	}

	e.logger.Warn("no selector matched, skipping action", "selectors", selectorList)
	return Resolution{}
}

func (e *Executor) locatorFor(page playwright.Page, root playwright.Locator, selector string) playwright.Locator {
	if root != nil {
		return root.Locator(selector)
	}
	return page.Locator(selector)
}

func (e *Executor) scroll(page playwright.Page, root playwright.Locator, action scenario.TestAction, log *slog.Logger) {
	if action.Selector != "" {
		if res := e.resolve(page, root, action.Selector); res.Found {
			if err := res.Locator.ScrollIntoViewIfNeeded(); err != nil {
				log.Warn("scroll into view failed", "selector", res.Selector, "error", err)
			}
		}
		return
	}
	if _, err := page.Evaluate("window.scrollBy(0, window.innerHeight)"); err != nil {
		log.Warn("scroll failed", "error", err)
	}
}

// captureAction writes a page screenshot (or, when scoped to a component, an
// element-bounded one) to a timestamped path that cannot collide within a run.
func (e *Executor) captureAction(page playwright.Page, root playwright.Locator, action scenario.TestAction, configName string, log *slog.Logger) {
	path := e.ScreenshotPath(configName, action.Type)

	var err error
	if root != nil {
		_, err = root.Screenshot(playwright.LocatorScreenshotOptions{
			Path: playwright.String(path),
		})
	} else {
		_, err = page.Screenshot(playwright.PageScreenshotOptions{
			Path:     playwright.String(path),
			FullPage: playwright.Bool(true),
		})
	}
	if err != nil {
		log.Warn("screenshot failed", "path", path, "error", err)
	}
}

// ScreenshotPath derives a deterministic, collision-free screenshot path from
// the scenario name, action type, and current time.
func (e *Executor) ScreenshotPath(configName string, actionType scenario.ActionType) string {
	name := fmt.Sprintf("%s-%s-%d.png", configName, actionType, time.Now().UnixMilli())
	return filepath.Join(e.shotDir, "interactions", name)
}

// SplitSelectors splits a comma-separated fallback selector list, trimming
// whitespace and dropping empty entries. Note this intentionally treats
// commas as fallback separators, not CSS selector groups.
func SplitSelectors(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
