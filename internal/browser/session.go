// Package browser owns the audit run's browser lifecycle and every direct
// page interaction: navigation, declarative actions, component probing, and
// state verification.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/neboloop/vizaudit/internal/scenario"
)

const (
	navigationTimeout = 30 * time.Second
	fallbackTimeout   = 15 * time.Second

	// settleDelay lets client-rendered content mount after navigation.
	settleDelay = 1500 * time.Millisecond
)

// Options configures the browser session.
type Options struct {
	BaseURL     string
	Headless    bool
	RecordVideo bool
	VideoDir    string
}

// Session manages one browser instance shared by all scenarios in a run.
// Only the session mutates the browser; scenarios run sequentially.
type Session struct {
	opts    Options
	pw      *playwright.Playwright
	browser playwright.Browser

	// current page context, replaced per scenario
	context playwright.BrowserContext
	page    playwright.Page

	closed bool
	logger *slog.Logger
}

// Launch starts Playwright and a headless Chromium instance. This is the only
// browser operation allowed to propagate a fatal error.
func Launch(ctx context.Context, opts Options) (*Session, error) {
	if err := playwright.Install(); err != nil {
		return nil, fmt.Errorf("failed to install playwright browsers: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     []string{"--no-sandbox", "--disable-dev-shm-usage"},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &Session{
		opts:    opts,
		pw:      pw,
		browser: browser,
		logger:  slog.Default().With("component", "browser"),
	}, nil
}

// OpenPage opens a fresh isolated context and page for one scenario, applying
// viewport/device emulation and dark mode before navigating. The returned
// degraded flag is true when navigation fell back from the idle-network wait
// to the DOM-ready wait; that is a recovery path, not a finding.
func (s *Session) OpenPage(ctx context.Context, cfg *scenario.TestConfig) (playwright.Page, bool, error) {
	if s.closed {
		return nil, false, fmt.Errorf("session is closed")
	}

	// One scenario at a time: discard the previous scenario's context.
	s.closeCurrent()

	viewport, userAgent := cfg.ResolveViewport()

	ctxOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  viewport.Width,
			Height: viewport.Height,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	}
	if userAgent != "" {
		ctxOpts.UserAgent = playwright.String(userAgent)
	}
	if cfg.DarkMode {
		ctxOpts.ColorScheme = playwright.ColorSchemeDark
	}
	if s.opts.RecordVideo && s.opts.VideoDir != "" {
		ctxOpts.RecordVideo = &playwright.RecordVideo{Dir: s.opts.VideoDir}
	}

	browserCtx, err := s.browser.NewContext(ctxOpts)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		_ = browserCtx.Close()
		return nil, false, fmt.Errorf("failed to create page: %w", err)
	}

	s.context = browserCtx
	s.page = page

	url := s.opts.BaseURL + cfg.URL
	degraded, err := s.navigate(page, url)
	if err != nil {
		return nil, false, err
	}

	time.Sleep(settleDelay)
	return page, degraded, nil
}

// navigate attempts a fully settled idle-network wait, degrading gracefully
// to a DOM-ready wait with a shorter timeout before giving up.
func (s *Session) navigate(page playwright.Page, url string) (bool, error) {
	_, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(navigationTimeout.Milliseconds())),
	})
	if err == nil {
		return false, nil
	}

	s.logger.Warn("networkidle navigation failed, retrying with domcontentloaded",
		"url", url, "error", err)

	_, err = page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(fallbackTimeout.Milliseconds())),
	})
	if err != nil {
		return false, fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return true, nil
}

// closeCurrent tears down the current scenario's page and context.
func (s *Session) closeCurrent() {
	if s.page != nil {
		_ = s.page.Close()
		s.page = nil
	}
	if s.context != nil {
		_ = s.context.Close()
		s.context = nil
	}
}

// Teardown closes the context, browser, and Playwright driver. Safe to call
// multiple times and on any exit path.
func (s *Session) Teardown() {
	if s.closed {
		return
	}
	s.closed = true

	s.closeCurrent()
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.logger.Warn("browser close failed", "error", err)
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			s.logger.Warn("playwright stop failed", "error", err)
		}
	}
}
