package audit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	healthAttempts = 10
	healthInterval = time.Second
	healthTimeout  = 2 * time.Second
)

// waitForTarget polls the target's health endpoint before the run starts.
// An unreachable target is reported but never aborts the audit; static sites
// have no health endpoint at all.
func waitForTarget(ctx context.Context, baseURL string, logger *slog.Logger) {
	client := &http.Client{Timeout: healthTimeout}
	url := baseURL + "/api/health"

	for attempt := 1; attempt <= healthAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			logger.Warn("health probe request invalid", "url", url, "error", err)
			return
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode < 500 {
				logger.Info("target is up", "url", url, "status", resp.StatusCode, "attempt", attempt)
				return
			}
		}

		if attempt < healthAttempts {
			select {
			case <-time.After(healthInterval):
			case <-ctx.Done():
				return
			}
		}
	}
	logger.Warn(fmt.Sprintf("target health probe failed after %d attempts, proceeding anyway", healthAttempts),
		"url", url)
}
