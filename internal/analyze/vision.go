package analyze

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/neboloop/vizaudit/internal/finding"
	"github.com/neboloop/vizaudit/internal/vision"
)

// critiquePrompt is the fixed rubric sent with every screenshot.
const critiquePrompt = `You are a senior UI/UX reviewer. Examine this page screenshot and report concrete visual quality problems covering: layout balance and alignment, contrast and readability, responsive/overflow issues, accessibility concerns, styling consistency (buttons, spacing, typography), missing UI affordances, and general UX friction.

Respond with ONLY a JSON array. Each element must be an object with exactly these string fields:
- "severity": one of "critical", "high", "medium", "low"
- "category": one of "layout", "color", "typography", "accessibility", "responsiveness", "consistency", "interaction", "performance"
- "description": what is wrong and where on the page
- "recommendation": how to fix it

Return [] if nothing is worth reporting. Do not include any prose outside the JSON array.`

// Critique sends screenshots to the vision provider and parses the response
// into issues. All failures are soft: logged and dropped, never reported.
type Critique struct {
	client vision.Client
	logger *slog.Logger
}

// NewCritique creates the analyzer. A nil client gets the disabled default.
func NewCritique(client vision.Client) *Critique {
	if client == nil {
		client = vision.Disabled{}
	}
	return &Critique{
		client: client,
		logger: slog.Default().With("component", "vision"),
	}
}

// Run critiques one screenshot file for the named page.
func (c *Critique) Run(ctx context.Context, screenshotPath, pageName string) []finding.VisualIssue {
	data, err := os.ReadFile(screenshotPath)
	if err != nil {
		c.logger.Warn("screenshot unreadable, skipping critique", "path", screenshotPath, "error", err)
		return nil
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	response, err := c.client.Analyze(ctx, encoded, "image/png", critiquePrompt)
	if err != nil {
		if errors.Is(err, vision.ErrNoCredential) {
			c.logger.Info("vision critique skipped: no provider configured", "page", pageName)
		} else {
			c.logger.Warn("vision critique failed", "page", pageName, "error", err)
		}
		return nil
	}

	issues, err := ParseCritique(response, pageName, filepath.Base(screenshotPath))
	if err != nil {
		// Malformed AI output is discarded, not fabricated into findings.
		c.logger.Warn("vision response unparsable, discarding", "page", pageName, "error", err)
		return nil
	}
	return issues
}

// rawCritiqueIssue is the shape requested from the model.
type rawCritiqueIssue struct {
	Severity       string `json:"severity"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// ParseCritique parses a model response into issues. The whole response must
// be a JSON array (code fences tolerated); individual entries missing a
// description are dropped rather than failing the batch, and unknown
// severities/categories are coerced at this boundary.
func ParseCritique(response, pageName, screenshot string) ([]finding.VisualIssue, error) {
	payload := stripFences(response)

	var raw []rawCritiqueIssue
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, err
	}

	issues := make([]finding.VisualIssue, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r.Description) == "" {
			continue
		}
		issues = append(issues, finding.VisualIssue{
			Page:           pageName,
			Severity:       finding.ParseSeverity(r.Severity),
			Category:       finding.ParseCategory(r.Category),
			Description:    r.Description,
			Recommendation: r.Recommendation,
			Screenshot:     screenshot,
		})
	}
	return issues, nil
}

// stripFences removes a surrounding markdown code fence, which models add
// despite instructions, and trims to the outermost JSON array when the model
// wrapped it in prose.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	if start := strings.Index(s, "["); start > 0 {
		if end := strings.LastIndex(s, "]"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}
