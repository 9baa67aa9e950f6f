package analyze

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// RuleNode is one DOM node affected by a rule violation.
type RuleNode struct {
	HTML   string `json:"html"`
	Impact string `json:"impact"`
}

// RuleViolation is one accessibility rule violation.
type RuleViolation struct {
	ID          string     `json:"id"`
	Impact      string     `json:"impact"`
	Description string     `json:"description"`
	Help        string     `json:"help"`
	Tags        []string   `json:"tags"`
	Nodes       []RuleNode `json:"nodes"`
}

// RuleReport is the result of an accessibility rule scan.
type RuleReport struct {
	Violations []RuleViolation `json:"violations"`
}

// RuleEngine runs an accessibility rule scan against a live page, restricted
// to the given WCAG tags.
type RuleEngine interface {
	Analyze(ctx context.Context, page playwright.Page, tags []string) (*RuleReport, error)
}

// NullRuleEngine is the no-op default wired when no rule engine is available.
type NullRuleEngine struct{}

// Analyze returns an empty report.
func (NullRuleEngine) Analyze(context.Context, playwright.Page, []string) (*RuleReport, error) {
	return &RuleReport{}, nil
}

const axeScriptURL = "https://cdnjs.cloudflare.com/ajax/libs/axe-core/4.10.2/axe.min.js"

// AxeEngine injects axe-core into the page under test and runs it there.
type AxeEngine struct {
	ScriptURL string
}

// NewAxeEngine returns an engine loading axe-core from the default CDN.
func NewAxeEngine() *AxeEngine {
	return &AxeEngine{ScriptURL: axeScriptURL}
}

// Analyze injects axe-core (if not already present) and runs it with the
// given tag restriction.
func (e *AxeEngine) Analyze(ctx context.Context, page playwright.Page, tags []string) (*RuleReport, error) {
	present, err := page.Evaluate("typeof window.axe !== 'undefined'")
	if err != nil {
		return nil, fmt.Errorf("axe presence check failed: %w", err)
	}
	if loaded, _ := present.(bool); !loaded {
		if _, err := page.AddScriptTag(playwright.PageAddScriptTagOptions{
			URL: playwright.String(e.ScriptURL),
		}); err != nil {
			return nil, fmt.Errorf("failed to inject axe-core: %w", err)
		}
	}

	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}

	script := fmt.Sprintf(
		`async () => await axe.run(document, { runOnly: { type: 'tag', values: %s } })`,
		tagsJSON)
	raw, err := page.Evaluate(script)
	if err != nil {
		return nil, fmt.Errorf("axe run failed: %w", err)
	}

	var report RuleReport
	if err := decodeEval(raw, &report); err != nil {
		return nil, fmt.Errorf("failed to decode axe result: %w", err)
	}
	return &report, nil
}

// decodeEval round-trips a page.Evaluate result through JSON into a typed
// struct.
func decodeEval(raw any, out any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
