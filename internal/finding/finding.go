// Package finding holds the issue and metric model shared by every
// analyzer and the report generators.
package finding

import (
	"log/slog"
	"strings"
)

// Severity is the closed set of issue severities, ordered critical > high > medium > low.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Category is the closed set of issue categories.
type Category string

const (
	CategoryLayout         Category = "layout"
	CategoryColor          Category = "color"
	CategoryTypography     Category = "typography"
	CategoryAccessibility  Category = "accessibility"
	CategoryResponsiveness Category = "responsiveness"
	CategoryConsistency    Category = "consistency"
	CategoryInteraction    Category = "interaction"
	CategoryPerformance    Category = "performance"
)

// Severities lists all severities in rank order.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Categories lists all categories.
var Categories = []Category{
	CategoryLayout, CategoryColor, CategoryTypography, CategoryAccessibility,
	CategoryResponsiveness, CategoryConsistency, CategoryInteraction, CategoryPerformance,
}

// Rank returns the sort rank of a severity: critical=0 ... low=3.
// Unknown severities rank after low.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	}
	return 4
}

// ParseSeverity parses a severity string from an external source (AI output,
// rule engine). Unrecognized values coerce to medium and are logged, so an
// open string type never leaks past the analyzer boundary.
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityCritical:
		return SeverityCritical
	case SeverityHigh:
		return SeverityHigh
	case SeverityMedium:
		return SeverityMedium
	case SeverityLow:
		return SeverityLow
	}
	slog.Warn("unrecognized severity, coercing to medium", "value", s)
	return SeverityMedium
}

// ParseCategory parses a category string from an external source.
// Unrecognized values coerce to consistency and are logged.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	slog.Warn("unrecognized category, coercing to consistency", "value", s)
	return CategoryConsistency
}

// Bounds is an element bounding box in page coordinates, used to annotate
// screenshots with the affected region.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// VisualIssue is one reported quality problem. Issues are append-only and
// never mutated after creation.
type VisualIssue struct {
	Page              string   `json:"page"`
	Component         string   `json:"component,omitempty"`
	Severity          Severity `json:"severity"`
	Category          Category `json:"category"`
	Description       string   `json:"description"`
	Recommendation    string   `json:"recommendation"`
	Screenshot        string   `json:"screenshot,omitempty"`
	WCAGViolation     string   `json:"wcagViolation,omitempty"`
	PerformanceImpact float64  `json:"performanceImpact,omitempty"`
	AffectedUsers     []string `json:"affectedUsers,omitempty"`
	CodeSnippet       string   `json:"codeSnippet,omitempty"`
	Bounds            *Bounds  `json:"bounds,omitempty"`
}

// CategoryScores are audit category scores, each 0-1.
type CategoryScores struct {
	Performance   float64 `json:"performance"`
	Accessibility float64 `json:"accessibility"`
	BestPractices float64 `json:"bestPractices"`
	SEO           float64 `json:"seo"`
}

// PerformanceMetrics are browser-timing measurements for one page.
// All durations are milliseconds.
type PerformanceMetrics struct {
	Page              string          `json:"page"`
	FCP               float64         `json:"fcp"`
	LCP               float64         `json:"lcp"`
	TTI               float64         `json:"tti"`
	CLS               float64         `json:"cls"`
	FID               float64         `json:"fid"`
	TotalBlockingTime float64         `json:"totalBlockingTime"`
	SpeedIndex        float64         `json:"speedIndex"`
	Scores            *CategoryScores `json:"scores,omitempty"`
}
