package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML scenario file layout.
type File struct {
	Scenarios []TestConfig `yaml:"scenarios"`
}

// LoadFile reads scenarios from a YAML file. Every scenario is validated and
// names must be unique.
func LoadFile(path string) ([]TestConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario file %s defines no scenarios", path)
	}

	seen := make(map[string]bool, len(f.Scenarios))
	for i := range f.Scenarios {
		if err := f.Scenarios[i].Validate(); err != nil {
			return nil, err
		}
		if seen[f.Scenarios[i].Name] {
			return nil, fmt.Errorf("duplicate scenario name %q", f.Scenarios[i].Name)
		}
		seen[f.Scenarios[i].Name] = true
	}

	return f.Scenarios, nil
}

// DefaultScenarios is the built-in sweep used when no scenario file is given:
// the landing page at desktop, mobile, and tablet sizes, with the full
// analyzer set on desktop.
func DefaultScenarios() []TestConfig {
	allProbes := &AccessibilityOptions{
		Enabled:         true,
		FocusVisibility: true,
		KeyboardNav:     true,
		Contrast:        true,
	}

	return []TestConfig{
		{
			Name:          "landing-desktop",
			URL:           "/",
			Viewport:      &Viewport{Width: 1920, Height: 1080},
			Accessibility: allProbes,
			Performance:   true,
			Actions: []TestAction{
				{Type: ActionScroll, Description: "scroll below the fold"},
				{Type: ActionHover, Selector: "nav a, header a", Description: "hover primary navigation"},
			},
		},
		{
			Name:          "landing-mobile",
			URL:           "/",
			Device:        "iPhone X",
			Accessibility: &AccessibilityOptions{Enabled: true},
			Actions: []TestAction{
				{
					Type:        ActionClick,
					Selector:    "button[aria-label='menu'], .hamburger, [data-testid='mobile-menu']",
					Screenshot:  true,
					Description: "open mobile navigation",
				},
			},
		},
		{
			Name:          "landing-tablet",
			URL:           "/",
			Device:        "iPad",
			Accessibility: &AccessibilityOptions{Enabled: true},
		},
		{
			Name:        "landing-dark",
			URL:         "/",
			Viewport:    &Viewport{Width: 1920, Height: 1080},
			DarkMode:    true,
			Performance: false,
		},
	}
}
