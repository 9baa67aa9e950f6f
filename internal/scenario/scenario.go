// Package scenario defines the declarative audit scenario model: what pages
// to open, which interactions to drive, and which analyzers to run.
package scenario

import "fmt"

// ActionType enumerates the supported page interactions.
type ActionType string

const (
	ActionClick      ActionType = "click"
	ActionHover      ActionType = "hover"
	ActionTypeText   ActionType = "type"
	ActionScroll     ActionType = "scroll"
	ActionWait       ActionType = "wait"
	ActionKeyboard   ActionType = "keyboard"
	ActionSelect     ActionType = "select"
	ActionCheck      ActionType = "check"
	ActionFocus      ActionType = "focus"
	ActionScreenshot ActionType = "screenshot"
)

// TestAction is one interaction against a live page.
// Selector may be a comma-separated list of fallback selectors tried in order.
type TestAction struct {
	Type        ActionType `yaml:"type" json:"type"`
	Selector    string     `yaml:"selector,omitempty" json:"selector,omitempty"`
	Value       string     `yaml:"value,omitempty" json:"value,omitempty"`
	Key         string     `yaml:"key,omitempty" json:"key,omitempty"`
	WaitMS      int        `yaml:"waitMs,omitempty" json:"waitMs,omitempty"`
	Screenshot  bool       `yaml:"screenshot,omitempty" json:"screenshot,omitempty"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
}

// ComponentTest drives interactions against a selector-scoped DOM subtree,
// capturing before/after screenshots per interaction.
type ComponentTest struct {
	Name         string       `yaml:"name" json:"name"`
	Selector     string       `yaml:"selector" json:"selector"`
	States       []string     `yaml:"states,omitempty" json:"states,omitempty"`
	Interactions []TestAction `yaml:"interactions,omitempty" json:"interactions,omitempty"`
}

// AssertionType enumerates declarative DOM checks.
type AssertionType string

const (
	AssertVisible   AssertionType = "visible"
	AssertHidden    AssertionType = "hidden"
	AssertText      AssertionType = "text"
	AssertAttribute AssertionType = "attribute"
	AssertClass     AssertionType = "class"
)

// StateAssertion is one declarative check evaluated after a state's setup.
type StateAssertion struct {
	Type      AssertionType `yaml:"type" json:"type"`
	Selector  string        `yaml:"selector" json:"selector"`
	Expected  string        `yaml:"expected,omitempty" json:"expected,omitempty"`
	Attribute string        `yaml:"attribute,omitempty" json:"attribute,omitempty"`
}

// TestState is a named setup sequence plus assertions.
type TestState struct {
	Name       string           `yaml:"name" json:"name"`
	Setup      []TestAction     `yaml:"setup,omitempty" json:"setup,omitempty"`
	Assertions []StateAssertion `yaml:"assertions,omitempty" json:"assertions,omitempty"`
	Screenshot bool             `yaml:"screenshot,omitempty" json:"screenshot,omitempty"`
}

// AccessibilityOptions toggles the accessibility analyzer and its probes.
type AccessibilityOptions struct {
	Enabled         bool `yaml:"enabled" json:"enabled"`
	FocusVisibility bool `yaml:"focusVisibility,omitempty" json:"focusVisibility,omitempty"`
	KeyboardNav     bool `yaml:"keyboardNav,omitempty" json:"keyboardNav,omitempty"`
	Contrast        bool `yaml:"contrast,omitempty" json:"contrast,omitempty"`
}

// Viewport is a browser viewport in CSS pixels.
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// TestConfig is one audit scenario. Immutable once constructed.
type TestConfig struct {
	Name          string                `yaml:"name" json:"name"`
	URL           string                `yaml:"url" json:"url"`
	Viewport      *Viewport             `yaml:"viewport,omitempty" json:"viewport,omitempty"`
	Device        string                `yaml:"device,omitempty" json:"device,omitempty"`
	Actions       []TestAction          `yaml:"actions,omitempty" json:"actions,omitempty"`
	States        []TestState           `yaml:"states,omitempty" json:"states,omitempty"`
	Components    []ComponentTest       `yaml:"components,omitempty" json:"components,omitempty"`
	Accessibility *AccessibilityOptions `yaml:"accessibility,omitempty" json:"accessibility,omitempty"`
	Performance   bool                  `yaml:"performance,omitempty" json:"performance,omitempty"`
	DarkMode      bool                  `yaml:"darkMode,omitempty" json:"darkMode,omitempty"`

	// StrictNavigation skips analyzers when navigation degraded to the
	// DOM-ready fallback, so a half-mounted page is not analyzed.
	StrictNavigation bool `yaml:"strictNavigation,omitempty" json:"strictNavigation,omitempty"`
}

// DevicePreset is a named device emulation profile.
type DevicePreset struct {
	Viewport  Viewport
	UserAgent string
}

// devicePresets are the built-in device emulation profiles.
var devicePresets = map[string]DevicePreset{
	"iPhone X": {
		Viewport:  Viewport{Width: 375, Height: 812},
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1",
	},
	"iPad": {
		Viewport:  Viewport{Width: 768, Height: 1024},
		UserAgent: "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1",
	},
	"Pixel 7": {
		Viewport:  Viewport{Width: 412, Height: 915},
		UserAgent: "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
	},
}

// Device returns the preset for a device name.
func Device(name string) (DevicePreset, bool) {
	p, ok := devicePresets[name]
	return p, ok
}

// defaultViewport is used when neither a device nor an explicit viewport is set.
var defaultViewport = Viewport{Width: 1920, Height: 1080}

// ResolveViewport applies the precedence device preset > explicit viewport >
// 1920x1080 default, returning the viewport and the user agent override (empty
// when no device is emulated).
func (c *TestConfig) ResolveViewport() (Viewport, string) {
	if c.Device != "" {
		if preset, ok := devicePresets[c.Device]; ok {
			return preset.Viewport, preset.UserAgent
		}
	}
	if c.Viewport != nil {
		return *c.Viewport, ""
	}
	return defaultViewport, ""
}

// Validate checks a scenario for structural problems.
func (c *TestConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("scenario is missing a name")
	}
	if c.URL == "" {
		return fmt.Errorf("scenario %q is missing a url", c.Name)
	}
	if c.Device != "" {
		if _, ok := devicePresets[c.Device]; !ok {
			return fmt.Errorf("scenario %q references unknown device %q", c.Name, c.Device)
		}
	}
	for i, a := range c.Actions {
		if a.Type == "" {
			return fmt.Errorf("scenario %q action %d is missing a type", c.Name, i)
		}
	}
	return nil
}
