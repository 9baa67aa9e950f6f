package scenario

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveViewportPrecedence(t *testing.T) {
	// Device preset wins over explicit viewport.
	cfg := TestConfig{
		Name:     "p",
		URL:      "/",
		Device:   "iPhone X",
		Viewport: &Viewport{Width: 1024, Height: 768},
	}
	vp, ua := cfg.ResolveViewport()
	if vp.Width != 375 || vp.Height != 812 {
		t.Errorf("device viewport = %dx%d, want 375x812", vp.Width, vp.Height)
	}
	if ua == "" {
		t.Error("expected device user agent override")
	}

	// Explicit viewport when no device.
	cfg.Device = ""
	vp, ua = cfg.ResolveViewport()
	if vp.Width != 1024 || vp.Height != 768 {
		t.Errorf("explicit viewport = %dx%d, want 1024x768", vp.Width, vp.Height)
	}
	if ua != "" {
		t.Errorf("unexpected user agent %q without device", ua)
	}

	// Default when neither.
	cfg.Viewport = nil
	vp, _ = cfg.ResolveViewport()
	if vp.Width != 1920 || vp.Height != 1080 {
		t.Errorf("default viewport = %dx%d, want 1920x1080", vp.Width, vp.Height)
	}
}

func TestValidate(t *testing.T) {
	good := TestConfig{Name: "ok", URL: "/"}
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	if err := (&TestConfig{URL: "/"}).Validate(); err == nil {
		t.Error("expected error for missing name")
	}
	if err := (&TestConfig{Name: "x"}).Validate(); err == nil {
		t.Error("expected error for missing url")
	}
	if err := (&TestConfig{Name: "x", URL: "/", Device: "Nokia 3310"}).Validate(); err == nil {
		t.Error("expected error for unknown device")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenarios.yaml")
	content := `scenarios:
  - name: login-page
    url: /login
    performance: true
    accessibility:
      enabled: true
      contrast: true
    actions:
      - type: click
        selector: "button, .btn"
        screenshot: true
        description: submit
  - name: login-mobile
    url: /login
    device: iPhone X
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	scenarios, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("got %d scenarios, want 2", len(scenarios))
	}
	first := scenarios[0]
	if first.Name != "login-page" || !first.Performance {
		t.Errorf("unexpected first scenario: %+v", first)
	}
	if first.Accessibility == nil || !first.Accessibility.Contrast {
		t.Error("accessibility options not parsed")
	}
	if len(first.Actions) != 1 || first.Actions[0].Type != ActionClick || !first.Actions[0].Screenshot {
		t.Errorf("actions not parsed: %+v", first.Actions)
	}
}

func TestLoadFileRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dup.yaml")
	content := "scenarios:\n  - name: a\n    url: /\n  - name: a\n    url: /b\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected duplicate-name error")
	}
}

func TestDefaultScenariosValid(t *testing.T) {
	for _, cfg := range DefaultScenarios() {
		if err := cfg.Validate(); err != nil {
			t.Errorf("default scenario %q invalid: %v", cfg.Name, err)
		}
	}
}
