package analyze

import (
	"math"
	"testing"
)

func TestParseCSSColor(t *testing.T) {
	cases := []struct {
		in   string
		want RGBA
		ok   bool
	}{
		{"rgb(255, 255, 255)", RGBA{255, 255, 255, 1}, true},
		{"rgba(0, 0, 0, 0.5)", RGBA{0, 0, 0, 0.5}, true},
		{"#ff8000", RGBA{255, 128, 0, 1}, true},
		{"RGB(10,20,30)", RGBA{10, 20, 30, 1}, true},
		{"transparent", RGBA{}, false},
		{"linear-gradient(red, blue)", RGBA{}, false},
		{"#fff", RGBA{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseCSSColor(tc.in)
		if ok != tc.ok {
			t.Errorf("ParseCSSColor(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("ParseCSSColor(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestContrastRatioBlackWhite(t *testing.T) {
	black := RGBA{0, 0, 0, 1}
	white := RGBA{255, 255, 255, 1}

	ratio := ContrastRatio(black, white)
	if math.Abs(ratio-21.0) > 0.01 {
		t.Errorf("black/white ratio = %.3f, want 21", ratio)
	}

	// Symmetric.
	if r2 := ContrastRatio(white, black); math.Abs(ratio-r2) > 1e-9 {
		t.Errorf("ratio not symmetric: %.3f vs %.3f", ratio, r2)
	}

	// Identical colors give 1.
	if r3 := ContrastRatio(white, white); math.Abs(r3-1.0) > 1e-9 {
		t.Errorf("white/white ratio = %.3f, want 1", r3)
	}
}

func TestContrastRatioKnownPair(t *testing.T) {
	// #777777 on white is a classic near-miss: ~4.48:1.
	grey := RGBA{119, 119, 119, 1}
	white := RGBA{255, 255, 255, 1}
	ratio := ContrastRatio(grey, white)
	if ratio < 4.4 || ratio > 4.55 {
		t.Errorf("grey/white ratio = %.3f, want ~4.48", ratio)
	}
}

func TestMeetsContrastAA(t *testing.T) {
	grey := RGBA{119, 119, 119, 1} // ~4.48:1 on white
	white := RGBA{255, 255, 255, 1}

	if MeetsContrastAA(grey, white, 16, false) {
		t.Error("4.48:1 must fail AA for normal text (needs 4.5)")
	}
	if !MeetsContrastAA(grey, white, 24, false) {
		t.Error("4.48:1 must pass AA for large text (needs 3)")
	}
	if !MeetsContrastAA(grey, white, 19, true) {
		t.Error("4.48:1 must pass AA for large bold text")
	}
}

func TestFormatRatio(t *testing.T) {
	if got := FormatRatio(3.249); got != "3.2:1" {
		t.Errorf("FormatRatio = %q, want 3.2:1", got)
	}
}
