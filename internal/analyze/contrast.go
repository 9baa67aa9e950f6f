package analyze

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGBA is a parsed CSS color with premultiplication left to the caller.
type RGBA struct {
	R, G, B float64 // 0-255
	A       float64 // 0-1
}

// ParseCSSColor parses the computed-style color formats browsers emit:
// rgb(r, g, b), rgba(r, g, b, a), and #rrggbb. Returns false for anything
// else (gradients, keywords, color functions).
func ParseCSSColor(s string) (RGBA, bool) {
	s = strings.TrimSpace(strings.ToLower(s))

	if strings.HasPrefix(s, "#") && len(s) == 7 {
		r, err1 := strconv.ParseUint(s[1:3], 16, 8)
		g, err2 := strconv.ParseUint(s[3:5], 16, 8)
		b, err3 := strconv.ParseUint(s[5:7], 16, 8)
		if err1 != nil || err2 != nil || err3 != nil {
			return RGBA{}, false
		}
		return RGBA{R: float64(r), G: float64(g), B: float64(b), A: 1}, true
	}

	var inner string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		inner = s[5 : len(s)-1]
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		inner = s[4 : len(s)-1]
	default:
		return RGBA{}, false
	}

	parts := strings.Split(inner, ",")
	if len(parts) < 3 {
		return RGBA{}, false
	}

	var vals [4]float64
	vals[3] = 1
	for i, p := range parts {
		if i > 3 {
			break
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return RGBA{}, false
		}
		vals[i] = v
	}

	return RGBA{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, true
}

// relativeLuminance implements the WCAG 2.x relative luminance formula.
func relativeLuminance(c RGBA) float64 {
	lin := func(v float64) float64 {
		v /= 255
		if v <= 0.04045 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// ContrastRatio returns the WCAG contrast ratio (L1+0.05)/(L2+0.05) between
// two colors, in the range [1, 21].
func ContrastRatio(a, b RGBA) float64 {
	la := relativeLuminance(a)
	lb := relativeLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// MeetsContrastAA reports whether a foreground/background pair passes WCAG
// 1.4.3 AA: 4.5:1 for normal text, 3:1 for large text (>=18pt, or >=14pt
// bold; browsers report px, so 24px / 18.66px).
func MeetsContrastAA(fg, bg RGBA, fontSizePx float64, bold bool) bool {
	ratio := ContrastRatio(fg, bg)
	if isLargeText(fontSizePx, bold) {
		return ratio >= 3.0
	}
	return ratio >= 4.5
}

func isLargeText(fontSizePx float64, bold bool) bool {
	if bold {
		return fontSizePx >= 18.66
	}
	return fontSizePx >= 24
}

// FormatRatio renders a contrast ratio as e.g. "3.2:1" for issue text.
func FormatRatio(ratio float64) string {
	return fmt.Sprintf("%.1f:1", ratio)
}
