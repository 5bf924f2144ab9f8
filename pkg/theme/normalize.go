package theme

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var bareHex = regexp.MustCompile(`^(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// extractValue unwraps {value: x} wrappers and candidate lists, taking the first
// element. Anything else is returned as is.
func extractValue(v any) any {
	switch val := v.(type) {
	case []any:
		if len(val) > 0 {
			return extractValue(val[0])
		}
	case map[string]any:
		if inner, ok := val["value"]; ok && len(val) == 1 {
			return extractValue(inner)
		}
	}
	return v
}

func normalizeColor(v any) any {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if bareHex.MatchString(s) {
			return "#" + s
		}
		return val
	case map[string]any:
		if hex, ok := val["hex"].(string); ok {
			hex = strings.TrimSpace(hex)
			if !strings.HasPrefix(hex, "#") {
				hex = "#" + hex
			}
			return hex
		}
		if hasAnyKey(val, "r", "g", "b") {
			return rgbaToCSS(val)
		}
	}
	return v
}

// rgbaToCSS formats 0..1 color components as #rrggbb when opaque, rgba() otherwise.
func rgbaToCSS(m map[string]any) string {
	r := channel(m["r"])
	g := channel(m["g"])
	b := channel(m["b"])

	a := 1.0
	if raw, ok := m["a"]; ok {
		if f, ok := toFloat(raw); ok {
			a = clamp01(f)
		}
	}

	if a >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, formatNumber(math.Round(a*1000)/1000))
}

func channel(v any) int {
	f, _ := toFloat(v)
	return int(math.Round(clamp01(f) * 255))
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

// normalizeDimension is used for spacing and radius values. Numbers become
// strings without a unit.
func normalizeDimension(v any) any {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if inner, ok := val["value"]; ok {
			return normalizeDimension(inner)
		}
		return v
	}
	if f, ok := toFloat(v); ok {
		return formatNumber(f)
	}
	return v
}

func normalizeFontFamily(v any) any {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, stringify(item))
		}
		return out
	case nil:
		return v
	}
	return []string{stringify(v)}
}

func normalizeFontSize(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}

	value, hasValue := m["value"]
	if !hasValue {
		return v
	}
	if unit, ok := m["unit"]; ok {
		return stringify(value) + stringify(unit)
	}
	return normalizeFontSize(value)
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if f, ok := toFloat(v); ok {
		return formatNumber(f)
	}
	return fmt.Sprint(v)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
