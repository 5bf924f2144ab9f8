package formatter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kataras/figma-bridge/pkg/theme"
)

// Supported config formats.
const (
	FormatJS   = "js"
	FormatJSON = "json"
	FormatCSS  = "css"
)

// ContentGlob is the source glob written into every generated config.
const ContentGlob = "./src/**/*.{html,js,jsx,ts,tsx,vue,svelte}"

// TailwindConfig is the serializable shape of tailwind.config.
type TailwindConfig struct {
	Content []string      `json:"content"`
	Theme   TailwindTheme `json:"theme"`
	Plugins []any         `json:"plugins"`
}

// TailwindTheme places the mapped values under theme.extend so Tailwind's defaults survive.
type TailwindTheme struct {
	Extend theme.Theme `json:"extend"`
}

// NewTailwindConfig wraps a mapped theme with the fixed content glob and an empty plugin list.
func NewTailwindConfig(t theme.Theme) TailwindConfig {
	if t == nil {
		t = theme.Theme{}
	}
	return TailwindConfig{
		Content: []string{ContentGlob},
		Theme:   TailwindTheme{Extend: t},
		Plugins: []any{},
	}
}

// ValidFormat reports whether format is one ToConfig understands.
func ValidFormat(format string) bool {
	switch format {
	case FormatJS, FormatJSON, FormatCSS:
		return true
	default:
		return false
	}
}

// ToConfig serializes t in the requested format:
//   - "json": pretty-printed tailwind config
//   - "js":   a CommonJS module exporting the same object
//   - "css":  a Tailwind v4 @theme block of CSS custom properties
func ToConfig(t theme.Theme, format string) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(NewTailwindConfig(t), "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal tailwind config: %w", err)
		}
		return string(data) + "\n", nil
	case FormatJS:
		data, err := json.MarshalIndent(NewTailwindConfig(t), "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal tailwind config: %w", err)
		}
		var sb strings.Builder
		sb.WriteString("/** @type {import('tailwindcss').Config} */\n")
		sb.WriteString("module.exports = ")
		sb.Write(data)
		sb.WriteString(";\n")
		return sb.String(), nil
	case FormatCSS:
		return ToCSS(t), nil
	default:
		return "", fmt.Errorf("unsupported config format %q (must be js, json or css)", format)
	}
}

// cssNamespaces maps theme sections to Tailwind v4 variable namespaces.
var cssNamespaces = map[theme.Category]string{
	theme.Colors:       "color",
	theme.Spacing:      "spacing",
	theme.BorderRadius: "radius",
	theme.FontFamily:   "font",
	theme.FontSize:     "text",
	theme.Custom:       "custom",
}

// ToCSS renders the theme as CSS custom properties inside an @theme block.
// Sections and keys are sorted so the output is stable.
func ToCSS(t theme.Theme) string {
	var sb strings.Builder

	sb.WriteString("@theme {\n")

	categories := make([]string, 0, len(t))
	for category := range t {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)

	for i, name := range categories {
		category := theme.Category(name)
		prefix, ok := cssNamespaces[category]
		if !ok {
			prefix = toKebabCase(name)
		}

		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("  /* %s */\n", name))
		writeCSSVars(&sb, "--"+prefix, t[category])
	}

	sb.WriteString("}\n")
	return sb.String()
}

func writeCSSVars(sb *strings.Builder, prefix string, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := prefix + "-" + toKebabCase(k)
		if nested, ok := m[k].(map[string]any); ok {
			writeCSSVars(sb, name, nested)
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s: %s;\n", name, cssValue(m[k])))
	}
}

func cssValue(v any) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ", ")
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprint(val)
	}
}

// toKebabCase converts a string to kebab-case format (lowercase with hyphens).
// This is used for generating CSS variable names from theme keys.
// Special characters are removed, and spaces/underscores are replaced with hyphens.
func toKebabCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}

	return result.String()
}
