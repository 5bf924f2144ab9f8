// Package theme maps Figma design variables onto a Tailwind theme.
package theme

import (
	"regexp"
	"strings"
)

// Category is a top-level Tailwind theme section.
type Category string

const (
	Colors       Category = "colors"
	Spacing      Category = "spacing"
	BorderRadius Category = "borderRadius"
	FontFamily   Category = "fontFamily"
	FontSize     Category = "fontSize"
	Custom       Category = "custom"
)

// Variable is a design variable as delivered by Figma or by a user payload.
// Type may be empty when unknown.
type Variable struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Theme is the mapped result: category to nested values keyed by dot-path segments.
type Theme map[Category]map[string]any

// Only the color words are word-bounded. The other words match anywhere in the
// name so camelCase names such as borderRadius or spacingMd are recognized; their
// one-letter prefixes (s-, r-, fs-, fz-) must start a word.
var (
	colorName      = regexp.MustCompile(`(?i)\b(colou?rs?|clr|col)\b|\bc-`)
	spacingTyped   = regexp.MustCompile(`(?i)spacing|space|gap|padding|margin|sp|\bs-`)
	spacingName    = regexp.MustCompile(`(?i)spacing|space|gap|padding|px|rem|em|\bs-`)
	radiusName     = regexp.MustCompile(`(?i)border-radius|radius|radii|round|br|\br-`)
	fontFamilyName = regexp.MustCompile(`(?i)font-family|fontfamily|typography|font`)
	fontSizeName   = regexp.MustCompile(`(?i)font-size|fontsize|type-size|\b(fs|fz)-`)
	hexColor       = regexp.MustCompile(`^#?[0-9a-fA-F]{6,8}$`)
)

type rule struct {
	category  Category
	match     func(name, typ string, value any) bool
	normalize func(any) any
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{Colors, isColor, normalizeColor},
	{Spacing, isSpacing, normalizeDimension},
	{BorderRadius, isRadius, normalizeDimension},
	{FontFamily, isFontFamily, normalizeFontFamily},
	{FontSize, isFontSize, normalizeFontSize},
}

// Classify returns the category of v and its value normalized for that category.
func Classify(v Variable) (Category, any) {
	value := extractValue(v.Value)
	name := matchable(v.Name)
	typ := strings.ToLower(v.Type)

	for _, r := range rules {
		if r.match(name, typ, value) {
			return r.category, r.normalize(value)
		}
	}
	return Custom, value
}

// Map classifies every named variable, in order, and inserts its normalized value
// under its category at the path derived from its name. Later variables overwrite
// earlier ones at colliding paths. Categories left empty are omitted.
func Map(vars []Variable) Theme {
	t := make(Theme)

	for _, v := range vars {
		if strings.TrimSpace(v.Name) == "" {
			continue
		}

		category, value := Classify(v)
		path := trimCategoryPrefix(category, Segments(v.Name))
		if len(path) == 0 {
			continue
		}

		section, ok := t[category]
		if !ok {
			section = make(map[string]any)
			t[category] = section
		}
		SetPath(section, path, value)
	}

	for category, section := range t {
		if len(section) == 0 {
			delete(t, category)
		}
	}

	return t
}

// matchable prepares a name for the word-bounded patterns: path separators,
// underscores and spaces all count as dashes.
func matchable(name string) string {
	return nameSeparators.Replace(name)
}

var nameSeparators = strings.NewReplacer("_", "-", "/", "-", ".", "-", " ", "-")

func isColor(name, typ string, value any) bool {
	if strings.Contains(typ, "color") || colorName.MatchString(name) {
		return true
	}
	switch val := value.(type) {
	case map[string]any:
		return hasAnyKey(val, "r", "g", "b", "hex")
	case string:
		return hexColor.MatchString(strings.TrimSpace(val))
	}
	return false
}

func isSpacing(name, typ string, _ any) bool {
	if strings.Contains(typ, "number") && spacingTyped.MatchString(name) {
		return true
	}
	return spacingName.MatchString(name)
}

func isRadius(name, _ string, _ any) bool {
	return radiusName.MatchString(name)
}

// isFontFamily leaves names and types that also say "size" to the font-size rule,
// which would otherwise never match a name like "font-size-lg".
func isFontFamily(name, typ string, value any) bool {
	if strings.Contains(typ, "font") && !strings.Contains(typ, "size") {
		return true
	}
	if fontFamilyName.MatchString(name) && !fontSizeName.MatchString(name) {
		return true
	}
	if s, ok := value.(string); ok && strings.Contains(s, ",") {
		return true
	}
	return false
}

// isFontSize also accepts a type naming a font size, the counterpart of the type
// check isFontFamily defers.
func isFontSize(name, typ string, _ any) bool {
	return fontSizeName.MatchString(name) || (strings.Contains(typ, "font") && strings.Contains(typ, "size"))
}

// categoryPrefixes lists leading segments that only restate the category
// ("color-primary" under colors is just "primary").
var categoryPrefixes = map[Category][][]string{
	Colors:       {{"colors"}, {"color"}, {"colours"}, {"colour"}, {"clr"}, {"col"}, {"c"}},
	Spacing:      {{"spacing"}, {"space"}, {"sp"}, {"s"}},
	BorderRadius: {{"border", "radius"}, {"radius"}, {"radii"}, {"rounded"}, {"round"}, {"br"}, {"r"}},
	FontFamily:   {{"font", "family"}, {"fontfamily"}, {"typography"}, {"font"}},
	FontSize:     {{"font", "size"}, {"fontsize"}, {"type", "size"}, {"fs"}, {"fz"}},
}

func trimCategoryPrefix(category Category, path []string) []string {
	for _, prefix := range categoryPrefixes[category] {
		if len(path) <= len(prefix) {
			continue
		}
		if hasPrefix(path, prefix) {
			return path[len(prefix):]
		}
	}
	return path
}

func hasPrefix(path, prefix []string) bool {
	for i := range prefix {
		if path[i] != prefix[i] {
			return false
		}
	}
	return true
}

func hasAnyKey(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}
