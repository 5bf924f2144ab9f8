package theme

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapScenario(t *testing.T) {
	vars := []Variable{
		{Name: "spacing-sm", Type: "FLOAT", Value: 4.0},
		{Name: "color-primary", Type: "COLOR", Value: map[string]any{"r": 1.0, "g": 0.0, "b": 0.0, "a": 1.0}},
	}

	got := Map(vars)

	assert.Equal(t, Theme{
		Spacing: {"sm": "4"},
		Colors:  {"primary": "#ff0000"},
	}, got)
}

func TestMapSkipsEmptyNames(t *testing.T) {
	got := Map([]Variable{
		{Name: "", Type: "COLOR", Value: "#fff000"},
		{Name: "   ", Value: 3.0},
		{Name: "()#", Value: "x"},
	})
	assert.Empty(t, got)
}

func TestMapLastWriteWins(t *testing.T) {
	t.Run("leaf", func(t *testing.T) {
		got := Map([]Variable{
			{Name: "color/brand", Value: "#111111"},
			{Name: "color/brand", Value: "#222222"},
		})
		assert.Equal(t, "#222222", got[Colors]["brand"])
	})

	t.Run("leaf replaced by nested map", func(t *testing.T) {
		got := Map([]Variable{
			{Name: "color/brand", Value: "#111111"},
			{Name: "color/brand/500", Value: "#222222"},
		})
		assert.Equal(t, map[string]any{"500": "#222222"}, got[Colors]["brand"])
	})

	t.Run("nested map replaced by leaf", func(t *testing.T) {
		got := Map([]Variable{
			{Name: "color/brand/500", Value: "#222222"},
			{Name: "color/brand", Value: "#111111"},
		})
		assert.Equal(t, "#111111", got[Colors]["brand"])
	})
}

func TestMapNestedPaths(t *testing.T) {
	got := Map([]Variable{
		{Name: "Color/Primary 500", Type: "COLOR", Value: "3b82f6"},
		{Name: "colors.gray.100", Type: "COLOR", Value: map[string]any{"hex": "f3f4f6"}},
	})

	assert.Equal(t, Theme{
		Colors: {
			"primary-500": "#3b82f6",
			"gray":        map[string]any{"100": "#f3f4f6"},
		},
	}, got)
}

func TestMapCategories(t *testing.T) {
	got := Map([]Variable{
		{Name: "radius-md", Type: "FLOAT", Value: 8.0},
		{Name: "font-family-body", Type: "STRING", Value: "Inter"},
		{Name: "font-size-lg", Type: "FLOAT", Value: map[string]any{"value": 18.0, "unit": "px"}},
		{Name: "shadow-elevated", Type: "STRING", Value: "0 1px 2px black"},
		{Name: "gap-lg", Type: "FLOAT", Value: map[string]any{"value": 24.0}},
	})

	assert.Equal(t, Theme{
		BorderRadius: {"md": "8"},
		FontFamily:   {"body": []string{"Inter"}},
		FontSize:     {"lg": "18px"},
		Custom:       {"shadow": map[string]any{"elevated": "0 1px 2px black"}},
		Spacing:      {"gap": map[string]any{"lg": "24"}},
	}, got)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		variable     Variable
		wantCategory Category
		wantValue    any
	}{
		{
			name:         "color name wins over float type",
			variable:     Variable{Name: "color-primary", Type: "FLOAT", Value: 1.0},
			wantCategory: Colors,
			wantValue:    1.0,
		},
		{
			name:         "color by type",
			variable:     Variable{Name: "brand", Type: "COLOR", Value: "#abcdef"},
			wantCategory: Colors,
			wantValue:    "#abcdef",
		},
		{
			name:         "color by rgb object with alpha",
			variable:     Variable{Name: "overlay", Value: map[string]any{"r": 0.0, "g": 0.0, "b": 0.0, "a": 0.5}},
			wantCategory: Colors,
			wantValue:    "rgba(0, 0, 0, 0.5)",
		},
		{
			name:         "color by bare hex string",
			variable:     Variable{Name: "brand", Value: "ff8800"},
			wantCategory: Colors,
			wantValue:    "#ff8800",
		},
		{
			name:         "color by underscore separated name",
			variable:     Variable{Name: "clr_accent", Value: "red"},
			wantCategory: Colors,
			wantValue:    "red",
		},
		{
			name:         "spacing by number type and margin name",
			variable:     Variable{Name: "margin-x", Type: "number", Value: 12.0},
			wantCategory: Spacing,
			wantValue:    "12",
		},
		{
			name:         "spacing by name alone",
			variable:     Variable{Name: "padding-sm", Value: "0.5rem"},
			wantCategory: Spacing,
			wantValue:    "0.5rem",
		},
		{
			name:         "radius",
			variable:     Variable{Name: "border-radius-lg", Value: 16},
			wantCategory: BorderRadius,
			wantValue:    "16",
		},
		{
			name:         "radius by camelCase name",
			variable:     Variable{Name: "borderRadius", Type: "FLOAT", Value: 8},
			wantCategory: BorderRadius,
			wantValue:    "8",
		},
		{
			name:         "radius inside a longer word",
			variable:     Variable{Name: "cornerRadius", Type: "FLOAT", Value: 8},
			wantCategory: BorderRadius,
			wantValue:    "8",
		},
		{
			name:         "spacing by camelCase name",
			variable:     Variable{Name: "spacingMd", Type: "FLOAT", Value: 8},
			wantCategory: Spacing,
			wantValue:    "8",
		},
		{
			name:         "padding by camelCase name",
			variable:     Variable{Name: "paddingX", Type: "FLOAT", Value: 8},
			wantCategory: Spacing,
			wantValue:    "8",
		},
		{
			name:         "one-letter prefix must start a word",
			variable:     Variable{Name: "radius-md", Value: 6},
			wantCategory: BorderRadius,
			wantValue:    "6",
		},
		{
			name:         "font family by comma separated value",
			variable:     Variable{Name: "body", Value: "Inter, sans-serif"},
			wantCategory: FontFamily,
			wantValue:    []string{"Inter, sans-serif"},
		},
		{
			name:         "font family by type",
			variable:     Variable{Name: "heading", Type: "fontFamily", Value: []any{"Poppins", "Arial"}},
			wantCategory: FontFamily,
			wantValue:    []string{"Poppins"},
		},
		{
			name:         "font size by shorthand",
			variable:     Variable{Name: "fs-xl", Value: map[string]any{"value": 20.0}},
			wantCategory: FontSize,
			wantValue:    20.0,
		},
		{
			name:         "font size by slash separated path",
			variable:     Variable{Name: "font/size/lg", Value: "1.125rem"},
			wantCategory: FontSize,
			wantValue:    "1.125rem",
		},
		{
			name:         "custom fallback keeps raw value",
			variable:     Variable{Name: "opacity-disabled", Type: "FLOAT", Value: 0.4},
			wantCategory: Custom,
			wantValue:    0.4,
		},
		{
			name:         "candidate list takes first",
			variable:     Variable{Name: "z-index-modal", Value: []any{50.0, 60.0}},
			wantCategory: Custom,
			wantValue:    50.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, value := Classify(tt.variable)
			assert.Equal(t, tt.wantCategory, category)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []any{
		"ff0000",
		"#00ff0080",
		map[string]any{"r": 0.2, "g": 0.4, "b": 0.6, "a": 0.25},
		map[string]any{"hex": "123abc"},
		12.5,
		map[string]any{"value": map[string]any{"value": 3.0}},
		"Inter",
		[]any{"Inter", "sans-serif"},
		map[string]any{"value": 14.0, "unit": "px"},
	}

	normalizers := map[string]func(any) any{
		"color":      normalizeColor,
		"dimension":  normalizeDimension,
		"fontFamily": normalizeFontFamily,
		"fontSize":   normalizeFontSize,
	}

	for name, normalize := range normalizers {
		for _, in := range inputs {
			once := normalize(in)
			twice := normalize(once)
			assert.Equal(t, once, twice, "%s normalizer is not idempotent for %#v", name, in)
		}
	}
}

func TestThemeJSONRoundTrip(t *testing.T) {
	original := Map([]Variable{
		{Name: "color/primary/500", Type: "COLOR", Value: "#3b82f6"},
		{Name: "spacing-4", Type: "FLOAT", Value: 16.0},
		{Name: "font-family-sans", Type: "STRING", Value: "Inter"},
	})

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Theme
	require.NoError(t, json.Unmarshal(data, &decoded))

	again, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
	assert.Equal(t, "#3b82f6", decoded[Colors]["primary"].(map[string]any)["500"])
}
