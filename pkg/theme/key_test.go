package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"slash and inner space", "Color/Primary 500", "color.primary-500"},
		{"dash separated", "spacing-sm", "spacing.sm"},
		{"dots and underscores", "colors.gray_100", "colors.gray.100"},
		{"brackets and hash stripped", "  [Brand] (Main) #1 ", "brand-main-1"},
		{"repeated separators", "color//primary--dark", "color.primary.dark"},
		{"accents folded", "Café/Crème", "cafe.creme"},
		{"punctuation dropped", "Size: XL!", "size-xl"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.in))
		})
	}
}

func TestSetPath(t *testing.T) {
	m := map[string]any{}

	SetPath(m, []string{"a", "b", "c"}, 1)
	SetPath(m, []string{"a", "d"}, 2)
	assert.Equal(t, map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": 1},
			"d": 2,
		},
	}, m)

	// non-map intermediate is replaced
	SetPath(m, []string{"a", "d", "e"}, 3)
	v, ok := GetPath(m, []string{"a", "d", "e"})
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	SetPath(m, nil, 4)
	SetPath(nil, []string{"x"}, 5)

	_, ok = GetPath(m, []string{"a", "b", "c", "z"})
	assert.False(t, ok)
}
