package receipt

import (
	"slices"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		expected []string
	}{
		{"fills greedily", "aa bb cc", 5, []string{"aa bb", "cc"}},
		{"long word alone", "supercalifragilistic", 5, []string{"supercalifragilistic"}},
		{"long word between short ones", "a supercalifragilistic b", 5, []string{"a", "supercalifragilistic", "b"}},
		{"exact fit", "abc de", 6, []string{"abc de"}},
		{"collapses whitespace", "  aa \n bb\tcc  ", 8, []string{"aa bb cc"}},
		{"counts runes not bytes", "ærø åså", 7, []string{"ærø åså"}},
		{"empty", "", 10, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrap(tt.text, tt.width)
			if !slices.Equal(result, tt.expected) {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}
