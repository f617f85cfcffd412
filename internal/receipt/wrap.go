package receipt

import (
	"strings"
	"unicode/utf8"
)

// Wrap breaks text into lines of at most width runes. Words are never
// split: a word longer than width gets a line of its own.
func Wrap(text string, width int) []string {
	var (
		lines   []string
		line    strings.Builder
		lineLen int
	)

	for _, word := range strings.Fields(text) {
		n := utf8.RuneCountInString(word)
		if lineLen > 0 && lineLen+1+n <= width {
			line.WriteByte(' ')
			line.WriteString(word)
			lineLen += 1 + n
			continue
		}
		if lineLen > 0 {
			lines = append(lines, line.String())
			line.Reset()
		}
		line.WriteString(word)
		lineLen = n
	}
	if lineLen > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
