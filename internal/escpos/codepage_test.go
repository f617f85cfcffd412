package escpos

import (
	"bytes"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"CP1252":       "CP1252",
		"cp1252":       "CP1252",
		"Windows-1252": "CP1252",
		"WPC1252":      "CP1252",
		"ISO8859_1":    "ISO88591",
		"ISO-8859-15":  "ISO885915",
		"PC865":        "CP865",
		"latin1":       "ISO88591",
	}
	for in, want := range tests {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q): expected %s, got %s", in, want, got)
		}
	}
}

func TestMissingGlyphs(t *testing.T) {
	if got := MissingGlyphs(charmap.CodePage865, "øØæÆåÅ"); got != "" {
		t.Errorf("Expected CP865 to cover Nordic letters, missing %q", got)
	}
	if got := MissingGlyphs(charmap.CodePage437, "øå"); got != "ø" {
		t.Errorf("Expected CP437 to miss ø only, got %q", got)
	}
}

func TestTransliterate(t *testing.T) {
	tests := []struct {
		in       rune
		expected string
	}{
		{'é', "e"},
		{'Å', "A"},
		{'ø', "o"},
		{'Æ', "AE"},
		{'ß', "ss"},
		{'—', "-"},
		{'a', "a"},
		{'中', "?"},
	}
	for _, tt := range tests {
		if got := Transliterate(tt.in); got != tt.expected {
			t.Errorf("Transliterate(%q): expected %q, got %q", tt.in, tt.expected, got)
		}
	}
}

func TestEncodeTextNeverDropsRunes(t *testing.T) {
	got := encodeText(nil, "Løk – 中")
	if !bytes.Equal(got, []byte("Lok - ?")) {
		t.Errorf("Expected %q, got %q", "Lok - ?", got)
	}

	got = encodeText(charmap.Windows1252, "Sørensen €")
	want := []byte{'S', 0xf8, 'r', 'e', 'n', 's', 'e', 'n', ' ', 0x80}
	if !bytes.Equal(got, want) {
		t.Errorf("Expected %x, got %x", want, got)
	}
}

func TestEncodeTextStripsControlCharacters(t *testing.T) {
	tests := []struct {
		name     string
		cm       *charmap.Charmap
		input    string
		expected []byte
	}{
		{"cut and reset", nil, "Ada\x1dV\x00Lovelace\x1b@\n", []byte("Ada?V?Lovelace?@\n")},
		{"raster header", charmap.Windows1252, "\x1dv0\x00ø", []byte{'?', 'v', '0', '?', 0xf8}},
		{"tab, carriage return and delete", charmap.CodePage865, "a\tb\rc\x7f", []byte("a?b?c?")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encodeText(tt.cm, tt.input)
			if !bytes.Equal(got, tt.expected) {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
			if bytes.IndexByte(got, esc) >= 0 || bytes.IndexByte(got, gs) >= 0 {
				t.Errorf("Expected no ESC or GS bytes from text, got %x", got)
			}
		})
	}
}
