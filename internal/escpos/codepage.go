package escpos

import (
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultEncoding is the table most printers power up with.
const DefaultEncoding = "CP437"

var charmaps = map[string]*charmap.Charmap{
	"CP437":     charmap.CodePage437,
	"CP850":     charmap.CodePage850,
	"CP852":     charmap.CodePage852,
	"CP855":     charmap.CodePage855,
	"CP858":     charmap.CodePage858,
	"CP860":     charmap.CodePage860,
	"CP862":     charmap.CodePage862,
	"CP863":     charmap.CodePage863,
	"CP865":     charmap.CodePage865,
	"CP866":     charmap.CodePage866,
	"CP1250":    charmap.Windows1250,
	"CP1251":    charmap.Windows1251,
	"CP1252":    charmap.Windows1252,
	"CP1253":    charmap.Windows1253,
	"CP1254":    charmap.Windows1254,
	"CP1257":    charmap.Windows1257,
	"ISO88591":  charmap.ISO8859_1,
	"ISO88592":  charmap.ISO8859_2,
	"ISO88597":  charmap.ISO8859_7,
	"ISO88599":  charmap.ISO8859_9,
	"ISO885915": charmap.ISO8859_15,
	"KOI8R":     charmap.KOI8R,
}

// NormalizeName folds code page spellings ("ISO-8859-1", "iso8859_1",
// "Windows-1252", "WPC1252") to one key.
func NormalizeName(name string) string {
	n := strings.ToUpper(name)
	n = strings.NewReplacer("-", "", "_", "", " ", "").Replace(n)
	for _, prefix := range []string{"WINDOWS", "WPC", "PC"} {
		if strings.HasPrefix(n, prefix) {
			n = "CP" + strings.TrimPrefix(n, prefix)
			break
		}
	}
	if strings.HasPrefix(n, "LATIN1") {
		n = "ISO88591"
	}
	return n
}

// LookupCharmap returns the host-side encoder for a code page name.
func LookupCharmap(name string) (*charmap.Charmap, bool) {
	cm, ok := charmaps[NormalizeName(name)]
	return cm, ok
}

// MissingGlyphs returns the runes of glyphs that do not survive an
// encode/decode round trip through cm.
func MissingGlyphs(cm *charmap.Charmap, glyphs string) string {
	var missing []rune
	for _, r := range glyphs {
		b, ok := cm.EncodeRune(r)
		if !ok || cm.DecodeByte(b) != r {
			missing = append(missing, r)
		}
	}
	return string(missing)
}

// glyphs with no Unicode decomposition
var plainLatin = map[rune]string{
	'ø': "o", 'Ø': "O",
	'æ': "ae", 'Æ': "AE",
	'œ': "oe", 'Œ': "OE",
	'ß': "ss",
	'đ': "d", 'Đ': "D",
	'ł': "l", 'Ł': "L",
	'þ': "th", 'Þ': "Th",
	'ð': "d", 'Ð': "D",
	'‘': "'", '’': "'", '‚': ",",
	'“': "\"", '”': "\"", '„': "\"",
	'–': "-", '—': "-", '\u2010': "-",
	'…': "...",
	'€': "EUR",
	'\u00a0': " ",
}

// Transliterate returns a plain Latin stand-in for r: diacritics are
// stripped and a few ligatures and punctuation marks are spelled out.
// It returns "?" when no stand-in exists.
func Transliterate(r rune) string {
	if r < 0x80 {
		return string(r)
	}
	if s, ok := plainLatin[r]; ok {
		return s
	}
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(strip, string(r))
	if err != nil || s == "" || s == string(r) {
		return "?"
	}
	return s
}

// encodeText converts s to bytes for the active table. Runes the table
// cannot represent are transliterated; anything left becomes '?'. A nil
// charmap means plain ASCII. Control characters other than '\n' never
// reach the printer, so text cannot issue commands.
func encodeText(cm *charmap.Charmap, s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if isControl(r) {
			out = append(out, '?')
			continue
		}
		if b, ok := encodeRune(cm, r); ok {
			out = append(out, b)
			continue
		}
		for _, sub := range Transliterate(r) {
			if b, ok := encodeRune(cm, sub); ok {
				out = append(out, b)
			} else {
				out = append(out, '?')
			}
		}
	}
	return out
}

func encodeRune(cm *charmap.Charmap, r rune) (byte, bool) {
	if r < 0x80 {
		return byte(r), !isControl(r)
	}
	if cm == nil {
		return 0, false
	}
	b, ok := cm.EncodeRune(r)
	if !ok || isControl(rune(b)) {
		return 0, false
	}
	return b, true
}

// isControl reports whether r is a C0 control or DEL. Line feed is allowed.
func isControl(r rune) bool {
	return r != '\n' && (r < 0x20 || r == 0x7f)
}
