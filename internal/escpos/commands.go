// Package escpos speaks the ESC/POS command set understood by most thermal
// receipt printers, including the cheap clone controllers found in kiosks.
package escpos

const (
	esc = 0x1b
	gs  = 0x1d
)

// Alignment of subsequent lines
type Alignment byte

const (
	AlignLeft   Alignment = 0
	AlignCenter Alignment = 1
	AlignRight  Alignment = 2
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseAlignment accepts "left", "center" or "right".
func ParseAlignment(s string) (Alignment, bool) {
	switch s {
	case "left", "":
		return AlignLeft, true
	case "center", "centre":
		return AlignCenter, true
	case "right":
		return AlignRight, true
	}
	return AlignLeft, false
}

// Font selects one of the built-in printer fonts. Font B is narrower.
type Font byte

const (
	FontA Font = 0
	FontB Font = 1
)

// MaxScale is the largest character multiplier the printer accepts.
const MaxScale = 8

func cmdInitialize() []byte { return []byte{esc, '@'} }

func cmdAlign(a Alignment) []byte { return []byte{esc, 'a', byte(a)} }

func cmdEmphasis(on bool) []byte {
	if on {
		return []byte{esc, 'E', 1}
	}
	return []byte{esc, 'E', 0}
}

// cmdScale builds GS ! n; width goes in the high nibble, height in the low.
func cmdScale(width, height int) []byte {
	return []byte{gs, '!', byte((width-1)<<4 | (height - 1))}
}

func cmdFont(f Font) []byte { return []byte{esc, 'M', byte(f)} }

func cmdSelectTable(table byte) []byte { return []byte{esc, 't', table} }

func cmdFeed(lines byte) []byte { return []byte{esc, 'd', lines} }

func cmdCut() []byte { return []byte{gs, 'V', 0} }

// cmdRasterHeader builds GS v 0 m xL xH yL yH for normal density.
func cmdRasterHeader(bytesPerRow, rows int) []byte {
	return []byte{
		gs, 'v', '0', 0,
		byte(bytesPerRow), byte(bytesPerRow >> 8),
		byte(rows), byte(rows >> 8),
	}
}
