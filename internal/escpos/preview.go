package escpos

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Preview is a Transport that decodes the ESC/POS stream back into plain
// text, for running the kiosk without a printer. Images are shown as a
// placeholder with their dot size.
type Preview struct {
	Profile
	// Columns is the paper width in font A characters.
	Columns int

	out     io.Writer
	pending []byte
	line    []byte
	align   Alignment
	width   int
	dec     *charmap.Charmap
	err     error
}

// NewPreview writes decoded receipts to out.
func NewPreview(out io.Writer, profile Profile, columns int) *Preview {
	if columns <= 0 {
		columns = 32
	}
	p := &Preview{Profile: profile, Columns: columns, out: out}
	p.reset()
	return p
}

func (p *Preview) reset() {
	p.align = AlignLeft
	p.width = 1
	p.dec = charmap.CodePage437
}

// Write decodes as many complete commands as p holds; a command split
// across writes is kept until the rest arrives.
func (p *Preview) Write(b []byte) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	p.pending = append(p.pending, b...)
	consumed := p.decode(p.pending)
	p.pending = append(p.pending[:0], p.pending[consumed:]...)
	return len(b), p.err
}

// Flush prints any partial line.
func (p *Preview) Flush() error {
	if len(p.line) > 0 {
		p.emitLine()
	}
	return p.err
}

// Close implements Transport.
func (p *Preview) Close() error { return p.Flush() }

// decode returns how many bytes of buf were consumed.
func (p *Preview) decode(buf []byte) int {
	i := 0
	for i < len(buf) {
		c := buf[i]
		switch {
		case c == '\n':
			p.emitLine()
			i++
		case c == esc || c == gs:
			n, ok := p.command(buf[i:])
			if !ok {
				return i
			}
			i += n
		case c < 0x20:
			i++
		default:
			p.line = append(p.line, c)
			i++
		}
	}
	return i
}

// command handles one command at the start of buf and returns its length.
func (p *Preview) command(buf []byte) (int, bool) {
	if len(buf) < 2 {
		return 0, false
	}
	switch {
	case buf[0] == esc && buf[1] == '@':
		p.reset()
		return 2, true
	case buf[0] == gs && buf[1] == 'v':
		if len(buf) < 8 {
			return 0, false
		}
		stride := int(buf[4]) | int(buf[5])<<8
		rows := int(buf[6]) | int(buf[7])<<8
		total := 8 + stride*rows
		if len(buf) < total {
			return 0, false
		}
		p.flushLine()
		p.print(fmt.Sprintf("[image %dx%d]", stride*8, rows))
		return total, true
	case buf[0] == gs && buf[1] == 'V':
		if len(buf) < 3 {
			return 0, false
		}
		p.flushLine()
		p.writeRaw(strings.Repeat("- ", p.Columns/2) + "\n")
		return 3, true
	}

	if len(buf) < 3 {
		return 0, false
	}
	arg := buf[2]
	switch {
	case buf[0] == esc && buf[1] == 'a':
		p.align = Alignment(arg)
	case buf[0] == esc && buf[1] == 'd':
		p.flushLine()
		p.writeRaw(strings.Repeat("\n", int(arg)))
	case buf[0] == esc && buf[1] == 't':
		p.dec = charmap.CodePage437
		if name, ok := p.TableName(arg); ok {
			if cm, ok := LookupCharmap(name); ok {
				p.dec = cm
			}
		}
	case buf[0] == gs && buf[1] == '!':
		p.width = int(arg>>4) + 1
	}
	// ESC E, ESC M and anything unknown take one argument and do not
	// change the text layout.
	return 3, true
}

func (p *Preview) flushLine() {
	if len(p.line) > 0 {
		p.emitLine()
	}
}

func (p *Preview) emitLine() {
	var sb strings.Builder
	for _, b := range p.line {
		sb.WriteRune(p.dec.DecodeByte(b))
	}
	p.line = p.line[:0]
	p.print(sb.String())
}

// print lays out one line according to the current alignment.
func (p *Preview) print(text string) {
	cols := p.Columns / max(p.width, 1)
	n := len([]rune(text))
	pad := 0
	switch p.align {
	case AlignCenter:
		pad = (cols - n) / 2
	case AlignRight:
		pad = cols - n
	}
	if pad < 0 {
		pad = 0
	}
	p.writeRaw(strings.Repeat(" ", pad) + text + "\n")
}

func (p *Preview) writeRaw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.out, s)
}
