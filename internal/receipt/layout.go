package receipt

import (
	"github.com/iktkiosk/tcgreceipt/internal/escpos"
	"github.com/iktkiosk/tcgreceipt/internal/raster"
)

// sheet issues directives until the first error, then ignores the rest.
type sheet struct {
	s   *escpos.Session
	err error
}

func (p *sheet) do(f func() error) {
	if p.err == nil {
		p.err = f()
	}
}

func (p *sheet) align(a escpos.Alignment) { p.do(func() error { return p.s.SetAlignment(a) }) }
func (p *sheet) bold(on bool)             { p.do(func() error { return p.s.SetEmphasis(on) }) }
func (p *sheet) scale(w, h int)           { p.do(func() error { return p.s.SetScale(w, h) }) }
func (p *sheet) font(f escpos.Font)       { p.do(func() error { return p.s.SetFont(f) }) }
func (p *sheet) reset()                   { p.do(p.s.Reset) }
func (p *sheet) line(text string)         { p.do(func() error { return p.s.WriteLine(text) }) }
func (p *sheet) feed(n int)               { p.do(func() error { return p.s.Feed(n) }) }
func (p *sheet) cut()                     { p.do(p.s.Cut) }
func (p *sheet) image(m *raster.MonoRaster) {
	p.do(func() error { return p.s.WriteRaster(m) })
}

// layout prints the receipt body:
//
//	TITLE            centered, bold, double height, font B
//	Name             centered, bold
//	Rarity: X        centered
//	description      left, wrapped to TextWidth
//	Generated: ...   centered
//	[photo]          centered
//	footer           centered
func (c *Composer) layout(s *escpos.Session, job *Job) error {
	p := &sheet{s: s}

	if c.cfg.Title != "" {
		p.align(escpos.AlignCenter)
		p.bold(true)
		p.scale(1, 2)
		p.font(escpos.FontB)
		p.line(c.cfg.Title)
		p.feed(1)
		p.reset()
	}

	p.align(escpos.AlignCenter)
	p.bold(true)
	p.line(job.Entry.Name)
	p.bold(false)
	p.line("Rarity: " + string(job.Tier))
	p.feed(1)

	desc := job.Entry.Description
	if desc == "" {
		desc = noDescription
	}
	p.align(escpos.AlignLeft)
	for _, l := range Wrap(desc, c.cfg.TextWidth) {
		p.line(l)
	}
	p.feed(1)

	p.align(escpos.AlignCenter)
	p.line("Generated: " + c.deps.Now().Format(c.cfg.TimestampLayout))
	p.feed(2)

	if job.Raster != nil {
		p.align(escpos.AlignCenter)
		p.image(job.Raster)
		p.feed(2)
	}

	if c.cfg.Footer != "" {
		p.align(escpos.AlignCenter)
		p.line(c.cfg.Footer)
	}
	p.feed(2)

	if c.cfg.Cut {
		p.cut()
	}
	return p.err
}
