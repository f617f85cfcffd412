package escpos

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iktkiosk/tcgreceipt/internal/raster"
	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrTransport wraps every failure reported by the underlying transport.
	ErrTransport = errors.New("printer transport error")
	// ErrSessionClosed is returned for any call made after Close.
	ErrSessionClosed = errors.New("printer session closed")
)

// DefaultRasterChunkRows keeps each GS v 0 block within the line buffer of
// small controllers.
const DefaultRasterChunkRows = 960

// RawTable is a numeric ESC t table tried blindly when no named code page
// is accepted. Encoding names the host charset assumed to match; leave it
// empty to send transliterated ASCII.
type RawTable struct {
	Table    byte   `yaml:"table"`
	Encoding string `yaml:"encoding"`
}

// DefaultRawFallback is the guess for Nordic-capable tables on common clones.
func DefaultRawFallback() []RawTable {
	return []RawTable{
		{Table: 16, Encoding: "CP1252"},
		{Table: 3, Encoding: "CP865"},
	}
}

// Options configure a Session
type Options struct {
	// RequiredGlyphs must all round-trip through a named code page for it
	// to be accepted.
	RequiredGlyphs string
	// RawFallback is tried in order once every named candidate is rejected.
	RawFallback []RawTable
	// DefaultEncoding is assumed while no code page has been asserted.
	DefaultEncoding string
	// RasterChunkRows caps the rows sent per raster block.
	RasterChunkRows int
	Logger          *slog.Logger
}

// Style is the text formatting currently in effect.
type Style struct {
	Align  Alignment
	Bold   bool
	Width  int
	Height int
	Font   Font
}

// Rejection records a code page candidate that negotiation skipped.
type Rejection struct {
	Candidate string
	Reason    string
}

// Session is one open job on a printer. Every directive is written to the
// transport as soon as it is issued, in call order. A Session is not safe
// for concurrent use and is never reused after Close.
type Session struct {
	t      Transport
	opts   Options
	log    *slog.Logger
	closed bool

	codePage string
	table    int
	enc      *charmap.Charmap
	style    Style

	rejections []Rejection
	written    int64
}

// Open initializes the printer (ESC @) and returns a ready session. On
// failure the transport is closed.
func Open(t Transport, opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.DefaultEncoding == "" {
		opts.DefaultEncoding = DefaultEncoding
	}
	if opts.RasterChunkRows <= 0 {
		opts.RasterChunkRows = DefaultRasterChunkRows
	}

	s := &Session{
		t:     t,
		opts:  opts,
		log:   opts.Logger,
		table: -1,
		style: Style{Width: 1, Height: 1},
	}
	s.enc, _ = LookupCharmap(opts.DefaultEncoding)

	if err := s.write(cmdInitialize()); err != nil {
		_ = t.Close()
		s.closed = true
		return nil, err
	}
	return s, nil
}

// CodePage returns the name of the asserted code page, or "" when the
// printer is still on its power-up table.
func (s *Session) CodePage() string { return s.codePage }

// Table returns the asserted ESC t table number.
func (s *Session) Table() (byte, bool) {
	if s.table < 0 {
		return 0, false
	}
	return byte(s.table), true
}

// Rejections lists every candidate negotiation skipped, in trial order.
func (s *Session) Rejections() []Rejection { return s.rejections }

// Style returns the formatting currently in effect.
func (s *Session) Style() Style { return s.style }

// BytesWritten counts bytes accepted by the transport.
func (s *Session) BytesWritten() int64 { return s.written }

// Closed reports whether Close has been called.
func (s *Session) Closed() bool { return s.closed }

func (s *Session) write(p []byte) error {
	if s.closed {
		return ErrSessionClosed
	}
	n, err := s.t.Write(p)
	s.written += int64(n)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return nil
}

// SetAlignment sets the justification of following lines.
func (s *Session) SetAlignment(a Alignment) error {
	if s.closed {
		return ErrSessionClosed
	}
	if a > AlignRight {
		return fmt.Errorf("invalid alignment %d", a)
	}
	if err := s.write(cmdAlign(a)); err != nil {
		return err
	}
	s.style.Align = a
	return nil
}

// SetEmphasis turns bold printing on or off.
func (s *Session) SetEmphasis(bold bool) error {
	if err := s.write(cmdEmphasis(bold)); err != nil {
		return err
	}
	s.style.Bold = bold
	return nil
}

// SetScale sets the character width and height multipliers (1..8).
func (s *Session) SetScale(width, height int) error {
	if s.closed {
		return ErrSessionClosed
	}
	if width < 1 || width > MaxScale || height < 1 || height > MaxScale {
		return fmt.Errorf("scale %dx%d outside 1..%d", width, height, MaxScale)
	}
	if err := s.write(cmdScale(width, height)); err != nil {
		return err
	}
	s.style.Width, s.style.Height = width, height
	return nil
}

// SetFont selects font A or B.
func (s *Session) SetFont(f Font) error {
	if s.closed {
		return ErrSessionClosed
	}
	if f > FontB {
		return fmt.Errorf("invalid font %d", f)
	}
	if err := s.write(cmdFont(f)); err != nil {
		return err
	}
	s.style.Font = f
	return nil
}

// Reset returns to left-aligned, regular, 1x1 font A text in one write.
func (s *Session) Reset() error {
	var p []byte
	p = append(p, cmdAlign(AlignLeft)...)
	p = append(p, cmdEmphasis(false)...)
	p = append(p, cmdScale(1, 1)...)
	p = append(p, cmdFont(FontA)...)
	if err := s.write(p); err != nil {
		return err
	}
	s.style = Style{Width: 1, Height: 1}
	return nil
}

// WriteText encodes text for the active code page and sends it.
func (s *Session) WriteText(text string) error {
	if s.closed {
		return ErrSessionClosed
	}
	return s.write(encodeText(s.enc, text))
}

// WriteLine sends text followed by a line feed.
func (s *Session) WriteLine(text string) error {
	return s.WriteText(text + "\n")
}

// Feed advances the paper by lines.
func (s *Session) Feed(lines int) error {
	if s.closed {
		return ErrSessionClosed
	}
	if lines < 0 {
		return fmt.Errorf("invalid feed of %d lines", lines)
	}
	for lines > 0 {
		n := min(lines, 255)
		if err := s.write(cmdFeed(byte(n))); err != nil {
			return err
		}
		lines -= n
	}
	return nil
}

// Cut performs a full paper cut.
func (s *Session) Cut() error {
	return s.write(cmdCut())
}

// WriteRaster prints m with GS v 0, split into blocks of at most
// RasterChunkRows rows.
func (s *Session) WriteRaster(m *raster.MonoRaster) error {
	if s.closed {
		return ErrSessionClosed
	}
	if m == nil || m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: empty raster", raster.ErrUnsupportedFormat)
	}
	if m.Stride > 0xffff {
		return fmt.Errorf("%w: raster row of %d bytes is too wide", raster.ErrUnsupportedFormat, m.Stride)
	}

	for top := 0; top < m.Height; top += s.opts.RasterChunkRows {
		rows := min(s.opts.RasterChunkRows, m.Height-top)
		block := make([]byte, 0, 8+rows*m.Stride)
		block = append(block, cmdRasterHeader(m.Stride, rows)...)
		block = append(block, m.Bits[top*m.Stride:(top+rows)*m.Stride]...)
		if err := s.write(block); err != nil {
			return err
		}
	}
	return nil
}

// SelectCodePage negotiates the character table.
//
// Candidates are tried in order; one is accepted when the printer lists it,
// a host encoder exists, every required glyph round-trips, and the ESC t
// write succeeds. If all are rejected, the raw fallback tables are sent in
// order and the first write that succeeds wins. If those fail too the
// session keeps the printer's default table and a warning is logged.
//
// Negotiation never fails the job: the only error returned is
// ErrSessionClosed.
func (s *Session) SelectCodePage(candidates []string) error {
	if s.closed {
		return ErrSessionClosed
	}

	for _, name := range candidates {
		table, ok := s.t.CodePage(name)
		if !ok {
			s.reject(name, "not supported by printer")
			continue
		}
		cm, ok := LookupCharmap(name)
		if !ok {
			s.reject(name, "no host encoder")
			continue
		}
		if missing := MissingGlyphs(cm, s.opts.RequiredGlyphs); missing != "" {
			s.reject(name, fmt.Sprintf("cannot encode %q", missing))
			continue
		}
		if err := s.write(cmdSelectTable(table)); err != nil {
			s.reject(name, err.Error())
			continue
		}
		s.activate(strings.ToUpper(name), table, cm)
		s.log.Debug("Selected code page", "code_page", name, "table", table, "rejected", len(s.rejections))
		return nil
	}

	for _, raw := range s.opts.RawFallback {
		label := fmt.Sprintf("table %d", raw.Table)
		if err := s.write(cmdSelectTable(raw.Table)); err != nil {
			s.reject(label, err.Error())
			s.log.Debug("Raw code page select failed", "table", raw.Table, "err", err)
			continue
		}
		cm, _ := LookupCharmap(raw.Encoding)
		name := label
		if raw.Encoding != "" {
			name = strings.ToUpper(raw.Encoding)
		}
		s.activate(name, raw.Table, cm)
		s.log.Info("Sent raw code page select", "table", raw.Table, "assumed_encoding", raw.Encoding)
		return nil
	}

	s.log.Warn("Failed to select a code page; non-ASCII glyphs may print incorrectly",
		"candidates", candidates, "default_encoding", s.opts.DefaultEncoding)
	return nil
}

func (s *Session) reject(candidate, reason string) {
	s.rejections = append(s.rejections, Rejection{Candidate: candidate, Reason: reason})
	s.log.Debug("Code page rejected", "candidate", candidate, "reason", reason)
}

func (s *Session) activate(name string, table byte, cm *charmap.Charmap) {
	s.codePage = name
	s.table = int(table)
	s.enc = cm
}

// Close flushes and releases the transport. The session is unusable
// afterwards, even if Close returns an error.
func (s *Session) Close() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true

	var errs []error
	if f, ok := s.t.(flusher); ok {
		if err := f.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.t.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrTransport, errors.Join(errs...))
	}
	return nil
}
