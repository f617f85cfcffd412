package escpos

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// Transport is a write-only connection to a printer plus the printer's
// table of supported code pages. Nothing is ever read back.
type Transport interface {
	Write(p []byte) (int, error)
	Close() error
	// CodePage returns the ESC t table number for a code page name, or
	// false when the printer does not support it.
	CodePage(name string) (table byte, ok bool)
}

// flusher is implemented by transports that buffer internally.
type flusher interface {
	Flush() error
}

// Profile is the capability table of one printer model.
type Profile struct {
	Name      string          `yaml:"name"`
	CodePages map[string]byte `yaml:"code_pages"`
}

// DefaultProfile lists the tables of the common Epson-compatible layout.
func DefaultProfile() Profile {
	return Profile{
		Name: "default",
		CodePages: map[string]byte{
			"CP437":  0,
			"CP850":  2,
			"CP860":  3,
			"CP863":  4,
			"CP865":  5,
			"CP1252": 16,
			"CP866":  17,
			"CP852":  18,
			"CP858":  19,
		},
	}
}

// CodePage implements the capability half of Transport.
func (p Profile) CodePage(name string) (byte, bool) {
	want := NormalizeName(name)
	for n, table := range p.CodePages {
		if NormalizeName(n) == want {
			return table, true
		}
	}
	return 0, false
}

// TableName is the reverse of CodePage.
func (p Profile) TableName(table byte) (string, bool) {
	for n, t := range p.CodePages {
		if t == table {
			return n, true
		}
	}
	return "", false
}

// FileTransport writes to a printer character device such as /dev/usb/lp0.
// Pointing it at a regular file captures the byte stream instead.
type FileTransport struct {
	Profile
	f *os.File
}

// OpenFile opens path for writing.
func OpenFile(path string, profile Profile) (*FileTransport, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open printer device %s: %w", ErrTransport, path, err)
	}
	return &FileTransport{Profile: profile, f: f}, nil
}

func (t *FileTransport) Write(p []byte) (int, error) { return t.f.Write(p) }

func (t *FileTransport) Close() error { return t.f.Close() }

// NetworkTransport talks to a printer's raw TCP port (usually 9100).
type NetworkTransport struct {
	Profile
	conn    net.Conn
	timeout time.Duration
}

// Dial connects to addr. timeout bounds the dial and every later write;
// zero disables the write deadline.
func Dial(ctx context.Context, addr string, timeout time.Duration, profile Profile) (*NetworkTransport, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to printer %s: %w", ErrTransport, addr, err)
	}
	return &NetworkTransport{Profile: profile, conn: conn, timeout: timeout}, nil
}

func (t *NetworkTransport) Write(p []byte) (int, error) {
	if t.timeout > 0 {
		if err := t.conn.SetWriteDeadline(time.Now().Add(t.timeout)); err != nil {
			return 0, err
		}
	}
	return t.conn.Write(p)
}

func (t *NetworkTransport) Close() error { return t.conn.Close() }
