// Package raster turns captured photos into 1-bit images for a thermal head.
package raster

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for photos that cannot be rendered,
// such as zero-sized frames.
var ErrUnsupportedFormat = errors.New("unsupported photo format")

// MonoRaster is a packed 1-bit bitmap. Rows are Stride bytes long, most
// significant bit first; a set bit is a printed (black) dot. Padding bits at
// the end of a row are always zero.
type MonoRaster struct {
	Width  int
	Height int
	Stride int
	Bits   []byte
}

// NewMonoRaster allocates a blank (all white) raster.
func NewMonoRaster(width, height int) (*MonoRaster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: raster size %dx%d", ErrUnsupportedFormat, width, height)
	}
	stride := (width + 7) / 8
	return &MonoRaster{
		Width:  width,
		Height: height,
		Stride: stride,
		Bits:   make([]byte, stride*height),
	}, nil
}

// Black reports whether the dot at (x, y) is printed.
func (m *MonoRaster) Black(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Stride+x/8]&(0x80>>uint(x%8)) != 0
}

// Row returns the packed bytes of row y.
func (m *MonoRaster) Row(y int) []byte {
	return m.Bits[y*m.Stride : (y+1)*m.Stride]
}

func (m *MonoRaster) set(x, y int) {
	m.Bits[y*m.Stride+x/8] |= 0x80 >> uint(x%8)
}

// Pack converts a row-major black mask into a MonoRaster.
func Pack(black []bool, width, height int) (*MonoRaster, error) {
	if len(black) < width*height {
		return nil, fmt.Errorf("%w: mask holds %d pixels, need %d", ErrUnsupportedFormat, len(black), width*height)
	}
	m, err := NewMonoRaster(width, height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if black[y*width+x] {
				m.set(x, y)
			}
		}
	}
	return m, nil
}
