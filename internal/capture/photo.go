// Package capture defines the photo sources the kiosk can take pictures from.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrCancelled is returned when the operator aborts a capture.
var ErrCancelled = errors.New("capture cancelled")

// Depth tags the layout of Photo.Pix
type Depth int

const (
	// Color photos store interleaved 8-bit R, G, B samples.
	Color Depth = iota
	// Grayscale photos store one 8-bit luminance sample per pixel.
	Grayscale
)

func (d Depth) String() string {
	switch d {
	case Color:
		return "color"
	case Grayscale:
		return "grayscale"
	default:
		return fmt.Sprintf("depth(%d)", int(d))
	}
}

// Channels returns the number of bytes per pixel for d.
func (d Depth) Channels() int {
	if d == Grayscale {
		return 1
	}
	return 3
}

// Photo is a raw captured frame.
type Photo struct {
	Width  int
	Height int
	Depth  Depth
	Pix    []byte
}

// Source produces photos. Implementations may block on hardware.
type Source interface {
	Capture(ctx context.Context) (*Photo, error)
}

// FromImage copies img into a color Photo.
func FromImage(img image.Image) *Photo {
	b := img.Bounds()
	p := &Photo{
		Width:  b.Dx(),
		Height: b.Dy(),
		Depth:  Color,
		Pix:    make([]byte, 0, b.Dx()*b.Dy()*3),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			p.Pix = append(p.Pix, c.R, c.G, c.B)
		}
	}
	return p
}

// Image exposes the photo as an image.Image. It returns an error when the
// pixel buffer does not match the declared dimensions.
func (p *Photo) Image() (image.Image, error) {
	need := p.Width * p.Height * p.Depth.Channels()
	if p.Width < 0 || p.Height < 0 || len(p.Pix) < need {
		return nil, fmt.Errorf("photo buffer holds %d bytes, %dx%d %s needs %d", len(p.Pix), p.Width, p.Height, p.Depth, need)
	}

	rect := image.Rect(0, 0, p.Width, p.Height)
	if p.Depth == Grayscale {
		img := image.NewGray(rect)
		copy(img.Pix, p.Pix[:need])
		return img, nil
	}

	img := image.NewNRGBA(rect)
	for i, j := 0, 0; i < need; i, j = i+3, j+4 {
		img.Pix[j] = p.Pix[i]
		img.Pix[j+1] = p.Pix[i+1]
		img.Pix[j+2] = p.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img, nil
}
