package raster

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/iktkiosk/tcgreceipt/internal/capture"
)

// Threshold is the luminance midpoint: values below it print black.
const Threshold = 128.0

// Floyd–Steinberg weights, in sixteenths.
const (
	weightRight      = 7.0 / 16.0
	weightBelowLeft  = 3.0 / 16.0
	weightBelow      = 5.0 / 16.0
	weightBelowRight = 1.0 / 16.0
)

// Render scales photo to targetWidth (keeping the aspect ratio), converts it
// to BT.601 luminance and dithers it into a MonoRaster.
func Render(photo *capture.Photo, targetWidth int) (*MonoRaster, error) {
	if photo == nil || photo.Width <= 0 || photo.Height <= 0 {
		w, h := 0, 0
		if photo != nil {
			w, h = photo.Width, photo.Height
		}
		return nil, fmt.Errorf("%w: photo is %dx%d", ErrUnsupportedFormat, w, h)
	}
	if targetWidth <= 0 {
		return nil, fmt.Errorf("%w: target width %d", ErrUnsupportedFormat, targetWidth)
	}

	src, err := photo.Image()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	targetHeight := TargetHeight(photo.Width, photo.Height, targetWidth)
	resized := imaging.Resize(src, targetWidth, targetHeight, imaging.Linear)
	gray := Luminance(imaging.Grayscale(resized))

	return Pack(Dither(gray, targetWidth, targetHeight), targetWidth, targetHeight)
}

// TargetHeight returns round(targetWidth * height / width), at least 1.
func TargetHeight(width, height, targetWidth int) int {
	h := int(math.Round(float64(targetWidth) * float64(height) / float64(width)))
	if h < 1 {
		h = 1
	}
	return h
}

// Luminance flattens a grayscale image into a row-major float buffer.
// imaging.Grayscale already applied Y = 0.299R + 0.587G + 0.114B, so the red
// channel carries the luminance.
func Luminance(img *image.NRGBA) []float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			out[y*w+x] = float64(row[x*4])
		}
	}
	return out
}

// Dither applies Floyd–Steinberg error diffusion to gray (values 0..255,
// modified in place) and returns the black mask. Pixels are visited in
// raster order; each is compared against Threshold after earlier errors
// have been added, and its quantisation error is pushed to unvisited
// neighbours. The working buffer is not clamped.
func Dither(gray []float64, width, height int) []bool {
	black := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			old := gray[i]
			quantized := 255.0
			if old < Threshold {
				quantized = 0
				black[i] = true
			}
			diff := old - quantized

			if x+1 < width {
				gray[i+1] += diff * weightRight
			}
			if y+1 < height {
				below := i + width
				if x > 0 {
					gray[below-1] += diff * weightBelowLeft
				}
				gray[below] += diff * weightBelow
				if x+1 < width {
					gray[below+1] += diff * weightBelowRight
				}
			}
		}
	}
	return black
}
