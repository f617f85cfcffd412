package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestFromImageRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img.Set(2, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	p := FromImage(img)
	if p.Width != 3 || p.Height != 2 {
		t.Fatalf("Expected 3x2, got %dx%d", p.Width, p.Height)
	}
	if p.Depth != Color {
		t.Errorf("Expected color depth, got %s", p.Depth)
	}

	back, err := p.Image()
	if err != nil {
		t.Fatalf("Image returned error: %v", err)
	}
	r, g, b, _ := back.At(2, 1).RGBA()
	if r>>8 != 200 || g>>8 != 100 || b>>8 != 50 {
		t.Errorf("Expected (200,100,50), got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestPhotoImageShortBuffer(t *testing.T) {
	p := &Photo{Width: 4, Height: 4, Depth: Grayscale, Pix: make([]byte, 3)}
	if _, err := p.Image(); err == nil {
		t.Error("Expected error for short pixel buffer")
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "still.png")
	img := image.NewGray(image.Rect(0, 0, 5, 7))
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	src := &FileSource{Path: path}
	p, err := src.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture returned error: %v", err)
	}
	if p.Width != 5 || p.Height != 7 {
		t.Errorf("Expected 5x7, got %dx%d", p.Width, p.Height)
	}
}

func TestBytesSource(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 3))); err != nil {
		t.Fatal(err)
	}

	p, err := (&BytesSource{Data: buf.Bytes()}).Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture returned error: %v", err)
	}
	if p.Width != 8 || p.Height != 3 {
		t.Errorf("Expected 8x3, got %dx%d", p.Width, p.Height)
	}

	if _, err := (&BytesSource{Data: []byte("not an image")}).Capture(context.Background()); err == nil {
		t.Error("Expected decode error")
	}
}

func TestCommandSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &CommandSource{Command: "sleep", Args: []string{"5"}, Dir: t.TempDir()}
	_, err := src.Capture(ctx)
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("Expected ErrCancelled, got %v", err)
	}
}

func TestCommandSourceCleansUp(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr bool
	}{
		{"writes a photo", `cp "$1" "$2"`, false},
		{"fails after writing", `cp "$1" "$2"; exit 1`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := exec.LookPath("sh"); err != nil {
				t.Skip("sh not available")
			}
			fixtures := t.TempDir()
			var buf bytes.Buffer
			if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 3))); err != nil {
				t.Fatal(err)
			}
			still := filepath.Join(fixtures, "still.png")
			if err := os.WriteFile(still, buf.Bytes(), 0644); err != nil {
				t.Fatal(err)
			}

			dir := t.TempDir()
			src := &CommandSource{
				Command: "sh",
				Args:    []string{"-c", tt.script, "sh", still, "{out}"},
				Dir:     dir,
			}
			photo, err := src.Capture(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error from failing command")
				}
			} else {
				if err != nil {
					t.Fatalf("Capture returned error: %v", err)
				}
				if photo.Width != 4 || photo.Height != 3 {
					t.Errorf("Expected 4x3 photo, got %dx%d", photo.Width, photo.Height)
				}
			}

			left, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			if len(left) != 0 {
				t.Errorf("Expected capture directory removed, found %d entries", len(left))
			}
		})
	}
}
