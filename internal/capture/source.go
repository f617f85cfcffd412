package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// FileSource returns a still image from disk. Useful for kiosks without a
// camera and for reprinting a saved photo.
type FileSource struct {
	Path string
}

// Capture decodes the file, honouring EXIF orientation.
func (s *FileSource) Capture(ctx context.Context) (*Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := imaging.Open(s.Path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open photo %s: %w", s.Path, err)
	}
	slog.Debug("Loaded photo", "path", s.Path, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return FromImage(img), nil
}

// BytesSource decodes an encoded image held in memory, such as a photo
// uploaded to the kiosk server.
type BytesSource struct {
	Data []byte
}

// Capture decodes the buffer, honouring EXIF orientation.
func (s *BytesSource) Capture(ctx context.Context) (*Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(s.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode photo: %w", err)
	}
	return FromImage(img), nil
}

// CommandSource shells out to a still-capture tool (for example
// `rpicam-still -n -t 2000 -o {out}`) and decodes the file it writes.
// The literal "{out}" in Args is replaced with a path inside a fresh
// directory under Dir, removed once the capture is done.
type CommandSource struct {
	Command string
	Args    []string
	Dir     string
}

// Capture runs the command and decodes its output. A context cancellation or
// an interrupted command is reported as ErrCancelled.
func (s *CommandSource) Capture(ctx context.Context) (*Photo, error) {
	if s.Command == "" {
		return nil, fmt.Errorf("no capture command configured")
	}

	dir, err := os.MkdirTemp(s.Dir, "capture-")
	if err != nil {
		return nil, fmt.Errorf("failed to create capture directory: %w", err)
	}
	defer os.RemoveAll(dir)
	out := filepath.Join(dir, "capture.jpg")

	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = strings.ReplaceAll(a, "{out}", out)
	}

	slog.Info("Capturing photo", "command", s.Command, "output", out)
	cmd := exec.CommandContext(ctx, s.Command, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && !exitErr.Exited() {
			return nil, fmt.Errorf("%w: %s terminated", ErrCancelled, s.Command)
		}
		return nil, fmt.Errorf("capture command failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	file := &FileSource{Path: out}
	return file.Capture(ctx)
}
