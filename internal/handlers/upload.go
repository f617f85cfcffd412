package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/iktkiosk/tcgreceipt/internal/capture"
)

const maxPhotoBytes = 10 * 1024 * 1024

// uploadedPhoto returns the photo sent with a multipart job request, or nil
// when the request carries none.
func (h *Handler) uploadedPhoto(r *http.Request) (capture.Source, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, nil
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		file, _, err = r.FormFile("file")
		if err != nil {
			if err == http.ErrMissingFile {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to read photo: %w", err)
		}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read photo contents: %w", err)
	}
	if len(data) >= maxPhotoBytes {
		return nil, fmt.Errorf("photo too large (max 10MB)")
	}

	return &capture.BytesSource{Data: data}, nil
}
