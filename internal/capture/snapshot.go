package capture

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const maxSnapshotBytes = 20 * 1024 * 1024

// SnapshotSource fetches a still from a network camera's snapshot URL
// (for example an ESP32-CAM or an IP camera's /snapshot.jpg).
type SnapshotSource struct {
	URL        string
	HTTPClient *http.Client
}

// NewSnapshotSource creates a snapshot source with a bounded request time
func NewSnapshotSource(url string, timeout time.Duration) *SnapshotSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SnapshotSource{
		URL: url,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Capture downloads and decodes one snapshot.
func (s *SnapshotSource) Capture(ctx context.Context) (*Photo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot request: %w", err)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot URL returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot data: %w", err)
	}
	slog.Debug("Fetched snapshot", "url", s.URL, "bytes", len(data))

	return (&BytesSource{Data: data}).Capture(ctx)
}
