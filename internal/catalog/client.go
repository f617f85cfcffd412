package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iktkiosk/tcgreceipt/internal/models"
)

// ErrNoCandidates is returned when a tier has no entries to choose from,
// either because the catalog returned none or because the fetch failed.
var ErrNoCandidates = errors.New("no catalog entries for tier")

// Gateway supplies catalog entries by rarity
type Gateway interface {
	FetchByRarity(ctx context.Context, tier models.Tier) ([]models.CatalogEntry, error)
	Health(ctx context.Context) bool
}

// ReceiptStore persists one record per printed receipt
type ReceiptStore interface {
	CreateReceipt(ctx context.Context, rec models.ReceiptRecord) error
}

// Client represents a PocketBase catalog API client
type Client struct {
	BaseURL            string
	EntriesCollection  string
	ReceiptsCollection string
	PerPage            int
	httpClient         *http.Client
}

// NewClient creates a new catalog client. timeout bounds every request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:            strings.TrimRight(baseURL, "/"),
		EntriesCollection:  "people",
		ReceiptsCollection: "receipts",
		PerPage:            200,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// listResponse is a PocketBase paged record list
type listResponse struct {
	Page       int                   `json:"page"`
	PerPage    int                   `json:"perPage"`
	TotalPages int                   `json:"totalPages"`
	TotalItems int                   `json:"totalItems"`
	Items      []models.CatalogEntry `json:"items"`
}

// FetchByRarity returns every entry of the given tier, following pagination.
func (c *Client) FetchByRarity(ctx context.Context, tier models.Tier) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("filter", fmt.Sprintf("rarity=%q", string(tier)))
		params.Set("page", fmt.Sprint(page))
		params.Set("perPage", fmt.Sprint(c.PerPage))
		listURL := fmt.Sprintf("%s/api/collections/%s/records?%s", c.BaseURL, url.PathEscape(c.EntriesCollection), params.Encode())

		var list listResponse
		if err := c.getJSON(ctx, listURL, &list); err != nil {
			return nil, fmt.Errorf("failed to fetch %s entries: %w", tier, err)
		}
		entries = append(entries, list.Items...)

		if page >= list.TotalPages || len(list.Items) == 0 {
			break
		}
	}
	return entries, nil
}

// Health reports whether the catalog answers its health endpoint.
func (c *Client) Health(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// CreateReceipt stores a receipt record.
func (c *Client) CreateReceipt(ctx context.Context, rec models.ReceiptRecord) error {
	if rec.Reason == "" {
		rec.Reason = models.ReasonOther
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return c.postJSON(ctx, c.ReceiptsCollection, rec)
}

// CreateEntry adds a catalog entry; used when seeding the catalog.
func (c *Client) CreateEntry(ctx context.Context, entry models.CatalogEntry) error {
	body := struct {
		Name        string      `json:"name"`
		Rarity      models.Tier `json:"rarity"`
		Description string      `json:"description"`
	}{entry.Name, entry.Rarity, entry.Description}
	return c.postJSON(ctx, c.EntriesCollection, body)
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("catalog API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, collection string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	postURL := fmt.Sprintf("%s/api/collections/%s/records", c.BaseURL, url.PathEscape(collection))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, postURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to create %s record: %w", collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("failed to create %s record: status %d: %s", collection, resp.StatusCode, string(respBody))
	}
	return nil
}
