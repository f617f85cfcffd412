package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iktkiosk/tcgreceipt/internal/models"
)

func TestFetchByRarity(t *testing.T) {
	var filters []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/collections/people/records" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		filters = append(filters, r.URL.Query().Get("filter"))

		page := r.URL.Query().Get("page")
		items := []models.CatalogEntry{{ID: "p" + page, Name: "Person " + page, Rarity: models.TierA}}
		_ = json.NewEncoder(w).Encode(listResponse{Page: 1, TotalPages: 2, Items: items})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	entries, err := client.FetchByRarity(context.Background(), models.TierA)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries across pages, got %d", len(entries))
	}
	if entries[0].ID != "p1" || entries[1].ID != "p2" {
		t.Errorf("Expected p1, p2 in page order, got %s, %s", entries[0].ID, entries[1].ID)
	}
	for _, f := range filters {
		if f != `rarity="A"` {
			t.Errorf("Expected filter rarity=\"A\", got %s", f)
		}
	}
}

func TestFetchByRarityEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page":1,"perPage":200,"totalPages":0,"totalItems":0,"items":[]}`)
	}))
	defer server.Close()

	entries, err := NewClient(server.URL, time.Second).FetchByRarity(context.Background(), models.TierS)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}

func TestFetchByRarityStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).FetchByRarity(context.Background(), models.TierE)
	if err == nil {
		t.Fatal("Expected error for status 500")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("Expected status code in error, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected bool
	}{
		{"healthy", http.StatusOK, true},
		{"unhealthy", http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/health" {
					t.Errorf("Unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			if got := NewClient(server.URL, time.Second).Health(context.Background()); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestHealthUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	if NewClient(url, time.Second).Health(context.Background()) {
		t.Error("Expected unreachable catalog to be unhealthy")
	}
}

func TestCreateReceipt(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/collections/receipts/records" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.FixedZone("CET", 3600))
	err := NewClient(server.URL, time.Second).CreateReceipt(context.Background(), models.ReceiptRecord{
		PersonID:  "abc123",
		CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got["person"] != "abc123" {
		t.Errorf("Expected person abc123, got %v", got["person"])
	}
	if got["reason"] != models.ReasonOther {
		t.Errorf("Expected reason %s, got %v", models.ReasonOther, got["reason"])
	}
	if got["created"] != "2024-03-01T11:30:00Z" {
		t.Errorf("Expected UTC timestamp, got %v", got["created"])
	}
}

func TestCreateEntryRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Failed to create record."}`, http.StatusBadRequest)
	}))
	defer server.Close()

	err := NewClient(server.URL, time.Second).CreateEntry(context.Background(), models.CatalogEntry{Name: "Ada", Rarity: models.TierS})
	if err == nil {
		t.Fatal("Expected error for status 400")
	}
}
