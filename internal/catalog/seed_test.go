package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/iktkiosk/tcgreceipt/internal/models"
)

func writeSeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write seed: %v", err)
	}
	return path
}

func TestLoadEntriesJSON(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []models.CatalogEntry
	}{
		{
			name: "wrapped with translations",
			content: `{"historical_figures":[
				{"name":"Sonja Henie","rarity":"a","description":{"en":"Skater","no":"Kunstløper"}},
				{"name":"Roald Amundsen","rarity":"S","description":{"en":"Explorer"}}
			]}`,
			expected: []models.CatalogEntry{
				{Name: "Sonja Henie", Rarity: models.TierA, Description: "Kunstløper"},
				{Name: "Roald Amundsen", Rarity: models.TierS, Description: "Explorer"},
			},
		},
		{
			name:    "bare array with plain description",
			content: `[{"name":"Ada","rarity":"E","description":"Mathematician"},{"name":"Bob","rarity":"D"}]`,
			expected: []models.CatalogEntry{
				{Name: "Ada", Rarity: models.TierE, Description: "Mathematician"},
				{Name: "Bob", Rarity: models.TierD},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := LoadEntries(writeSeed(t, "people.json", tt.content))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(entries) != len(tt.expected) {
				t.Fatalf("Expected %d entries, got %d", len(tt.expected), len(entries))
			}
			for i, want := range tt.expected {
				if entries[i] != want {
					t.Errorf("Expected %+v, got %+v", want, entries[i])
				}
			}
		})
	}
}

func TestLoadEntriesJSONL(t *testing.T) {
	content := `{"name":"Ada","rarity":"C","description":"One"}

{"name":"Grace","rarity":"B","description":{"no":"To"}}
`
	entries, err := LoadEntries(writeSeed(t, "people.jsonl", content))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[1].Description != "To" {
		t.Errorf("Expected description To, got %s", entries[1].Description)
	}
}

func TestLoadEntriesParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.parquet")
	rows := []parquetRow{
		{Name: "Ada", Rarity: "S", Description: "Analytical engine"},
		{Name: "Grace", Rarity: "A"},
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		t.Fatalf("Failed to write parquet: %v", err)
	}

	entries, err := LoadEntries(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Description != "Analytical engine" || entries[0].Rarity != models.TierS {
		t.Errorf("Unexpected first entry %+v", entries[0])
	}
	if entries[1].Description != "" {
		t.Errorf("Expected empty description, got %q", entries[1].Description)
	}
}

func TestLoadEntriesErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unsupported extension", "people.csv", "name,rarity\n"},
		{"unknown rarity", "people.json", `[{"name":"Ada","rarity":"Z"}]`},
		{"missing name", "people.json", `[{"rarity":"E"}]`},
		{"bad description", "people.json", `[{"name":"Ada","rarity":"E","description":42}]`},
		{"malformed line", "people.jsonl", "{\"name\":\"Ada\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadEntries(writeSeed(t, tt.file, tt.content)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
