package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iktkiosk/tcgreceipt/internal/models"
	"github.com/iktkiosk/tcgreceipt/internal/rarity"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to validate, got %v", err)
	}
	if cfg.Receipt.ImageWidth != 256 {
		t.Errorf("Expected image width 256, got %d", cfg.Receipt.ImageWidth)
	}
	if cfg.Printer.CodePages[0] != "CP1252" {
		t.Errorf("Expected CP1252 first, got %s", cfg.Printer.CodePages[0])
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiosk.yaml")
	content := `
catalog:
  url: http://catalog.local:8090
  timeout: 5s
printer:
  transport: network
  address: 10.0.0.20:9100
  code_pages: [CP865]
receipt:
  footer: Takk!
  text_width: 32
rarity:
  - {tier: E, weight: 1}
  - {tier: S, weight: 1}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Catalog.URL != "http://catalog.local:8090" {
		t.Errorf("Expected catalog URL from file, got %s", cfg.Catalog.URL)
	}
	if cfg.Catalog.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %s", cfg.Catalog.Timeout)
	}
	if cfg.Printer.Transport != TransportNetwork || cfg.Printer.Address != "10.0.0.20:9100" {
		t.Errorf("Expected network transport at 10.0.0.20:9100, got %s %s", cfg.Printer.Transport, cfg.Printer.Address)
	}
	if len(cfg.Printer.CodePages) != 1 || cfg.Printer.CodePages[0] != "CP865" {
		t.Errorf("Expected code pages [CP865], got %v", cfg.Printer.CodePages)
	}
	if cfg.Receipt.Footer != "Takk!" || cfg.Receipt.TextWidth != 32 {
		t.Errorf("Unexpected receipt config %+v", cfg.Receipt)
	}
	if cfg.Receipt.Title != "IKT RECEIPT" {
		t.Errorf("Expected default title to survive, got %s", cfg.Receipt.Title)
	}
	if len(cfg.Rarity) != 2 || cfg.Rarity[1].Tier != models.TierS {
		t.Errorf("Expected two-tier rarity table, got %v", cfg.Rarity)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TCG_CATALOG_URL", "http://env:8090")
	t.Setenv("TCG_PRINTER_ADDR", "printer:9100")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Catalog.URL != "http://env:8090" {
		t.Errorf("Expected env catalog URL, got %s", cfg.Catalog.URL)
	}
	if cfg.Printer.Transport != TransportNetwork || cfg.Printer.Address != "printer:9100" {
		t.Errorf("Expected network transport from env, got %s %s", cfg.Printer.Transport, cfg.Printer.Address)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty weights", func(c *Config) { c.Rarity = nil }},
		{"all zero weights", func(c *Config) {
			c.Rarity = []models.WeightedTier{{Tier: models.TierE}, {Tier: models.TierS}}
		}},
		{"zero image width", func(c *Config) { c.Receipt.ImageWidth = 0 }},
		{"negative text width", func(c *Config) { c.Receipt.TextWidth = -1 }},
		{"zero max draws", func(c *Config) { c.Receipt.MaxDraws = 0 }},
		{"unknown transport", func(c *Config) { c.Printer.Transport = "bluetooth" }},
		{"network without address", func(c *Config) {
			c.Printer.Transport = TransportNetwork
			c.Printer.Address = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, rarity.ErrConfiguration) {
				t.Errorf("Expected ErrConfiguration, got %v", err)
			}
		})
	}
}
