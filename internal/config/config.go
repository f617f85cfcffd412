package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iktkiosk/tcgreceipt/internal/escpos"
	"github.com/iktkiosk/tcgreceipt/internal/models"
	"github.com/iktkiosk/tcgreceipt/internal/rarity"
)

// Printer transport kinds
const (
	TransportFile    = "file"
	TransportNetwork = "network"
)

// Config is the kiosk configuration
type Config struct {
	Catalog CatalogConfig         `yaml:"catalog"`
	Printer PrinterConfig         `yaml:"printer"`
	Receipt ReceiptConfig         `yaml:"receipt"`
	Rarity  []models.WeightedTier `yaml:"rarity"`
	Capture CaptureConfig         `yaml:"capture"`
}

// CatalogConfig points at the PocketBase catalog
type CatalogConfig struct {
	URL                string        `yaml:"url"`
	EntriesCollection  string        `yaml:"entries_collection"`
	ReceiptsCollection string        `yaml:"receipts_collection"`
	Timeout            time.Duration `yaml:"timeout"`
}

// PrinterConfig describes the receipt printer and its code page setup
type PrinterConfig struct {
	Transport       string            `yaml:"transport"`
	Device          string            `yaml:"device"`
	Address         string            `yaml:"address"`
	WriteTimeout    time.Duration     `yaml:"write_timeout"`
	CodePages       []string          `yaml:"code_pages"`
	RequiredGlyphs  string            `yaml:"required_glyphs"`
	RawFallback     []escpos.RawTable `yaml:"raw_fallback"`
	Profile         escpos.Profile    `yaml:"profile"`
	DefaultEncoding string            `yaml:"default_encoding"`
	Cut             bool              `yaml:"cut"`
	RasterChunkRows int               `yaml:"raster_chunk_rows"`
}

// ReceiptConfig controls receipt layout
type ReceiptConfig struct {
	Title           string `yaml:"title"`
	Footer          string `yaml:"footer"`
	ImageWidth      int    `yaml:"image_width"`
	TextWidth       int    `yaml:"text_width"`
	MaxDraws        int    `yaml:"max_draws"`
	TimestampLayout string `yaml:"timestamp_layout"`
	HealthCheck     bool   `yaml:"health_check"`
}

// CaptureConfig selects the camera. When URL is set photos are fetched
// from that snapshot endpoint; otherwise Command is run and "{out}" in Args
// is replaced with the path the still should be written to.
type CaptureConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
	Command string        `yaml:"command"`
	Args    []string      `yaml:"args"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Catalog: CatalogConfig{
			URL:                "http://localhost:8090",
			EntriesCollection:  "people",
			ReceiptsCollection: "receipts",
			Timeout:            30 * time.Second,
		},
		Printer: PrinterConfig{
			Transport:       TransportFile,
			Device:          "/dev/usb/lp0",
			Address:         "localhost:9100",
			WriteTimeout:    10 * time.Second,
			CodePages:       []string{"CP1252", "ISO8859_1", "CP865", "CP858"},
			RequiredGlyphs:  "æøåÆØÅ",
			RawFallback:     escpos.DefaultRawFallback(),
			Profile:         escpos.DefaultProfile(),
			DefaultEncoding: escpos.DefaultEncoding,
			Cut:             true,
			RasterChunkRows: escpos.DefaultRasterChunkRows,
		},
		Receipt: ReceiptConfig{
			Title:           "IKT RECEIPT",
			ImageWidth:      256,
			TextWidth:       24,
			MaxDraws:        3,
			TimestampLayout: "2006-01-02 15:04:05",
			HealthCheck:     true,
		},
		Rarity: models.DefaultWeights(),
		Capture: CaptureConfig{
			Timeout: 10 * time.Second,
			Command: "rpicam-still",
			Args:    []string{"-n", "-t", "1", "-o", "{out}"},
		},
	}
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from TCG_* environment variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TCG_CATALOG_URL"); v != "" {
		c.Catalog.URL = v
	}
	if v := os.Getenv("TCG_PRINTER_DEVICE"); v != "" {
		c.Printer.Device = v
		c.Printer.Transport = TransportFile
	}
	if v := os.Getenv("TCG_PRINTER_ADDR"); v != "" {
		c.Printer.Address = v
		c.Printer.Transport = TransportNetwork
	}
}

// Validate checks the configuration is usable
func (c Config) Validate() error {
	var errs []error

	if _, err := rarity.Total(c.Rarity); err != nil {
		errs = append(errs, err)
	}
	if c.Receipt.ImageWidth <= 0 {
		errs = append(errs, fmt.Errorf("%w: image_width must be positive, got %d", rarity.ErrConfiguration, c.Receipt.ImageWidth))
	}
	if c.Receipt.TextWidth <= 0 {
		errs = append(errs, fmt.Errorf("%w: text_width must be positive, got %d", rarity.ErrConfiguration, c.Receipt.TextWidth))
	}
	if c.Receipt.MaxDraws <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_draws must be positive, got %d", rarity.ErrConfiguration, c.Receipt.MaxDraws))
	}
	if c.Catalog.URL == "" {
		errs = append(errs, fmt.Errorf("%w: catalog url is required", rarity.ErrConfiguration))
	}

	switch c.Printer.Transport {
	case TransportFile:
		if c.Printer.Device == "" {
			errs = append(errs, fmt.Errorf("%w: printer device is required for the file transport", rarity.ErrConfiguration))
		}
	case TransportNetwork:
		if c.Printer.Address == "" {
			errs = append(errs, fmt.Errorf("%w: printer address is required for the network transport", rarity.ErrConfiguration))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unknown printer transport %q", rarity.ErrConfiguration, c.Printer.Transport))
	}

	return errors.Join(errs...)
}
