package cmd

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iktkiosk/tcgreceipt/internal/config"
)

// app is the state shared by every subcommand once the root pre-run has
// loaded the configuration.
type app struct {
	configPath string
	verbose    bool
	catalogURL string
	device     string

	cfg    config.Config
	logger *slog.Logger
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "tcgreceipt",
		Short: "Trading-card receipt kiosk for ESC/POS thermal printers",
		Long: `tcgreceipt prints trading-card style receipts on a thermal printer.

Each receipt draws a rarity tier, picks a person of that tier from the
PocketBase catalog, optionally adds a dithered photo and records the print.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			a.logger = installLogger(cmd.ErrOrStderr(), a.verbose)

			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("catalog-url") {
				cfg.Catalog.URL = a.catalogURL
			}
			if cmd.Flags().Changed("device") {
				cfg.Printer.Device = a.device
				cfg.Printer.Transport = config.TransportFile
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg

			slog.Debug("Configuration loaded",
				"config", a.configPath,
				"catalog", cfg.Catalog.URL,
				"transport", cfg.Printer.Transport)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to YAML configuration file")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&a.catalogURL, "catalog-url", "", "PocketBase base URL (overrides config and TCG_CATALOG_URL)")
	cmd.PersistentFlags().StringVar(&a.device, "device", "", "Printer device path (overrides config and TCG_PRINTER_DEVICE)")

	// Add subcommands
	cmd.AddCommand(newPrintCmd(a))
	cmd.AddCommand(newSampleCmd(a))
	cmd.AddCommand(newHealthCmd(a))
	cmd.AddCommand(newCodepagesCmd(a))
	cmd.AddCommand(newSeedCmd(a))
	cmd.AddCommand(newServeCmd(a))

	return cmd
}
