package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/iktkiosk/tcgreceipt/internal/catalog"
)

func newSeedCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "seed [file]",
		Short: "Import catalog entries from a JSON, JSONL or Parquet file",
		Long: `Loads people from a seed file and creates one catalog record per entry.

JSON files may hold {"historical_figures": [...]} or a bare array. A
description can be a string or a map of translations; the Norwegian text
is preferred, then English.`,
		Example: `  tcgreceipt seed files/people.json
  tcgreceipt seed --dry-run people.parquet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "files/people.json"
			if len(args) > 0 {
				path = args[0]
			}
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			entries, err := catalog.LoadEntries(path)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printWarning(out, "No entries found in %s", path)
				return nil
			}
			printInfo(out, "Found %d entries in %s", len(entries), path)

			if dryRun {
				for _, e := range entries {
					printDetail(out, "%s (%s)", e.Name, e.Rarity)
				}
				return nil
			}

			client := a.catalogClient()
			if !client.Health(ctx) {
				return fmt.Errorf("catalog at %s is unreachable", a.cfg.Catalog.URL)
			}

			var added, failed int
			for _, e := range entries {
				if err := client.CreateEntry(ctx, e); err != nil {
					failed++
					printError(out, "Failed to add %s: %v", e.Name, err)
					slog.Debug("Create entry failed", "name", e.Name, "err", err)
					continue
				}
				added++
				printSuccess(out, "Added %s (Rarity: %s)", e.Name, e.Rarity)
			}

			printTitle(out, "Seeding complete")
			printDetail(out, "added %d, failed %d, total %d", added, failed, len(entries))
			if failed > 0 {
				return fmt.Errorf("%d of %d entries failed", failed, len(entries))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the entries without creating them")

	return cmd
}
