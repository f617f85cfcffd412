package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the catalog is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !a.catalogClient().Health(cmd.Context()) {
				printError(out, "Cannot connect to catalog at %s", a.cfg.Catalog.URL)
				return fmt.Errorf("catalog at %s is unreachable", a.cfg.Catalog.URL)
			}
			printSuccess(out, "Connected to catalog at %s", a.cfg.Catalog.URL)
			return nil
		},
	}
}
