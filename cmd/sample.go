package cmd

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/iktkiosk/tcgreceipt/internal/models"
	"github.com/iktkiosk/tcgreceipt/internal/rarity"
)

func newSampleCmd(a *app) *cobra.Command {
	var (
		draws int
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Draw rarities and compare the result with the configured weights",
		Example: `  # 10,000 draws with a fixed seed
  tcgreceipt sample -n 10000 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if draws <= 0 {
				return fmt.Errorf("draw count must be positive, got %d", draws)
			}

			expected, err := rarity.Distribution(a.cfg.Rarity)
			if err != nil {
				return err
			}

			src := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
			if cmd.Flags().Changed("seed") {
				src = rand.New(rand.NewPCG(seed, seed))
			}

			counts := make(map[models.Tier]int, len(a.cfg.Rarity))
			for range draws {
				tier, err := rarity.Sample(src, a.cfg.Rarity)
				if err != nil {
					return err
				}
				counts[tier]++
			}

			out := cmd.OutOrStdout()
			printTitle(out, fmt.Sprintf("%d draws", draws))
			fmt.Fprintf(out, "%-6s %10s %10s %8s\n", "tier", "expected", "observed", "count")
			for _, wt := range a.cfg.Rarity {
				observed := float64(counts[wt.Tier]) / float64(draws)
				fmt.Fprintf(out, "%-6s %9.2f%% %s %8d\n",
					wt.Tier,
					expected[wt.Tier]*100,
					styleNumber.Render(fmt.Sprintf("%9.2f%%", observed*100)),
					counts[wt.Tier])
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&draws, "draws", "n", 10000, "Number of draws")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible run")

	return cmd
}
