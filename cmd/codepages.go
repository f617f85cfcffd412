package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iktkiosk/tcgreceipt/internal/escpos"
)

// defaultCyclePages are tried when no --page is given.
var defaultCyclePages = []string{"CP1252", "ISO8859_1", "CP865", "CP858", "CP437", "CP850", "CP852"}

func newCodepagesCmd(a *app) *cobra.Command {
	var (
		pages  []string
		text   string
		glyphs string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "codepages",
		Short: "Print a sample line in each code page",
		Long: `Selects each code page in turn and prints the same sample text, so the
operator can see which table renders the Nordic letters correctly. Pages the
printer profile does not list are reported and skipped.`,
		Example: `  tcgreceipt codepages
  tcgreceipt codepages --page CP865 --page CP1252 --text "Blåbærsyltetøy"`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			out := cmd.OutOrStdout()

			t, err := a.printerOpener(dryRun, out)(cmd.Context())
			if err != nil {
				return err
			}

			opts := escpos.Options{
				RequiredGlyphs:  glyphs,
				DefaultEncoding: a.cfg.Printer.DefaultEncoding,
				Logger:          a.logger,
			}
			s, err := escpos.Open(t, opts)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, s.Close())
			}()

			if err := s.WriteLine("Code page test"); err != nil {
				return err
			}
			for _, name := range pages {
				rejected := len(s.Rejections())
				if err := s.SelectCodePage([]string{name}); err != nil {
					return err
				}
				if len(s.Rejections()) > rejected {
					r := s.Rejections()[rejected]
					printWarning(out, "%s skipped: %s", name, r.Reason)
					continue
				}

				table, _ := s.Table()
				if err := s.WriteLine(fmt.Sprintf("%s (%d): %s", name, table, text)); err != nil {
					return err
				}
				printInfo(out, "Printed %s as table %d", name, table)
			}
			if err := s.Feed(3); err != nil {
				return err
			}
			if a.cfg.Printer.Cut {
				return s.Cut()
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&pages, "page", defaultCyclePages, "Code page to try (repeatable)")
	cmd.Flags().StringVar(&text, "text", "Test ø Ø æ Æ å Å Sørensen", "Sample text")
	cmd.Flags().StringVar(&glyphs, "glyphs", "", "Skip pages that cannot encode these characters")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the output in the terminal instead of printing")

	return cmd
}
