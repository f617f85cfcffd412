package cmd

import (
	"github.com/spf13/cobra"

	"github.com/iktkiosk/tcgreceipt/internal/receipt"
)

func newPrintCmd(a *app) *cobra.Command {
	var (
		test       bool
		dryRun     bool
		camera     bool
		photo      string
		textWidth  int
		imageWidth int
	)

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print one receipt",
		Long: `Draws a rarity tier, picks a catalog entry of that tier and prints a receipt.

The receipt record is saved to the catalog unless --test is given. With
--dry-run the byte stream is decoded and shown in the terminal instead of
being sent to the printer.`,
		Example: `  # Print a receipt with a camera photo
  tcgreceipt print --camera

  # Preview a receipt for a saved photo without printing or saving it
  tcgreceipt print --dry-run --test --photo me.jpg

  # Narrower description column
  tcgreceipt print --text-width 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("text-width") {
				a.cfg.Receipt.TextWidth = textWidth
			}
			if cmd.Flags().Changed("image-width") {
				a.cfg.Receipt.ImageWidth = imageWidth
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			job, err := a.composer(dryRun, out).Run(ctx, receipt.RunOptions{
				Test:  test,
				Photo: a.photoSource(photo, camera),
			})
			if err != nil {
				printError(out, "Receipt failed at %s: %v", receipt.FailedStage(err), err)
				return err
			}

			printSuccess(out, "Printed %s (%s rarity)", job.Entry.Name, job.Tier)
			if job.CodePage != "" {
				printDetail(out, "code page %s, %d bytes", job.CodePage, job.BytesWritten)
			} else {
				printWarning(out, "No code page accepted; Nordic letters may print incorrectly")
			}
			if job.ImageErr() != nil {
				printWarning(out, "Printed without photo: %v", job.ImageErr())
			}

			if test || dryRun {
				printInfo(out, "Test mode - receipt record not saved")
				return nil
			}
			if err := receipt.Persist(ctx, a.catalogClient(), job); err != nil {
				printError(out, "Failed to save receipt record: %v", err)
				return err
			}
			printDetail(out, "receipt record saved")
			return nil
		},
	}

	cmd.Flags().BoolVar(&test, "test", false, "Do not save a receipt record")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the receipt in the terminal instead of printing")
	cmd.Flags().BoolVar(&camera, "camera", false, "Take a photo with the configured capture command")
	cmd.Flags().StringVar(&photo, "photo", "", "Print this image file instead of a camera photo")
	cmd.Flags().IntVar(&textWidth, "text-width", 0, "Description wrap width in characters")
	cmd.Flags().IntVar(&imageWidth, "image-width", 0, "Photo width in printer dots")

	return cmd
}
