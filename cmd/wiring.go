package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/iktkiosk/tcgreceipt/internal/capture"
	"github.com/iktkiosk/tcgreceipt/internal/catalog"
	"github.com/iktkiosk/tcgreceipt/internal/config"
	"github.com/iktkiosk/tcgreceipt/internal/escpos"
	"github.com/iktkiosk/tcgreceipt/internal/receipt"
)

func (a *app) catalogClient() *catalog.Client {
	client := catalog.NewClient(a.cfg.Catalog.URL, a.cfg.Catalog.Timeout)
	client.EntriesCollection = a.cfg.Catalog.EntriesCollection
	client.ReceiptsCollection = a.cfg.Catalog.ReceiptsCollection
	return client
}

// printerOpener connects to the configured printer, or to a preview
// written to out when dryRun is set.
func (a *app) printerOpener(dryRun bool, out io.Writer) receipt.Opener {
	p := a.cfg.Printer
	return func(ctx context.Context) (escpos.Transport, error) {
		if dryRun {
			return escpos.NewPreview(out, p.Profile, 0), nil
		}
		switch p.Transport {
		case config.TransportNetwork:
			return escpos.Dial(ctx, p.Address, p.WriteTimeout, p.Profile)
		case config.TransportFile:
			return escpos.OpenFile(p.Device, p.Profile)
		default:
			return nil, fmt.Errorf("unknown printer transport %q", p.Transport)
		}
	}
}

func (a *app) composer(dryRun bool, out io.Writer) *receipt.Composer {
	return receipt.New(receipt.NewConfig(a.cfg), receipt.Deps{
		Catalog: a.catalogClient(),
		Printer: a.printerOpener(dryRun, out),
		Logger:  a.logger,
	})
}

// photoSource picks the capture source for a job: a still image when
// path is set, the configured camera when camera is set, otherwise none.
func (a *app) photoSource(path string, camera bool) capture.Source {
	switch {
	case path != "":
		return &capture.FileSource{Path: path}
	case camera && a.cfg.Capture.URL != "":
		return capture.NewSnapshotSource(a.cfg.Capture.URL, a.cfg.Capture.Timeout)
	case camera:
		return &capture.CommandSource{
			Command: a.cfg.Capture.Command,
			Args:    a.cfg.Capture.Args,
		}
	default:
		return nil
	}
}
