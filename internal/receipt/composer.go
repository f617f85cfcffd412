// Package receipt composes one TCG receipt job: draw a rarity, pick a catalog
// entry, render the optional photo and print the layout.
package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/iktkiosk/tcgreceipt/internal/capture"
	"github.com/iktkiosk/tcgreceipt/internal/catalog"
	"github.com/iktkiosk/tcgreceipt/internal/config"
	"github.com/iktkiosk/tcgreceipt/internal/escpos"
	"github.com/iktkiosk/tcgreceipt/internal/models"
	"github.com/iktkiosk/tcgreceipt/internal/rarity"
	"github.com/iktkiosk/tcgreceipt/internal/raster"
)

const noDescription = "No description available"

// Config is the layout and negotiation setup of a Composer
type Config struct {
	Weights         []models.WeightedTier
	CodePages       []string
	Session         escpos.Options
	Title           string
	Footer          string
	ImageWidth      int
	TextWidth       int
	MaxDraws        int
	TimestampLayout string
	HealthCheck     bool
	Cut             bool
}

// NewConfig derives composer settings from the kiosk configuration.
func NewConfig(c config.Config) Config {
	return Config{
		Weights:   c.Rarity,
		CodePages: c.Printer.CodePages,
		Session: escpos.Options{
			RequiredGlyphs:  c.Printer.RequiredGlyphs,
			RawFallback:     c.Printer.RawFallback,
			DefaultEncoding: c.Printer.DefaultEncoding,
			RasterChunkRows: c.Printer.RasterChunkRows,
		},
		Title:           c.Receipt.Title,
		Footer:          c.Receipt.Footer,
		ImageWidth:      c.Receipt.ImageWidth,
		TextWidth:       c.Receipt.TextWidth,
		MaxDraws:        c.Receipt.MaxDraws,
		TimestampLayout: c.Receipt.TimestampLayout,
		HealthCheck:     c.Receipt.HealthCheck,
		Cut:             c.Printer.Cut,
	}
}

// Opener connects to the printer. It is called once per job.
type Opener func(ctx context.Context) (escpos.Transport, error)

// Deps are the collaborators of a Composer
type Deps struct {
	Catalog catalog.Gateway
	Printer Opener
	Random  rarity.Source
	Now     func() time.Time
	Logger  *slog.Logger
}

// RunOptions configure a single job
type RunOptions struct {
	// Test marks the job as a test print; callers skip persisting it.
	Test bool
	// Photo is captured and printed below the text when set.
	Photo capture.Source
}

// Composer runs receipt jobs one at a time
type Composer struct {
	cfg  Config
	deps Deps
	log  *slog.Logger
	mu   sync.Mutex
}

// New creates a composer
func New(cfg Config, deps Deps) *Composer {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Random == nil {
		deps.Random = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if cfg.MaxDraws <= 0 {
		cfg.MaxDraws = 1
	}
	if cfg.TimestampLayout == "" {
		cfg.TimestampLayout = time.DateTime
	}
	cfg.Session.Logger = deps.Logger
	return &Composer{cfg: cfg, deps: deps, log: deps.Logger}
}

// Run executes one job, waiting for any job already in progress.
// The returned job is non-nil whenever the job got an ID, including on error.
func (c *Composer) Run(ctx context.Context, opts RunOptions) (*Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.run(ctx, opts)
}

// TryRun executes one job, or returns ErrBusy if another is in progress.
func (c *Composer) TryRun(ctx context.Context, opts RunOptions) (*Job, error) {
	if !c.mu.TryLock() {
		return nil, ErrBusy
	}
	defer c.mu.Unlock()
	return c.run(ctx, opts)
}

func (c *Composer) run(ctx context.Context, opts RunOptions) (*Job, error) {
	job := newJob(opts.Test, c.deps.Now())
	log := c.log.With("job", job.ID)

	err := c.compose(ctx, job, opts, log)
	if err != nil {
		job.Error = err.Error()
		log.Error("Receipt job failed", "stage", FailedStage(err), "err", err)
		return job, err
	}

	log.Info("Receipt printed",
		"name", job.Entry.Name,
		"tier", job.Tier,
		"code_page", job.CodePage,
		"image", job.Raster != nil,
		"bytes", job.BytesWritten,
		"test", job.Test)
	return job, nil
}

func (c *Composer) compose(ctx context.Context, job *Job, opts RunOptions, log *slog.Logger) error {
	if _, err := rarity.Total(c.cfg.Weights); err != nil {
		return stageErr(StageSample, err)
	}

	if c.cfg.HealthCheck && !c.deps.Catalog.Health(ctx) {
		return stageErr(StageHealth, ErrCatalogDown)
	}

	entries, err := c.draw(ctx, job, log)
	if err != nil {
		return err
	}

	job.Entry = entries[pick(c.deps.Random, len(entries))]
	log.Debug("Picked catalog entry", "id", job.Entry.ID, "name", job.Entry.Name, "candidates", len(entries))

	if opts.Photo != nil {
		c.image(ctx, job, opts.Photo, log)
	}

	if err := ctx.Err(); err != nil {
		return stageErr(StagePrint, err)
	}
	return stageErr(StagePrint, c.print(ctx, job))
}

// draw samples tiers until one has catalog entries, up to MaxDraws times.
func (c *Composer) draw(ctx context.Context, job *Job, log *slog.Logger) ([]models.CatalogEntry, error) {
	var lastErr error
	for job.Draws < c.cfg.MaxDraws {
		tier, err := rarity.Sample(c.deps.Random, c.cfg.Weights)
		if err != nil {
			return nil, stageErr(StageSample, err)
		}
		job.Draws++
		job.Tier = tier

		entries, err := c.deps.Catalog.FetchByRarity(ctx, tier)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("%w %s: %w", catalog.ErrNoCandidates, tier, err)
		case len(entries) == 0:
			lastErr = fmt.Errorf("%w %s", catalog.ErrNoCandidates, tier)
		default:
			return entries, nil
		}
		log.Warn("No candidates for tier", "tier", tier, "draw", job.Draws, "err", lastErr)

		if ctx.Err() != nil {
			break
		}
	}
	return nil, stageErr(StageFetch, lastErr)
}

// image captures and renders the photo. Failures leave the job without a raster.
func (c *Composer) image(ctx context.Context, job *Job, src capture.Source, log *slog.Logger) {
	m, err := func() (*raster.MonoRaster, error) {
		photo, err := src.Capture(ctx)
		if err != nil {
			return nil, err
		}
		return raster.Render(photo, c.cfg.ImageWidth)
	}()
	if err != nil {
		job.imageErr = stageErr(StageImage, err)
		job.ImageError = err.Error()
		if errors.Is(err, capture.ErrCancelled) {
			log.Info("Photo capture cancelled, printing without image")
		} else {
			log.Warn("Failed to render photo, printing without image", "err", err)
		}
		return
	}
	job.Raster = m
}

func (c *Composer) print(ctx context.Context, job *Job) (err error) {
	t, err := c.deps.Printer(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", escpos.ErrTransport, err)
	}

	s, err := escpos.Open(t, c.cfg.Session)
	if err != nil {
		return err
	}
	defer func() {
		job.BytesWritten = s.BytesWritten()
		if cerr := s.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		if err == nil {
			job.PrintedAt = c.deps.Now()
		}
	}()

	if err := s.SelectCodePage(c.cfg.CodePages); err != nil {
		return err
	}
	job.CodePage = s.CodePage()
	job.Rejections = s.Rejections()

	return c.layout(s, job)
}

func pick(src rarity.Source, n int) int {
	i := int(src.Float64() * float64(n))
	return min(max(i, 0), n-1)
}
