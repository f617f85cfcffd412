package receipt

import (
	"time"

	"github.com/google/uuid"

	"github.com/iktkiosk/tcgreceipt/internal/escpos"
	"github.com/iktkiosk/tcgreceipt/internal/models"
	"github.com/iktkiosk/tcgreceipt/internal/raster"
)

// Job is the outcome of one receipt run
type Job struct {
	ID           string              `json:"id"`
	Test         bool                `json:"test"`
	Tier         models.Tier         `json:"tier"`
	Draws        int                 `json:"draws"`
	Entry        models.CatalogEntry `json:"entry"`
	Raster       *raster.MonoRaster  `json:"-"`
	ImageError   string              `json:"image_error,omitempty"`
	CodePage     string              `json:"code_page,omitempty"`
	Rejections   []escpos.Rejection  `json:"rejections,omitempty"`
	BytesWritten int64               `json:"bytes_written"`
	StartedAt    time.Time           `json:"started_at"`
	PrintedAt    time.Time           `json:"printed_at,omitzero"`
	Error        string              `json:"error,omitempty"`

	imageErr error
}

func newJob(test bool, now time.Time) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Test:      test,
		StartedAt: now,
	}
}

// ImageErr is the non-fatal error from the image stage, if any.
func (j *Job) ImageErr() error { return j.imageErr }

// Printed reports whether the receipt reached the printer and was closed cleanly.
func (j *Job) Printed() bool { return !j.PrintedAt.IsZero() }

// Record is the receipt store entry for this job.
func (j *Job) Record() models.ReceiptRecord {
	return models.ReceiptRecord{
		PersonID:  j.Entry.ID,
		Reason:    models.ReasonOther,
		CreatedAt: j.PrintedAt.UTC(),
	}
}
