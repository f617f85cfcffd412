package receipt

import (
	"context"

	"github.com/iktkiosk/tcgreceipt/internal/catalog"
)

// Persist stores the receipt record of a printed job. Test jobs and jobs
// that never printed are skipped.
func Persist(ctx context.Context, store catalog.ReceiptStore, job *Job) error {
	if store == nil || job == nil || job.Test || !job.Printed() {
		return nil
	}
	return stageErr(StageRecord, store.CreateReceipt(ctx, job.Record()))
}
