package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iktkiosk/tcgreceipt/internal/capture"
	"github.com/iktkiosk/tcgreceipt/internal/catalog"
	"github.com/iktkiosk/tcgreceipt/internal/receipt"
	"github.com/iktkiosk/tcgreceipt/internal/storage"
)

// Runner runs receipt jobs; *receipt.Composer implements it.
type Runner interface {
	TryRun(ctx context.Context, opts receipt.RunOptions) (*receipt.Job, error)
}

type Handler struct {
	runner   Runner
	jobs     *storage.JobStore
	receipts catalog.ReceiptStore
	// Camera is used for jobs that do not upload a photo. Nil prints
	// without an image.
	Camera capture.Source
}

func New(runner Runner, jobs *storage.JobStore, receipts catalog.ReceiptStore) *Handler {
	return &Handler{
		runner:   runner,
		jobs:     jobs,
		receipts: receipts,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
