package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/iktkiosk/tcgreceipt/internal/catalog"
	"github.com/iktkiosk/tcgreceipt/internal/escpos"
	"github.com/iktkiosk/tcgreceipt/internal/receipt"
)

func (h *Handler) HandleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, h.jobs.Recent())
	case http.MethodPost:
		h.runJob(w, r)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleJobDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	job, exists := h.jobs.Get(jobID)
	if !exists {
		h.writeError(w, "Job not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, job)
}

func (h *Handler) runJob(w http.ResponseWriter, r *http.Request) {
	test, _ := strconv.ParseBool(r.URL.Query().Get("test"))

	opts := receipt.RunOptions{Test: test, Photo: h.Camera}
	photo, err := h.uploadedPhoto(r)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if photo != nil {
		opts.Photo = photo
	}

	// a disconnecting client must not abandon a half-printed receipt
	ctx := context.WithoutCancel(r.Context())

	job, err := h.runner.TryRun(ctx, opts)
	if errors.Is(err, receipt.ErrBusy) {
		h.writeError(w, "A receipt is already printing", http.StatusConflict)
		return
	}
	if job != nil {
		h.jobs.Add(job)
	}
	if err != nil {
		h.writeJSONStatus(w, jobStatus(err), job)
		return
	}

	if err := receipt.Persist(ctx, h.receipts, job); err != nil {
		slog.Error("Failed to save receipt record", "job", job.ID, "err", err)
	}
	h.writeJSONStatus(w, http.StatusCreated, job)
}

// jobStatus maps a failed job to an HTTP status
func jobStatus(err error) int {
	switch {
	case errors.Is(err, receipt.ErrCatalogDown), errors.Is(err, catalog.ErrNoCandidates):
		return http.StatusBadGateway
	case errors.Is(err, escpos.ErrTransport):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
