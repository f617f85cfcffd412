package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/iktkiosk/tcgreceipt/internal/handlers"
	"github.com/iktkiosk/tcgreceipt/internal/storage"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port   string
		camera bool
		keep   int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the kiosk control server",
		Long: `Starts an HTTP server that prints receipts on request.

POST /api/jobs prints a receipt (add ?test=1 to skip saving the record, or
send a multipart "photo" field to print an uploaded picture). GET /api/jobs
lists recent jobs and GET /api/jobs/{id} shows one. Only one receipt prints
at a time; a request made while printing gets 409 Conflict.`,
		Example: `  # Start server on default port 8888
  tcgreceipt serve

  # Take a camera photo for every receipt
  tcgreceipt serve --camera --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := handlers.New(a.composer(false, nil), storage.New(keep), a.catalogClient())
			if camera {
				handler.Camera = a.photoSource("", true)
			}

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/jobs", handler.HandleJobs)
			mux.HandleFunc("/api/jobs/", handler.HandleJobDetail)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Kiosk server available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give a receipt in progress time to finish printing
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().BoolVar(&camera, "camera", false, "Take a camera photo for jobs without an uploaded photo")
	cmd.Flags().IntVar(&keep, "keep", storage.DefaultLimit, "Number of recent jobs to remember")

	return cmd
}
