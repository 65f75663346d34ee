package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"PatternScan/internal/config"
	"PatternScan/internal/metrics"
	"PatternScan/internal/patternset"
)

// NewMux builds the full route table: the API plus health and info endpoints.
func NewMux(mgr *patternset.Manager, m *metrics.Metrics, logger *slog.Logger, cfg config.Server, version string) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(mgr, m, logger, cfg.MaxBodyBytes).RegisterRoutes(mux)

	// Health check endpoint.
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"version": version,
		})
	})

	// Root info endpoint.
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"name":    "patternscan",
			"version": version,
		})
	})

	return mux
}

// Serve runs an HTTP server for handler until ctx is cancelled, then shuts
// it down gracefully.
func Serve(ctx context.Context, cfg config.Server, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.WriteTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
