package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"PatternScan/internal/metrics"
	"PatternScan/internal/patternset"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes = 8 << 20

// Handler holds HTTP handlers for the patternscan API.
type Handler struct {
	mgr          *patternset.Manager
	metrics      *metrics.Metrics
	logger       *slog.Logger
	maxBodyBytes int64
}

// NewHandler creates a new Handler backed by the given Manager.
// m may be nil, in which case /metrics answers 404.
func NewHandler(mgr *patternset.Manager, m *metrics.Metrics, logger *slog.Logger, maxBodyBytes int64) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Handler{mgr: mgr, metrics: m, logger: logger, maxBodyBytes: maxBodyBytes}
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Set inspection.
	mux.HandleFunc("GET /sets", h.handleListSets)
	mux.HandleFunc("GET /sets/{name}", h.handleGetSet)

	// Queries.
	mux.HandleFunc("POST /sets/{name}/scan", h.handleScan)
	mux.HandleFunc("POST /sets/{name}/contains", h.handleContains)

	// Administration.
	mux.HandleFunc("POST /reload", h.handleReload)
	mux.Handle("GET /metrics", h.metrics.Handler())
}

// --- Set Inspection ---

func (h *Handler) handleListSets(w http.ResponseWriter, r *http.Request) {
	sets := h.mgr.List()
	infos := make([]patternset.Info, 0, len(sets))
	for _, s := range sets {
		infos = append(infos, s.Info())
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"generation": h.mgr.Generation(),
		"sets":       infos,
	})
}

func (h *Handler) handleGetSet(w http.ResponseWriter, r *http.Request) {
	s, err := h.mgr.Get(r.PathValue("name"))
	if err != nil {
		h.writeManagerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Info())
}

// --- Queries ---

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req struct {
		Text string `json:"text"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	hits, err := h.mgr.Scan(name, req.Text)
	if err != nil {
		h.writeManagerError(w, err)
		return
	}

	h.logger.Debug("scan", "set", name, "bytes", len(req.Text), "hits", len(hits))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"set":  name,
		"hits": hits,
	})
}

func (h *Handler) handleContains(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req struct {
		Word string `json:"word"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	ok, err := h.mgr.Contains(name, req.Word)
	if err != nil {
		h.writeManagerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"set":      name,
		"word":     req.Word,
		"contains": ok,
	})
}

// --- Administration ---

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	stats, err := h.mgr.Reload()
	if err != nil {
		h.logger.Error("reload failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// --- Helpers ---

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) writeManagerError(w http.ResponseWriter, err error) {
	if errors.Is(err, patternset.ErrSetNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.logger.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"message": message,
		},
	})
}
