// Package api provides HTTP API handlers for the Grinshot smile shutter.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/anika/grinshot/internal/store"
)

// CapturesHandler handles HTTP requests for capture resources.
type CapturesHandler struct {
	store *store.Store
}

// NewCapturesHandler creates a new CapturesHandler with the given store.
func NewCapturesHandler(s *store.Store) *CapturesHandler {
	return &CapturesHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *CapturesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/captures, /api/captures/{id}, /api/captures/{id}/photo
	path := strings.TrimPrefix(r.URL.Path, "/api/captures")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/captures
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	if id, ok := strings.CutSuffix(path, "/photo"); ok {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.photo(w, r, id)
		return
	}

	// Item endpoint: /api/captures/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type captureResponse struct {
	ID         string  `json:"id"`
	Path       string  `json:"path"`
	WidthRatio float64 `json:"widthRatio"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	TakenAt    string  `json:"takenAt"`
}

type listCapturesResponse struct {
	Captures []captureResponse `json:"captures"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Capture to a captureResponse.
func toResponse(c *store.Capture) captureResponse {
	return captureResponse{
		ID:         c.ID,
		Path:       c.Path,
		WidthRatio: c.WidthRatio,
		Width:      c.Width,
		Height:     c.Height,
		TakenAt:    c.TakenAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/captures and returns recent captures, newest first.
// An optional ?limit=N query parameter bounds the result.
func (h *CapturesHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	captures, err := h.store.Captures().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list captures")
		return
	}

	response := listCapturesResponse{
		Captures: make([]captureResponse, 0, len(captures)),
	}

	for _, c := range captures {
		response.Captures = append(response.Captures, toResponse(c))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/captures/{id} and returns a single capture.
func (h *CapturesHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	capture, err := h.store.Captures().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Capture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get capture")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(capture))
}

// photo handles GET /api/captures/{id}/photo and serves the JPEG file.
func (h *CapturesHandler) photo(w http.ResponseWriter, r *http.Request, id string) {
	capture, err := h.store.Captures().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Capture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get capture")
		return
	}

	if _, err := os.Stat(capture.Path); err != nil {
		writeError(w, http.StatusNotFound, "Photo file missing")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	http.ServeFile(w, r, capture.Path)
}

// delete handles DELETE /api/captures/{id}. It removes the database row and
// best-effort deletes the photo file.
func (h *CapturesHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	capture, err := h.store.Captures().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Capture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get capture")
		return
	}

	if err := h.store.Captures().Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete capture")
		return
	}

	os.Remove(capture.Path)

	w.WriteHeader(http.StatusNoContent)
}
