// Package server provides the HTTP dashboard server for the Grinshot smile shutter.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/anika/grinshot/internal/app"
	"github.com/anika/grinshot/internal/server/api"
	"github.com/anika/grinshot/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server for the Grinshot application.
type Server struct {
	config Config
	mux    *http.ServeMux
	live   *LiveHandler
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		live:   NewLiveHandler(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// Live returns the WebSocket hub for classification results. The caller is
// expected to feed it from the pipeline's result callback.
func (s *Server) Live() *LiveHandler {
	return s.live
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.App != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
	}

	// Register captures API handler if Store is configured
	if s.config.Store != nil {
		capturesHandler := api.NewCapturesHandler(s.config.Store)
		s.mux.Handle("/api/captures", capturesHandler)
		s.mux.Handle("/api/captures/", capturesHandler)
	}

	// Register camera preview endpoint if the pipeline owns a camera
	if s.config.App != nil && s.config.App.Camera() != nil {
		previewHandler := NewPreviewHandler(s.config.App.Camera(), s.config.App.Converter())
		s.mux.Handle("/api/preview", previewHandler)
	}

	s.mux.Handle("/api/live", s.live)

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

type statusResponse struct {
	Enabled    bool  `json:"enabled"`
	Ready      bool  `json:"ready"`
	Captures   int   `json:"captures"`
	DebounceMs int64 `json:"debounceMs"`
}

type setEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// handleStatus handles GET and PUT requests to /api/status. GET reports the
// pipeline state, PUT toggles the shutter on or off.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getStatus(w)
	case http.MethodPut:
		var req setEnabledRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		s.config.App.SetEnabled(req.Enabled)
		s.getStatus(w)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) getStatus(w http.ResponseWriter) {
	count := 0
	if s.config.Store != nil {
		if n, err := s.config.Store.Captures().Count(); err == nil {
			count = n
		}
	}

	response := statusResponse{
		Enabled:    s.config.App.IsEnabled(),
		Ready:      s.config.App.Ready(),
		Captures:   count,
		DebounceMs: s.config.App.Throttle().Window().Milliseconds(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
