// Package server provides the local HTTP surface of the air mouse: status,
// settings, the preview stream and the recordings API.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/airmouse/internal/app"
	"github.com/ayusman/airmouse/internal/input"
	"github.com/ayusman/airmouse/internal/server/api"
	"github.com/ayusman/airmouse/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server for the air mouse application.
type Server struct {
	config    Config
	mux       *http.ServeMux
	start     time.Time
	landmarks *LandmarksHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if a := s.config.App; a != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
		s.mux.HandleFunc("/api/enabled", s.handleEnabled)
		s.mux.HandleFunc("/api/commands", s.handleCommand)
		s.mux.Handle("/api/settings", api.NewSettingsHandler(a.Settings()))
		s.mux.Handle("/api/stream", NewStreamHandler(a))

		recorderHandler := api.NewRecorderHandler(a.Recorder())
		s.mux.Handle("/api/recorder", recorderHandler)
		s.mux.Handle("/api/recorder/", recorderHandler)

		s.landmarks = NewLandmarksHandler(a)
		s.mux.Handle("/api/landmarks", s.landmarks)
	}

	if s.config.Store != nil {
		recordingsHandler := api.NewRecordingsHandler(s.config.Store)
		s.mux.Handle("/api/recordings", recordingsHandler)
		s.mux.Handle("/api/recordings/", recordingsHandler)
	}

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

// Close stops the landmark broadcaster and disconnects its clients.
func (s *Server) Close() {
	if s.landmarks != nil {
		s.landmarks.Close()
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
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

	writeJSON(w, http.StatusOK, response)
}

type screenResponse struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type statusResponse struct {
	Running bool           `json:"running"`
	Enabled bool           `json:"enabled"`
	Screen  screenResponse `json:"screen"`
	Result  app.Result     `json:"result"`
}

// handleStatus handles GET /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	a := s.config.App
	screen := a.Screen()
	writeJSON(w, http.StatusOK, statusResponse{
		Running: a.Running(),
		Enabled: a.IsEnabled(),
		Screen:  screenResponse{Width: screen.X, Height: screen.Y},
		Result:  a.Latest(),
	})
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

// handleEnabled handles GET and PUT /api/enabled, pausing or resuming
// pointer control.
func (s *Server) handleEnabled(w http.ResponseWriter, r *http.Request) {
	a := s.config.App

	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req enabledRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Expected {\"enabled\": bool}"})
			return
		}
		a.SetEnabled(*req.Enabled)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"enabled": a.IsEnabled()})
}

type commandRequest struct {
	Event string `json:"event"`
}

// handleCommand handles POST /api/commands, queueing an input event such as
// "rotate" or "click" for the next frame.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}
	e, err := input.ParseEvent(req.Event)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if !s.config.App.Send(e) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Command queue full"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"queued": e.String()})
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
