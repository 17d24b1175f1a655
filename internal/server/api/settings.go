package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/airmouse/internal/config"
)

// SettingsHandler reads and updates the live settings.
type SettingsHandler struct {
	live *config.Live
}

// NewSettingsHandler creates a new SettingsHandler for live.
func NewSettingsHandler(live *config.Live) *SettingsHandler {
	return &SettingsHandler{live: live}
}

type settingsResponse struct {
	config.Settings
	FPS int `json:"fps"`
}

func toSettingsResponse(s config.Settings) settingsResponse {
	return settingsResponse{Settings: s, FPS: s.ProcessingFPS()}
}

// ServeHTTP handles GET and PUT /api/settings.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, toSettingsResponse(h.live.Snapshot()))
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// update merges the fields present in the body into the current settings.
// Out of range values are clamped, not rejected.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := decode(w, r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	var decodeErr error
	s := h.live.Update(func(s *config.Settings) {
		next := *s
		if decodeErr = json.Unmarshal(raw, &next); decodeErr == nil {
			*s = next
		}
	})
	if decodeErr != nil {
		writeError(w, http.StatusBadRequest, "Invalid settings")
		return
	}

	writeJSON(w, http.StatusOK, toSettingsResponse(s))
}
