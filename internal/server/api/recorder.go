package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/airmouse/internal/recorder"
)

// RecorderHandler controls the live landmark recorder.
type RecorderHandler struct {
	recorder *recorder.Recorder
}

// NewRecorderHandler creates a new RecorderHandler.
func NewRecorderHandler(r *recorder.Recorder) *RecorderHandler {
	return &RecorderHandler{recorder: r}
}

type startRecordingRequest struct {
	Name string `json:"name"`
}

// ServeHTTP routes GET /api/recorder and POST /api/recorder/{start,stop,cancel}.
func (h *RecorderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/recorder"), "/")

	if action == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, h.recorder.Status())
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch action {
	case "start":
		h.start(w, r)
	case "stop":
		h.stop(w, r)
	case "cancel":
		h.recorder.Cancel()
		writeJSON(w, http.StatusOK, h.recorder.Status())
	default:
		http.NotFound(w, r)
	}
}

func (h *RecorderHandler) start(w http.ResponseWriter, r *http.Request) {
	var req startRecordingRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	switch err := h.recorder.Start(req.Name); {
	case errors.Is(err, recorder.ErrEmptyName):
		writeError(w, http.StatusBadRequest, "Name is required")
	case errors.Is(err, recorder.ErrAlreadyRecording):
		writeError(w, http.StatusConflict, "Already recording")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to start recording")
	default:
		writeJSON(w, http.StatusOK, h.recorder.Status())
	}
}

func (h *RecorderHandler) stop(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recorder.Stop()
	switch {
	case errors.Is(err, recorder.ErrNotRecording):
		writeError(w, http.StatusConflict, "Not recording")
	case errors.Is(err, recorder.ErrTooFewFrames):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to save recording")
	default:
		writeJSON(w, http.StatusCreated, toRecordingResponse(rec))
	}
}
