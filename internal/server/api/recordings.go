package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/airmouse/internal/detector"
	"github.com/ayusman/airmouse/internal/recorder"
	"github.com/ayusman/airmouse/internal/store"
)

// RecordingsHandler handles HTTP requests for stored recordings.
type RecordingsHandler struct {
	store *store.Store
}

// NewRecordingsHandler creates a new RecordingsHandler with the given store.
func NewRecordingsHandler(s *store.Store) *RecordingsHandler {
	return &RecordingsHandler{store: s}
}

type recordingResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	FrameCount int    `json:"frame_count"`
	DurationMS int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

type listRecordingsResponse struct {
	Recordings []recordingResponse `json:"recordings"`
}

func toRecordingResponse(rec *store.Recording) recordingResponse {
	return recordingResponse{
		ID:         rec.ID,
		Name:       rec.Name,
		FrameCount: rec.FrameCount,
		DurationMS: rec.Duration.Milliseconds(),
		CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
	}
}

// ServeHTTP routes /api/recordings, /api/recordings/{id},
// /api/recordings/{id}/analysis and /api/recordings/{id}/compare/{other}.
func (h *RecordingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/recordings")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/analysis"); ok {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.analysis(w, r, id)
		return
	}

	if id, other, ok := strings.Cut(path, "/compare/"); ok {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.compare(w, r, id, other)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, path)
	case http.MethodDelete:
		h.delete(w, r, path)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/recordings.
func (h *RecordingsHandler) list(w http.ResponseWriter, r *http.Request) {
	recs, err := h.store.Recordings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list recordings")
		return
	}

	response := listRecordingsResponse{
		Recordings: make([]recordingResponse, 0, len(recs)),
	}
	for _, rec := range recs {
		response.Recordings = append(response.Recordings, toRecordingResponse(rec))
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/recordings, importing an exported recording file.
func (h *RecordingsHandler) create(w http.ResponseWriter, r *http.Request) {
	var file recorder.File
	if err := decode(w, r, &file); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	rec, err := fromFile(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Recordings().Create(rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save recording")
		return
	}

	writeJSON(w, http.StatusCreated, toRecordingResponse(rec))
}

// fromFile validates an imported file and converts it for storage.
func fromFile(file recorder.File) (*store.Recording, error) {
	name := strings.TrimSpace(file.Name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	if len(file.Landmarks) < recorder.MinFrames {
		return nil, fmt.Errorf("at least %d frames are required", recorder.MinFrames)
	}
	for i, frame := range file.Landmarks {
		if len(frame) != detector.NumLandmarks*3 {
			return nil, fmt.Errorf("frame %d has %d values, want %d", i, len(frame), detector.NumLandmarks*3)
		}
	}

	rec := &store.Recording{
		Name:     name,
		Frames:   file.Landmarks,
		Duration: recorder.EstimateDuration(len(file.Landmarks)),
	}
	if file.Timestamp != "" {
		ts, err := time.ParseInLocation(recorder.TimestampLayout, file.Timestamp, time.Local)
		if err != nil {
			return nil, errors.New("invalid timestamp")
		}
		rec.CreatedAt = ts
	}
	return rec, nil
}

// get handles GET /api/recordings/{id} and returns the recording in its
// exported form.
func (h *RecordingsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	rec, ok := h.load(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, recorder.Export(rec))
}

// analysis handles GET /api/recordings/{id}/analysis.
func (h *RecordingsHandler) analysis(w http.ResponseWriter, r *http.Request, id string) {
	rec, ok := h.load(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, recorder.Analyze(rec))
}

// compare handles GET /api/recordings/{id}/compare/{other}.
func (h *RecordingsHandler) compare(w http.ResponseWriter, r *http.Request, id, other string) {
	a, ok := h.load(w, id)
	if !ok {
		return
	}
	b, ok := h.load(w, other)
	if !ok {
		return
	}

	c, err := recorder.Compare(a, b)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *RecordingsHandler) load(w http.ResponseWriter, id string) (*store.Recording, bool) {
	rec, err := h.store.Recordings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Recording not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get recording")
		return nil, false
	}
	return rec, true
}

// delete handles DELETE /api/recordings/{id}.
func (h *RecordingsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Recordings().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Recording not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete recording")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
