package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayusman/airmouse/internal/config"
)

func TestSettingsHandler_Get(t *testing.T) {
	h := NewSettingsHandler(config.NewLive(config.Default()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s", ct)
	}

	var got map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["area_ratio"] != config.DefaultAreaRatio {
		t.Errorf("area_ratio = %v", got["area_ratio"])
	}
	if got["fps"] != float64(config.Default().ProcessingFPS()) {
		t.Errorf("fps = %v", got["fps"])
	}
}

func TestSettingsHandler_Put(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, s config.Settings)
	}{
		{
			name: "partial update keeps other fields",
			body: `{"orientation":{"rotation":180,"flip_horizontal":true}}`,
			check: func(t *testing.T, s config.Settings) {
				if s.Orientation.Rotation != 180 || !s.Orientation.FlipHorizontal {
					t.Errorf("orientation = %+v", s.Orientation)
				}
				if s.AreaRatio != config.DefaultAreaRatio || !s.Preview {
					t.Errorf("untouched fields changed: %+v", s)
				}
			},
		},
		{
			name: "values are clamped",
			body: `{"smoothing":3,"area_ratio":0.01,"interval":1000000}`,
			check: func(t *testing.T, s config.Settings) {
				if s.Smoothing != 1 || s.AreaRatio != config.MinAreaRatio || s.Interval != 10*time.Millisecond {
					t.Errorf("clamped = smoothing %v, area %v, interval %v", s.Smoothing, s.AreaRatio, s.Interval)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live := config.NewLive(config.Default())
			h := NewSettingsHandler(live)

			req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			tt.check(t, live.Snapshot())
		})
	}
}

func TestSettingsHandler_Errors(t *testing.T) {
	live := config.NewLive(config.Default())
	h := NewSettingsHandler(live)

	t.Run("wrong field type leaves settings untouched", func(t *testing.T) {
		before := live.Snapshot()
		req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewBufferString(`{"area_ratio":0.5,"preview":"yes"}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if live.Snapshot() != before {
			t.Error("a rejected update should not change the settings")
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/settings", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})
}
