package main

import (
	"testing"
	"time"

	"github.com/ayusman/airmouse/internal/config"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"defaults", nil, false},
		{"full", []string{"-camera", "1", "-fps", "30", "-rotation", "270", "-flip-h", "-no-preview"}, false},
		{"fps too low", []string{"-fps", "5"}, true},
		{"fps too high", []string{"-fps", "120"}, true},
		{"odd rotation", []string{"-rotation", "45"}, true},
		{"unknown flag", []string{"-verbose"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseFlags(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestOptions_Settings(t *testing.T) {
	opts, err := parseFlags([]string{"-fps", "50", "-rotation", "-90", "-flip-v", "-no-preview"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}

	s := opts.settings()
	if s.Interval != 20*time.Millisecond {
		t.Errorf("Interval = %v, want 20ms", s.Interval)
	}
	if s.Orientation.Rotation != 270 || !s.Orientation.FlipVertical || s.Orientation.FlipHorizontal {
		t.Errorf("Orientation = %+v", s.Orientation)
	}
	if s.Preview {
		t.Error("preview should be off")
	}

	def, _ := parseFlags(nil)
	if got := def.settings(); got != config.Default() {
		t.Errorf("default flags changed the settings: %+v", got)
	}
	if def.addr != "127.0.0.1:8080" {
		t.Errorf("addr = %s", def.addr)
	}
}
