package detector

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestServiceScript_Shipped(t *testing.T) {
	path := filepath.Join("..", "..", "scripts", ServiceScript)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("landmark service missing: %v", err)
	}
	src := string(data)

	// the flags ensureStarted passes and the reply fields Detect reads
	for _, want := range []string{
		"--max-hands",
		"--min-detection-confidence",
		"--min-tracking-confidence",
		`">I"`,
		`"hands"`,
		`"error"`,
		`"handedness"`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("%s does not mention %s", ServiceScript, want)
		}
	}
}

func TestJSONHand_ToHandLandmarks(t *testing.T) {
	h := jsonHand{Handedness: "Left", Score: 0.8, Points: make([]Point3D, NumLandmarks)}
	h.Points[IndexTip] = Point3D{X: 0.25, Y: 0.75, Z: -0.1}

	lm := h.toHandLandmarks()
	if lm.Handedness != "Left" || lm.Score != 0.8 {
		t.Errorf("metadata = %q %v", lm.Handedness, lm.Score)
	}
	if lm.Points[IndexTip] != h.Points[IndexTip] {
		t.Errorf("index tip = %+v, want %+v", lm.Points[IndexTip], h.Points[IndexTip])
	}
}
