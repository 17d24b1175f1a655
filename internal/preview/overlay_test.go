package preview

import (
	"bytes"
	"testing"

	"github.com/ayusman/airmouse/internal/detector"
	"github.com/ayusman/airmouse/internal/gesture"
	"github.com/ayusman/airmouse/internal/orient"
	"github.com/ayusman/airmouse/internal/pointer"
	"gocv.io/x/gocv"
)

func TestOrientationLabel(t *testing.T) {
	tests := []struct {
		cfg  orient.Config
		want string
	}{
		{orient.Config{}, "Rot:0"},
		{orient.Config{Rotation: 270, FlipHorizontal: true}, "Rot:270 H"},
		{orient.Config{Rotation: 450, FlipHorizontal: true, FlipVertical: true}, "Rot:90 H V"},
	}

	for _, tt := range tests {
		if got := OrientationLabel(tt.cfg); got != tt.want {
			t.Errorf("OrientationLabel(%+v) = %q, want %q", tt.cfg, got, tt.want)
		}
	}
}

func TestGestureLabel(t *testing.T) {
	if got := GestureLabel(Info{Gesture: gesture.None}); got != "" {
		t.Errorf("none should not be labelled, got %q", got)
	}
	if got := GestureLabel(Info{Gesture: gesture.Drag}); got != "Gesture: drag" {
		t.Errorf("got %q", got)
	}
	if got := GestureLabel(Info{Gesture: gesture.Drag, Paused: true}); got != "Paused" {
		t.Errorf("got %q", got)
	}
}

func TestRenderAndEncode(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()

	hand := detector.PointingLandmarks()
	Render(&img, pointer.Area{Ratio: 0.65}, &hand, Info{FPS: 60, Gesture: gesture.Move, Recording: true})

	// the active rectangle outline is green
	v := img.GetVecbAt(84, 320)
	if v[1] == 0 {
		t.Errorf("expected overlay pixels on the rectangle edge, got %v", v)
	}

	data, err := Encode(img)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xFF, 0xD8}) {
		t.Error("Encode() did not produce a JPEG")
	}
}
