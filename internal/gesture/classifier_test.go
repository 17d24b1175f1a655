package gesture

import (
	"testing"
	"time"

	"github.com/ayusman/airmouse/internal/detector"
)

var epoch = time.Unix(1_700_000_000, 0)

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

func hand(h detector.HandLandmarks) *detector.HandLandmarks {
	return &h
}

func TestClassifier_PointingIsMoveEveryFrame(t *testing.T) {
	c := NewClassifier(Config{HistoryLength: 3})

	for i := 0; i < 5; i++ {
		if g := c.Classify(hand(detector.PointingLandmarks()), at(i*33)); g != Move {
			t.Fatalf("frame %d: got %v, want %v", i, g, Move)
		}
	}
}

func TestClassifier_LeftClickHold(t *testing.T) {
	c := NewClassifier(Config{
		HistoryLength:       3,
		FingerBentThreshold: 0.05,
		ClickHoldTime:       100 * time.Millisecond,
	})
	pinch := detector.PinchLandmarks(0.02)

	var got []Gesture
	for ms := 0; ms <= 150; ms += 30 {
		got = append(got, c.Classify(hand(pinch), at(ms)))
	}

	// frames at 0,30,60,90 are inside the hold window; 120 and 150 are past it
	want := []Gesture{None, None, None, None, LeftClick, LeftClick}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame at %dms: got %v, want %v", i*30, got[i], want[i])
		}
	}

	onsets := 0
	prev := None
	for _, g := range got {
		if g == LeftClick && prev != LeftClick {
			onsets++
		}
		prev = g
	}
	if onsets != 1 {
		t.Errorf("expected exactly one click onset, got %d", onsets)
	}
}

func TestClassifier_ShortPinchNeverClicks(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	pinch := detector.PinchLandmarks(0.02)

	for ms := 0; ms < 100; ms += 20 {
		if g := c.Classify(hand(pinch), at(ms)); g == LeftClick {
			t.Fatalf("click emitted after only %dms", ms)
		}
	}

	// fingers part before the hold time elapses
	for ms := 100; ms < 300; ms += 20 {
		if g := c.Classify(hand(detector.PointingLandmarks()), at(ms)); g.IsClick() {
			t.Fatalf("click emitted after release at %dms", ms)
		}
	}
}

func TestClassifier_RepeatedPressRestartsTimer(t *testing.T) {
	c := NewClassifier(Config{HistoryLength: 1, ClickHoldTime: 100 * time.Millisecond})
	pinch := detector.PinchLandmarks(0.02)

	c.Classify(hand(pinch), at(0))
	c.Classify(hand(pinch), at(80))
	c.Classify(hand(detector.PinchLandmarks(0.08)), at(90)) // drag breaks the press

	if g := c.Classify(hand(pinch), at(120)); g != None {
		t.Errorf("new press at 120ms: got %v, want %v", g, None)
	}
	if g := c.Classify(hand(pinch), at(200)); g != None {
		t.Errorf("80ms into new press: got %v, want %v", g, None)
	}
	if g := c.Classify(hand(pinch), at(230)); g != LeftClick {
		t.Errorf("110ms into new press: got %v, want %v", g, LeftClick)
	}
}

func TestClassifier_PatternTable(t *testing.T) {
	tests := []struct {
		name string
		hand detector.HandLandmarks
		want Gesture
	}{
		{"index only moves", detector.PointingLandmarks(), Move},
		{"index and middle apart drags", detector.PinchLandmarks(0.08), Drag},
		{"thumb and index apart moves", detector.FingerPose(true, true, false, false, false), Move},
		{"fist is none", detector.FistLandmarks(), None},
		{"three fingers is none", detector.FingerPose(false, true, true, true, false), None},
		{"pinky only is none", detector.FingerPose(false, false, false, false, true), None},
		{"open palm on first frame is none", detector.OpenPalmLandmarks(), None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(DefaultConfig())
			if got := c.Classify(hand(tt.hand), at(0)); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifier_RightClickHold(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	pinch := detector.ThumbPinchLandmarks(0.02)

	if g := c.Classify(hand(pinch), at(0)); g != None {
		t.Errorf("first frame: got %v, want %v", g, None)
	}
	if g := c.Classify(hand(pinch), at(150)); g != RightClick {
		t.Errorf("after hold: got %v, want %v", g, RightClick)
	}
}

func TestClassifier_Scroll(t *testing.T) {
	palm := detector.OpenPalmLandmarks()
	y := palm.Points[detector.IndexTip].Y
	x := palm.Points[detector.IndexTip].X

	tests := []struct {
		name string
		dy   float64
		want Gesture
	}{
		{"palm moves up", -0.05, ScrollUp},
		{"palm moves down", 0.05, ScrollDown},
		{"palm within dead band", 0.005, None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(DefaultConfig())
			if g := c.Classify(hand(palm), at(0)); g != None {
				t.Fatalf("first frame: got %v, want %v", g, None)
			}
			moved := detector.WithIndexTip(palm, x, y+tt.dy)
			if g := c.Classify(hand(moved), at(33)); g != tt.want {
				t.Errorf("got %v, want %v", g, tt.want)
			}
		})
	}
}

func TestClassifier_LostHandClearsScrollReference(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	palm := detector.OpenPalmLandmarks()
	x, y := palm.Points[detector.IndexTip].X, palm.Points[detector.IndexTip].Y

	c.Classify(hand(palm), at(0))
	c.Lost()

	moved := detector.WithIndexTip(palm, x, y-0.1)
	if g := c.Classify(hand(moved), at(66)); g != None {
		t.Errorf("first frame after reacquiring: got %v, want %v", g, None)
	}
	if g := c.Classify(nil, at(99)); g != None {
		t.Errorf("nil hand: got %v, want %v", g, None)
	}
}

func TestClassifier_MajorityVoteSuppressesFlicker(t *testing.T) {
	c := NewClassifier(Config{HistoryLength: 3})
	point := detector.PointingLandmarks()
	fist := detector.FistLandmarks()

	c.Classify(hand(point), at(0))
	c.Classify(hand(point), at(33))
	if g := c.Classify(hand(fist), at(66)); g != Move {
		t.Errorf("single noisy frame: got %v, want %v", g, Move)
	}
	if g := c.Classify(hand(fist), at(99)); g != None {
		t.Errorf("two fist frames out of three: got %v, want %v", g, None)
	}
	if s := c.Stable(); s.Count() != 0 {
		t.Errorf("Stable() = %v, want all flexed", s)
	}
}

func TestClassifier_DoesNotAliasInput(t *testing.T) {
	c := NewClassifier(DefaultConfig())
	palm := detector.OpenPalmLandmarks()
	c.Classify(&palm, at(0))

	// caller reuses its buffer; the classifier's previous hand must not change
	palm.Points[detector.MiddleTip].Y -= 0.2
	if g := c.Classify(&palm, at(33)); g != ScrollUp {
		t.Errorf("got %v, want %v", g, ScrollUp)
	}
}

func TestNewClassifier_Defaults(t *testing.T) {
	c := NewClassifier(Config{})
	if c.Config() != DefaultConfig() {
		t.Errorf("Config() = %+v, want %+v", c.Config(), DefaultConfig())
	}
}
