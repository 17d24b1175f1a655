// Package gesture turns per-frame hand landmarks into a debounced stream of pointer gestures.
package gesture

import "fmt"

// Gesture is the pointer intent classified for one frame.
type Gesture int

const (
	// None means no pointer action this frame.
	None Gesture = iota
	// Move moves the cursor with the index fingertip.
	Move
	// LeftClick is a held index+middle pinch.
	LeftClick
	// RightClick is a held thumb+index pinch.
	RightClick
	// Drag holds the left button while moving.
	Drag
	// ScrollUp is an open palm moving up.
	ScrollUp
	// ScrollDown is an open palm moving down.
	ScrollDown

	numGestures
)

var gestureNames = [numGestures]string{
	None:       "none",
	Move:       "move",
	LeftClick:  "left click",
	RightClick: "right click",
	Drag:       "drag",
	ScrollUp:   "scroll up",
	ScrollDown: "scroll down",
}

// String returns the display name of the gesture.
func (g Gesture) String() string {
	if g < 0 || g >= numGestures {
		return fmt.Sprintf("gesture(%d)", int(g))
	}
	return gestureNames[g]
}

// IsClick reports whether g is one of the timer-gated click gestures.
func (g Gesture) IsClick() bool {
	return g == LeftClick || g == RightClick
}

// IsScroll reports whether g scrolls.
func (g Gesture) IsScroll() bool {
	return g == ScrollUp || g == ScrollDown
}

// MarshalText encodes the gesture by name.
func (g Gesture) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText decodes a gesture name produced by MarshalText.
func (g *Gesture) UnmarshalText(text []byte) error {
	for i, name := range gestureNames {
		if name == string(text) {
			*g = Gesture(i)
			return nil
		}
	}
	return fmt.Errorf("unknown gesture %q", text)
}
