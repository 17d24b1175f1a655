package gesture

import "github.com/ayusman/airmouse/internal/detector"

// Finger indexes a FingerState.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky

	NumFingers
)

// FingerState holds one extended flag per finger, ordered thumb to pinky.
type FingerState [NumFingers]bool

// Patterns the classifier acts on.
var (
	patternPointing  = FingerState{false, true, false, false, false}
	patternTwoFinger = FingerState{false, true, true, false, false}
	patternThumbUp   = FingerState{true, true, false, false, false}
	patternOpenPalm  = FingerState{true, true, true, true, true}
)

// extension tests for the four long fingers: tip and PIP joint.
var fingerJoints = [NumFingers][2]int{
	Index:  {detector.IndexTip, detector.IndexPIP},
	Middle: {detector.MiddleTip, detector.MiddlePIP},
	Ring:   {detector.RingTip, detector.RingPIP},
	Pinky:  {detector.PinkyTip, detector.PinkyPIP},
}

// ExtractFingerState reports which fingers are extended.
//
// The thumb is extended when its tip lies left of its IP joint. The other
// fingers are extended when the tip lies above the PIP joint (smaller y,
// image coordinates grow downward). The thumb test assumes one mirroring
// convention and inverts when the frame is flipped horizontally.
func ExtractFingerState(hand *detector.HandLandmarks) FingerState {
	var s FingerState
	if hand == nil {
		return s
	}

	p := &hand.Points
	s[Thumb] = p[detector.ThumbTip].X < p[detector.ThumbIP].X

	for f := Index; f < NumFingers; f++ {
		tip, pip := fingerJoints[f][0], fingerJoints[f][1]
		s[f] = p[tip].Y < p[pip].Y
	}

	return s
}

// Count returns the number of extended fingers.
func (s FingerState) Count() int {
	n := 0
	for _, up := range s {
		if up {
			n++
		}
	}
	return n
}

// String renders the state as five binary digits, thumb first.
func (s FingerState) String() string {
	b := make([]byte, NumFingers)
	for i, up := range s {
		if up {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}
