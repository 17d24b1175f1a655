package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It returns either a fixed set of hands or, when a sequence is queued,
// one queued entry per Detect call.
type MockDetector struct {
	mu       sync.Mutex
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	err      error
	calls    int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// QueueSequence queues per-call results. Once drained, Detect falls back to SetHands.
func (m *MockDetector) QueueSequence(seq ...[]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = append(m.sequence, seq...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.sequence) > 0 {
		next := m.sequence[0]
		m.sequence = m.sequence[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Fixture geometry. Fingers are laid out left to right from pinky to thumb,
// palm facing the camera, wrist at the bottom.
var fingerBaseX = [5]float64{0.62, 0.56, 0.50, 0.44, 0.38}

// FingerPose builds a synthetic hand whose fingers satisfy the extension tests:
// a finger is extended when its tip is above its PIP joint, the thumb is
// extended when its tip is left of its IP joint.
func FingerPose(thumb, index, middle, ring, pinky bool) HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	h.Points[ThumbCMC] = Point3D{X: 0.58, Y: 0.75, Z: 0.0}
	h.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.70, Z: 0.0}
	h.Points[ThumbIP] = Point3D{X: fingerBaseX[0], Y: 0.66, Z: 0.0}
	if thumb {
		h.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.62, Z: 0.0}
	} else {
		h.Points[ThumbTip] = Point3D{X: 0.66, Y: 0.66, Z: -0.02}
	}

	fingers := []struct {
		mcp      int
		extended bool
		x        float64
	}{
		{IndexMCP, index, fingerBaseX[1]},
		{MiddleMCP, middle, fingerBaseX[2]},
		{RingMCP, ring, fingerBaseX[3]},
		{PinkyMCP, pinky, fingerBaseX[4]},
	}

	for _, f := range fingers {
		h.Points[f.mcp] = Point3D{X: f.x, Y: 0.65, Z: 0.0}
		if f.extended {
			h.Points[f.mcp+1] = Point3D{X: f.x, Y: 0.55, Z: 0.0}
			h.Points[f.mcp+2] = Point3D{X: f.x, Y: 0.47, Z: 0.0}
			h.Points[f.mcp+3] = Point3D{X: f.x, Y: 0.40, Z: 0.0}
		} else {
			h.Points[f.mcp+1] = Point3D{X: f.x, Y: 0.58, Z: -0.04}
			h.Points[f.mcp+2] = Point3D{X: f.x, Y: 0.63, Z: -0.04}
			h.Points[f.mcp+3] = Point3D{X: f.x, Y: 0.66, Z: -0.02}
		}
	}

	return h
}

// PointingLandmarks returns a hand with only the index finger extended.
func PointingLandmarks() HandLandmarks {
	return FingerPose(false, true, false, false, false)
}

// OpenPalmLandmarks returns a hand with every finger extended.
func OpenPalmLandmarks() HandLandmarks {
	return FingerPose(true, true, true, true, true)
}

// FistLandmarks returns a hand with every finger curled.
func FistLandmarks() HandLandmarks {
	return FingerPose(false, false, false, false, false)
}

// PinchLandmarks returns an index+middle pose with the two tips gap apart horizontally.
func PinchLandmarks(gap float64) HandLandmarks {
	h := FingerPose(false, true, true, false, false)
	h.Points[MiddleTip].X = h.Points[IndexTip].X - gap
	return h
}

// ThumbPinchLandmarks returns a thumb+index pose with the thumb tip gap
// to the right of the index tip.
func ThumbPinchLandmarks(gap float64) HandLandmarks {
	h := FingerPose(true, true, false, false, false)
	tip := h.Points[IndexTip]
	h.Points[ThumbTip] = Point3D{X: tip.X + gap, Y: tip.Y, Z: 0.0}
	return h
}

// WithIndexTip moves the whole hand so that the index tip lands on (x, y).
func WithIndexTip(h HandLandmarks, x, y float64) HandLandmarks {
	dx := x - h.Points[IndexTip].X
	dy := y - h.Points[IndexTip].Y
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}
