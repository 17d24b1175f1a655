// Package orient applies the configured rotation and mirroring to camera
// frames and to the hand landmarks detected on them, so everything
// downstream sees one coordinate frame.
//
// The transform order is fixed: flip horizontal, then flip vertical, then
// rotate. Rotation and flipping do not commute.
package orient

import (
	"github.com/ayusman/airmouse/internal/detector"
	"gocv.io/x/gocv"
)

// Config is the orientation applied to each frame.
type Config struct {
	// Rotation in degrees clockwise, one of 0, 90, 180, 270.
	Rotation       int  `json:"rotation"`
	FlipHorizontal bool `json:"flip_horizontal"`
	FlipVertical   bool `json:"flip_vertical"`
}

// NormalizeRotation folds any multiple of 90 into [0, 360). Other values
// are rounded down to the nearest quarter turn.
func NormalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg - deg%90
}

// Normalize returns c with its rotation normalized.
func (c Config) Normalize() Config {
	c.Rotation = NormalizeRotation(c.Rotation)
	return c
}

// IsIdentity reports whether c leaves frames unchanged.
func (c Config) IsIdentity() bool {
	return NormalizeRotation(c.Rotation) == 0 && !c.FlipHorizontal && !c.FlipVertical
}

// Point transforms one normalized landmark. Z is passed through.
func (c Config) Point(p detector.Point3D) detector.Point3D {
	if c.FlipHorizontal {
		p.X = 1 - p.X
	}
	if c.FlipVertical {
		p.Y = 1 - p.Y
	}

	switch NormalizeRotation(c.Rotation) {
	case 90:
		p.X, p.Y = 1-p.Y, p.X
	case 180:
		p.X, p.Y = 1-p.X, 1-p.Y
	case 270:
		p.X, p.Y = p.Y, 1-p.X
	}
	return p
}

// Landmarks returns a transformed copy of hand. A nil hand yields nil and
// the input is never modified.
func (c Config) Landmarks(hand *detector.HandLandmarks) *detector.HandLandmarks {
	if hand == nil {
		return nil
	}
	out := *hand
	for i := range out.Points {
		out.Points[i] = c.Point(hand.Points[i])
	}
	return &out
}

// rotateCodes pairs each rotation with the gocv code that moves pixels the
// same way Point moves landmarks.
var rotateCodes = map[int]gocv.RotateFlag{
	90:  gocv.Rotate90Clockwise,
	180: gocv.Rotate180Clockwise,
	270: gocv.Rotate90CounterClockwise,
}

// Frame returns a new Mat holding the oriented frame. The caller owns the
// result and must Close it. src is not modified.
func (c Config) Frame(src gocv.Mat) gocv.Mat {
	out := src.Clone()
	if out.Empty() {
		return out
	}

	if c.FlipHorizontal {
		gocv.Flip(out, &out, 1)
	}
	if c.FlipVertical {
		gocv.Flip(out, &out, 0)
	}

	if code, ok := rotateCodes[NormalizeRotation(c.Rotation)]; ok {
		rotated := gocv.NewMat()
		gocv.Rotate(out, &rotated, code)
		out.Close()
		out = rotated
	}
	return out
}

// Orient transforms a frame and its landmarks together.
func (c Config) Orient(src gocv.Mat, hand *detector.HandLandmarks) (gocv.Mat, *detector.HandLandmarks) {
	return c.Frame(src), c.Landmarks(hand)
}
