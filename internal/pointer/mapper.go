// Package pointer turns classified gestures into OS pointer actions. It maps
// fingertip positions from the camera's active rectangle onto the screen,
// filters tremor and sequences button presses so a drag is always released.
package pointer

import (
	"image"

	"github.com/ayusman/airmouse/internal/detector"
)

// Area describes the active rectangle inside the camera frame.
type Area struct {
	// Ratio is the fraction of the frame width and height the rectangle covers.
	Ratio float64
	// VerticalOffset shifts the rectangle by a fraction of the frame height.
	// Positive values move it up.
	VerticalOffset float64
}

// Rect is an active rectangle in frame pixels.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// ActiveRect returns the active rectangle for a frame of the given size.
func ActiveRect(frame image.Point, area Area) Rect {
	fw, fh := float64(frame.X), float64(frame.Y)
	marginX := fw * (1 - area.Ratio) / 2
	marginY := fh * (1 - area.Ratio) / 2
	shift := area.VerticalOffset * fh

	return Rect{
		Left:   marginX,
		Top:    marginY - shift,
		Right:  fw - marginX,
		Bottom: fh - marginY - shift,
	}
}

// Contains reports whether (x, y) lies strictly inside r. Points on the
// boundary are outside.
func (r Rect) Contains(x, y float64) bool {
	return r.Left < x && x < r.Right && r.Top < y && y < r.Bottom
}

// Bounds returns r rounded to integer pixels, for drawing.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom))
}

// FramePixel converts a normalized landmark to frame pixel coordinates.
func FramePixel(p detector.Point3D, frame image.Point) (float64, float64) {
	return p.X * float64(frame.X), p.Y * float64(frame.Y)
}

// Map converts a normalized fingertip position to screen coordinates. It
// returns false when the fingertip is outside the active rectangle, in which
// case no pointer command should be issued.
func Map(tip detector.Point3D, frame image.Point, area Area, screen image.Point) (image.Point, bool) {
	if frame.X <= 0 || frame.Y <= 0 || screen.X <= 0 || screen.Y <= 0 || area.Ratio <= 0 {
		return image.Point{}, false
	}

	r := ActiveRect(frame, area)
	px, py := FramePixel(tip, frame)
	if !r.Contains(px, py) {
		return image.Point{}, false
	}

	sx := float64(screen.X) * (px - r.Left) / (r.Right - r.Left)
	sy := float64(screen.Y) * (py - r.Top) / (r.Bottom - r.Top)

	return image.Pt(
		clamp(int(sx), 0, screen.X-1),
		clamp(int(sy), 0, screen.Y-1),
	), true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
