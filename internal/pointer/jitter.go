package pointer

import (
	"image"
	"math"
)

// Jitter filter distance bounds in frame pixels.
const (
	DefaultJitterThreshold = 15
	MinJitterThreshold     = 5
	MaxJitterThreshold     = 50
)

// JitterFilter suppresses moves whose fingertip travel since the last
// accepted position is below a pixel threshold.
type JitterFilter struct {
	threshold float64
	last      image.Point
	hasLast   bool
}

// NewJitterFilter creates a filter. The threshold is clamped to
// [MinJitterThreshold, MaxJitterThreshold].
func NewJitterFilter(threshold float64) *JitterFilter {
	f := &JitterFilter{}
	f.SetThreshold(threshold)
	return f
}

// SetThreshold changes the minimum accepted travel. The last accepted
// position is kept.
func (f *JitterFilter) SetThreshold(threshold float64) {
	f.threshold = math.Max(MinJitterThreshold, math.Min(MaxJitterThreshold, threshold))
}

// Threshold returns the minimum accepted travel in pixels.
func (f *JitterFilter) Threshold() float64 {
	return f.threshold
}

// ShouldMove reports whether a move to p should be relayed. The first call
// always accepts. An accepted position becomes the new reference; a rejected
// one leaves the reference unchanged.
func (f *JitterFilter) ShouldMove(p image.Point) bool {
	if !f.hasLast {
		f.last, f.hasLast = p, true
		return true
	}

	d := p.Sub(f.last)
	if math.Hypot(float64(d.X), float64(d.Y)) < f.threshold {
		return false
	}
	f.last = p
	return true
}

// Reset forgets the last accepted position.
func (f *JitterFilter) Reset() {
	f.last, f.hasLast = image.Point{}, false
}
