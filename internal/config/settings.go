// Package config holds the runtime settings of the pointer pipeline.
//
// Settings are never rejected: out-of-range values are clamped so the
// pipeline always has a valid operating point. Live wraps the current
// settings for concurrent readers and writers; the frame loop takes one
// snapshot per frame so a change applies from the next frame on.
package config

import (
	"sync"
	"time"

	"github.com/ayusman/airmouse/internal/orient"
	"github.com/ayusman/airmouse/internal/pointer"
)

// Ranges and defaults.
const (
	DefaultAreaRatio = 0.65
	MinAreaRatio     = 0.2
	MaxAreaRatio     = 1.0

	MinVerticalOffset = -0.5
	MaxVerticalOffset = 0.5

	DefaultSmoothing = pointer.DefaultSmoothing
	MinSmoothing     = 0.5
	MaxSmoothing     = 1.0

	DefaultInterval = 16 * time.Millisecond
	MinInterval     = 10 * time.Millisecond
	MaxInterval     = 100 * time.Millisecond
	// IntervalStep is the change applied by the faster/slower hotkeys.
	IntervalStep = 5 * time.Millisecond

	MinScrollAmount = 1
	MaxScrollAmount = 50
)

// Settings is the configuration surface read once per frame.
type Settings struct {
	Orientation orient.Config `json:"orientation"`

	AreaRatio      float64 `json:"area_ratio"`
	VerticalOffset float64 `json:"vertical_offset"`

	Smoothing       float64 `json:"smoothing"`
	JitterEnabled   bool    `json:"jitter_enabled"`
	JitterThreshold float64 `json:"jitter_threshold"`

	// Interval is the minimum time between processed frames.
	Interval        time.Duration `json:"interval"`
	MinMoveInterval time.Duration `json:"min_move_interval"`
	ScrollAmount    int           `json:"scroll_amount"`

	Preview bool `json:"preview"`
}

// Default returns the settings the application starts with.
func Default() Settings {
	return Settings{
		AreaRatio:       DefaultAreaRatio,
		Smoothing:       DefaultSmoothing,
		JitterEnabled:   true,
		JitterThreshold: pointer.DefaultJitterThreshold,
		Interval:        DefaultInterval,
		MinMoveInterval: pointer.DefaultMinMoveInterval,
		ScrollAmount:    pointer.DefaultScrollAmount,
		Preview:         true,
	}
}

// Clamped returns s with every field moved into its valid range.
func (s Settings) Clamped() Settings {
	s.Orientation = s.Orientation.Normalize()
	s.AreaRatio = clampFloat(s.AreaRatio, MinAreaRatio, MaxAreaRatio)
	s.VerticalOffset = clampFloat(s.VerticalOffset, MinVerticalOffset, MaxVerticalOffset)
	s.Smoothing = clampFloat(s.Smoothing, MinSmoothing, MaxSmoothing)
	s.JitterThreshold = clampFloat(s.JitterThreshold, pointer.MinJitterThreshold, pointer.MaxJitterThreshold)
	s.Interval = clampDuration(s.Interval, MinInterval, MaxInterval)
	s.MinMoveInterval = clampDuration(s.MinMoveInterval, 0, MaxInterval)
	if s.ScrollAmount < MinScrollAmount {
		s.ScrollAmount = MinScrollAmount
	} else if s.ScrollAmount > MaxScrollAmount {
		s.ScrollAmount = MaxScrollAmount
	}
	return s
}

// Area returns the active rectangle settings.
func (s Settings) Area() pointer.Area {
	return pointer.Area{Ratio: s.AreaRatio, VerticalOffset: s.VerticalOffset}
}

// Pointer returns the actuator settings.
func (s Settings) Pointer() pointer.Settings {
	return pointer.Settings{
		Smoothing:       s.Smoothing,
		JitterEnabled:   s.JitterEnabled,
		JitterThreshold: s.JitterThreshold,
		MinMoveInterval: s.MinMoveInterval,
		ScrollAmount:    s.ScrollAmount,
	}
}

// ProcessingFPS returns the processing rate implied by Interval.
func (s Settings) ProcessingFPS() int {
	if s.Interval <= 0 {
		return 0
	}
	return int(time.Second / s.Interval)
}

// IntervalForFPS converts a target processing rate to a frame interval.
func IntervalForFPS(fps int) time.Duration {
	if fps <= 0 {
		return DefaultInterval
	}
	return time.Second / time.Duration(fps)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampDuration(v, lo, hi time.Duration) time.Duration {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Live is a concurrency-safe holder for the current settings.
type Live struct {
	mu       sync.RWMutex
	settings Settings
}

// NewLive creates a holder with s clamped.
func NewLive(s Settings) *Live {
	return &Live{settings: s.Clamped()}
}

// Snapshot returns a copy of the current settings.
func (l *Live) Snapshot() Settings {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.settings
}

// Set replaces the settings and returns the clamped result.
func (l *Live) Set(s Settings) Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.settings = s.Clamped()
	return l.settings
}

// Update applies fn to a copy of the settings and stores the clamped result.
func (l *Live) Update(fn func(*Settings)) Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.settings
	fn(&s)
	l.settings = s.Clamped()
	return l.settings
}

// Rotate turns the frame another 90 degrees clockwise.
func (l *Live) Rotate() Settings {
	return l.Update(func(s *Settings) {
		s.Orientation.Rotation += 90
	})
}

// ToggleFlipHorizontal mirrors the frame left to right.
func (l *Live) ToggleFlipHorizontal() Settings {
	return l.Update(func(s *Settings) {
		s.Orientation.FlipHorizontal = !s.Orientation.FlipHorizontal
	})
}

// ToggleFlipVertical mirrors the frame top to bottom.
func (l *Live) ToggleFlipVertical() Settings {
	return l.Update(func(s *Settings) {
		s.Orientation.FlipVertical = !s.Orientation.FlipVertical
	})
}

// ResetOrientation clears rotation and both flips.
func (l *Live) ResetOrientation() Settings {
	return l.Update(func(s *Settings) {
		s.Orientation = orient.Config{}
	})
}

// AdjustInterval changes the processing interval by delta, clamped.
// A negative delta processes frames more often.
func (l *Live) AdjustInterval(delta time.Duration) Settings {
	return l.Update(func(s *Settings) {
		s.Interval += delta
	})
}

// TogglePreview switches the preview overlay on or off.
func (l *Live) TogglePreview() Settings {
	return l.Update(func(s *Settings) {
		s.Preview = !s.Preview
	})
}
