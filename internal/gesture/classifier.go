package gesture

import (
	"time"

	"github.com/ayusman/airmouse/internal/detector"
)

// Classifier defaults.
const (
	// DefaultHistoryLength is the number of frames in the majority-vote window.
	DefaultHistoryLength = 3
	// DefaultFingerBentThreshold is the normalized fingertip distance below which two tips touch.
	DefaultFingerBentThreshold = 0.05
	// DefaultClickHoldTime is how long a pinch must be held before it clicks.
	DefaultClickHoldTime = 100 * time.Millisecond
	// DefaultScrollDelta is the minimum normalized vertical palm travel per frame that scrolls.
	DefaultScrollDelta = 0.01
)

// Config holds classifier thresholds.
type Config struct {
	HistoryLength       int
	FingerBentThreshold float64
	ClickHoldTime       time.Duration
	ScrollDelta         float64
}

// DefaultConfig returns the thresholds the pointer pipeline ships with.
func DefaultConfig() Config {
	return Config{
		HistoryLength:       DefaultHistoryLength,
		FingerBentThreshold: DefaultFingerBentThreshold,
		ClickHoldTime:       DefaultClickHoldTime,
		ScrollDelta:         DefaultScrollDelta,
	}
}

// Classifier maps a stream of hand landmarks to gestures. It keeps the
// finger-state history, the previously emitted gesture, the previous hand and
// the start time of the current press. It is not safe for concurrent use;
// one pipeline goroutine owns it.
type Classifier struct {
	config  Config
	history *History

	prevGesture Gesture
	prevHand    *detector.HandLandmarks
	stable      FingerState

	// pending is the timer-gated candidate of the previous frame and
	// pressStart the time it was first seen.
	pending    Gesture
	pressStart time.Time
}

// NewClassifier creates a Classifier. Zero config fields take their defaults.
func NewClassifier(config Config) *Classifier {
	def := DefaultConfig()
	if config.HistoryLength <= 0 {
		config.HistoryLength = def.HistoryLength
	}
	if config.FingerBentThreshold <= 0 {
		config.FingerBentThreshold = def.FingerBentThreshold
	}
	if config.ClickHoldTime <= 0 {
		config.ClickHoldTime = def.ClickHoldTime
	}
	if config.ScrollDelta <= 0 {
		config.ScrollDelta = def.ScrollDelta
	}

	return &Classifier{
		config:  config,
		history: NewHistory(config.HistoryLength),
	}
}

// Classify records the hand's finger state and returns the gesture for this frame.
// A nil hand is treated like Lost.
func (c *Classifier) Classify(hand *detector.HandLandmarks, now time.Time) Gesture {
	if hand == nil {
		c.Lost()
		return None
	}

	c.history.Push(ExtractFingerState(hand))
	c.stable = c.history.Stable()

	candidate := c.candidate(hand)
	g := c.gate(candidate, now)

	c.prevGesture = g
	c.prevHand = hand.Clone()

	return g
}

// candidate matches the stable finger state against the pattern table.
func (c *Classifier) candidate(hand *detector.HandLandmarks) Gesture {
	p := &hand.Points

	switch c.stable {
	case patternPointing:
		return Move

	case patternTwoFinger:
		if detector.Distance2D(p[detector.IndexTip], p[detector.MiddleTip]) < c.config.FingerBentThreshold {
			return LeftClick
		}
		return Drag

	case patternThumbUp:
		if detector.Distance2D(p[detector.IndexTip], p[detector.ThumbTip]) < c.config.FingerBentThreshold {
			return RightClick
		}
		return Move

	case patternOpenPalm:
		if c.prevHand == nil {
			return None
		}
		cur := p[detector.MiddleTip].Y
		prev := c.prevHand.Points[detector.MiddleTip].Y
		switch {
		case cur < prev-c.config.ScrollDelta:
			return ScrollUp
		case cur > prev+c.config.ScrollDelta:
			return ScrollDown
		}
		return None
	}

	return None
}

// gate holds click candidates back until they have been seen continuously
// for longer than ClickHoldTime.
func (c *Classifier) gate(candidate Gesture, now time.Time) Gesture {
	if !candidate.IsClick() {
		c.pending = None
		return candidate
	}

	if candidate != c.pending {
		c.pressStart = now
	}
	c.pending = candidate

	if now.Sub(c.pressStart) > c.config.ClickHoldTime {
		return candidate
	}
	return None
}

// Lost records a frame without a hand. Scroll needs a fresh previous hand and
// a new press has to start over, so the cross-frame state is cleared.
func (c *Classifier) Lost() {
	c.history.Reset()
	c.stable = FingerState{}
	c.prevGesture = None
	c.prevHand = nil
	c.pending = None
	c.pressStart = time.Time{}
}

// Reset clears all session state.
func (c *Classifier) Reset() {
	c.Lost()
}

// Stable returns the debounced finger state computed by the last Classify call.
func (c *Classifier) Stable() FingerState {
	return c.stable
}

// Previous returns the gesture emitted by the last Classify call.
func (c *Classifier) Previous() Gesture {
	return c.prevGesture
}

// Config returns the classifier thresholds.
func (c *Classifier) Config() Config {
	return c.config
}
