package pointer

import (
	"image"
	"log"
	"math"
	"time"

	"github.com/ayusman/airmouse/internal/gesture"
)

// Actuator defaults.
const (
	DefaultSmoothing       = 0.8
	DefaultMinMoveInterval = 8 * time.Millisecond
	DefaultScrollAmount    = 5
)

// Settings tunes the actuator. They may change between frames.
type Settings struct {
	// Smoothing is the fraction of the remaining distance covered per move.
	// 1 jumps straight to the target.
	Smoothing       float64
	JitterEnabled   bool
	JitterThreshold float64
	MinMoveInterval time.Duration
	ScrollAmount    int
}

// DefaultSettings returns the actuator defaults.
func DefaultSettings() Settings {
	return Settings{
		Smoothing:       DefaultSmoothing,
		JitterEnabled:   true,
		JitterThreshold: DefaultJitterThreshold,
		MinMoveInterval: DefaultMinMoveInterval,
		ScrollAmount:    DefaultScrollAmount,
	}
}

// Command is one frame's worth of pointer intent.
type Command struct {
	Gesture gesture.Gesture
	// Target is the mapped screen position, valid when InZone is set.
	Target image.Point
	InZone bool
	// Finger is the fingertip position in frame pixels, used by the jitter filter.
	Finger image.Point
}

// Actuator dispatches pointer operations for classified gestures. It owns
// the drag state: the button is down only between a successful MouseDown
// and its MouseUp. Dispatch errors are logged and never returned from
// Actuate. Not safe for concurrent use.
type Actuator struct {
	mouse    Mouse
	jitter   *JitterFilter
	settings Settings

	dragging bool
	lastMove time.Time
	// fired is the click already dispatched for the current hold.
	fired gesture.Gesture
}

// NewActuator creates an Actuator driving mouse.
func NewActuator(mouse Mouse, settings Settings) *Actuator {
	a := &Actuator{
		mouse:  mouse,
		jitter: NewJitterFilter(settings.JitterThreshold),
	}
	a.Configure(settings)
	return a
}

// Configure applies new settings from the next Actuate call on.
func (a *Actuator) Configure(s Settings) {
	if s.Smoothing <= 0 || s.Smoothing > 1 {
		s.Smoothing = DefaultSmoothing
	}
	if s.ScrollAmount <= 0 {
		s.ScrollAmount = DefaultScrollAmount
	}
	if s.MinMoveInterval < 0 {
		s.MinMoveInterval = 0
	}
	a.jitter.SetThreshold(s.JitterThreshold)
	a.settings = s
}

// Actuate performs the OS side effect for one frame.
//
// A drag in progress is released before any other gesture acts inside the
// zone. None and out-of-zone frames hold the drag, so a brief tracking gap
// does not drop it. Scrolling does not need the zone.
func (a *Actuator) Actuate(cmd Command, now time.Time) {
	g := cmd.Gesture
	if g != a.fired {
		a.fired = gesture.None
	}

	if g == gesture.None {
		return
	}

	if g.IsScroll() {
		a.release()
		a.scroll(g)
		return
	}

	if !cmd.InZone {
		return
	}

	if g != gesture.Drag {
		a.release()
	}

	switch g {
	case gesture.Move:
		a.move(cmd, now)
	case gesture.LeftClick, gesture.RightClick:
		a.click(g, cmd.Target)
	case gesture.Drag:
		a.drag(cmd.Target)
	}
}

func (a *Actuator) move(cmd Command, now time.Time) {
	if !a.lastMove.IsZero() && now.Sub(a.lastMove) < a.settings.MinMoveInterval {
		return
	}
	if a.settings.JitterEnabled && !a.jitter.ShouldMove(cmd.Finger) {
		return
	}

	a.lastMove = now
	p := a.smoothed(cmd.Target)
	if err := a.mouse.MoveTo(p.X, p.Y); err != nil {
		log.Printf("pointer: move to %v failed: %v", p, err)
	}
}

func (a *Actuator) click(g gesture.Gesture, at image.Point) {
	if a.fired == g {
		return
	}

	var err error
	if g == gesture.RightClick {
		err = a.mouse.RightClick(at.X, at.Y)
	} else {
		err = a.mouse.Click(at.X, at.Y)
	}
	if err != nil {
		log.Printf("pointer: %s at %v failed: %v", g, at, err)
		return
	}
	a.fired = g
}

func (a *Actuator) drag(target image.Point) {
	p := a.smoothed(target)
	if err := a.mouse.MoveTo(p.X, p.Y); err != nil {
		log.Printf("pointer: drag move to %v failed: %v", p, err)
	}
	if a.dragging {
		return
	}
	if err := a.mouse.MouseDown(); err != nil {
		log.Printf("pointer: mouse down failed: %v", err)
		return
	}
	a.dragging = true
}

func (a *Actuator) scroll(g gesture.Gesture) {
	delta := a.settings.ScrollAmount
	if g == gesture.ScrollDown {
		delta = -delta
	}
	if err := a.mouse.Scroll(delta); err != nil {
		log.Printf("pointer: scroll %d failed: %v", delta, err)
	}
}

// smoothed moves from the current cursor position toward target by the
// smoothing factor.
func (a *Actuator) smoothed(target image.Point) image.Point {
	cx, cy := a.mouse.Position()
	s := a.settings.Smoothing
	return image.Pt(
		cx+int(math.Round(float64(target.X-cx)*s)),
		cy+int(math.Round(float64(target.Y-cy)*s)),
	)
}

// release lifts the button if a drag is in progress. A failed mouse-up
// keeps the drag state so the next call retries.
func (a *Actuator) release() bool {
	if !a.dragging {
		return true
	}
	if err := a.mouse.MouseUp(); err != nil {
		log.Printf("pointer: mouse up failed: %v", err)
		return false
	}
	a.dragging = false
	return true
}

// Release ends any drag in progress. It must run on shutdown and whenever
// actuation is paused. It reports whether the button is now up.
func (a *Actuator) Release() bool {
	if !a.dragging {
		return true
	}
	log.Println("pointer: releasing held mouse button")
	return a.release()
}

// ClickCurrent clicks at the current cursor position. Used by key-driven
// clicks, which bypass the classifier.
func (a *Actuator) ClickCurrent(right bool) {
	a.release()
	x, y := a.mouse.Position()
	g := gesture.LeftClick
	var err error
	if right {
		g = gesture.RightClick
		err = a.mouse.RightClick(x, y)
	} else {
		err = a.mouse.Click(x, y)
	}
	if err != nil {
		log.Printf("pointer: %s at (%d,%d) failed: %v", g, x, y, err)
	}
}

// Dragging reports whether the left button is held by a drag.
func (a *Actuator) Dragging() bool {
	return a.dragging
}

// Settings returns the active settings.
func (a *Actuator) Settings() Settings {
	return a.settings
}
