// Package app drives the air mouse session: it owns the camera, detector,
// classifier and actuator, runs the per-frame pipeline on one goroutine and
// publishes the latest result and preview frame for the presentation layer.
package app

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/ayusman/airmouse/internal/capture"
	"github.com/ayusman/airmouse/internal/config"
	"github.com/ayusman/airmouse/internal/detector"
	"github.com/ayusman/airmouse/internal/gesture"
	"github.com/ayusman/airmouse/internal/input"
	"github.com/ayusman/airmouse/internal/orient"
	"github.com/ayusman/airmouse/internal/pointer"
	"github.com/ayusman/airmouse/internal/recorder"
	"github.com/ayusman/airmouse/internal/store"
)

// ErrNoScreen is returned by Start when no screen size is configured and
// the mouse cannot report one.
var ErrNoScreen = errors.New("screen size unavailable")

// Config holds configuration options for the application. Nil collaborators
// are replaced with the real implementations.
type Config struct {
	Store    *store.Store
	CameraID int

	Camera   capture.Camera
	Detector detector.Detector
	Mouse    pointer.Mouse
	Settings *config.Live
	// Input is polled once per frame in addition to the app's own queue.
	Input      input.Source
	Classifier gesture.Config

	// ScreenWidth and ScreenHeight override the size reported by the mouse.
	ScreenWidth  int
	ScreenHeight int
}

// Result is what the pipeline published for the latest frame.
type Result struct {
	Sequence    uint64                  `json:"sequence"`
	Timestamp   time.Time               `json:"timestamp"`
	Gesture     gesture.Gesture         `json:"gesture"`
	Stable      string                  `json:"stable"`
	Hand        *detector.HandLandmarks `json:"hand,omitempty"`
	InZone      bool                    `json:"in_zone"`
	Target      image.Point             `json:"target"`
	Orientation orient.Config           `json:"orientation"`
	Processed   bool                    `json:"processed"`
	Enabled     bool                    `json:"enabled"`
	Dragging    bool                    `json:"dragging"`
	FPS         int                     `json:"fps"`
}

// App is the main application that turns camera frames into pointer actions.
type App struct {
	config     Config
	camera     capture.Camera
	detector   detector.Detector
	mouse      pointer.Mouse
	settings   *config.Live
	recorder   *recorder.Recorder
	events     *input.ChanSource
	source     input.Source
	classifier *gesture.Classifier
	actuator   *pointer.Actuator

	mu       sync.RWMutex
	enabled  bool
	screen   image.Point
	stopCh   chan struct{}
	doneCh   chan struct{}
	latest   Result
	jpeg     []byte
	sequence uint64

	// owned by the pipeline goroutine
	lastProcess  time.Time
	readFailing  bool
	onGesture    func(gesture.Gesture)
	lastReported gesture.Gesture
}

// New creates a new App instance with the given configuration.
func New(cfg Config) *App {
	a := &App{
		config:   cfg,
		camera:   cfg.Camera,
		detector: cfg.Detector,
		mouse:    cfg.Mouse,
		settings: cfg.Settings,
		events:   input.NewChanSource(64),
		enabled:  true,
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(cfg.CameraID)
	}
	if a.mouse == nil {
		a.mouse = pointer.NewRobotMouse()
	}
	if a.settings == nil {
		a.settings = config.NewLive(config.Default())
	}
	if a.detector == nil {
		// Try MediaPipe first, fall back to mock detector
		if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
			a.detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}

	var repo *store.RecordingRepository
	if cfg.Store != nil {
		repo = cfg.Store.Recordings()
	}
	a.recorder = recorder.New(repo)

	a.source = input.Multi{a.events, cfg.Input}
	a.classifier = gesture.NewClassifier(cfg.Classifier)
	a.actuator = pointer.NewActuator(a.mouse, a.settings.Snapshot().Pointer())
	a.screen = image.Pt(cfg.ScreenWidth, cfg.ScreenHeight)

	return a
}

// Start opens the camera and begins the pipeline. A camera that cannot be
// opened is fatal and returned to the caller.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if a.screen.X <= 0 || a.screen.Y <= 0 {
		w, h := a.mouse.ScreenSize()
		if w <= 0 || h <= 0 {
			return ErrNoScreen
		}
		a.screen = image.Pt(w, h)
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Printf("Pipeline started, screen %dx%d", a.screen.X, a.screen.Y)
	return nil
}

// Stop halts the pipeline. The mouse button is released before the camera
// and detector are closed.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	} else {
		a.actuator.Release()
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	a.recorder.Cancel()
	log.Println("Pipeline stopped")
}

// Running reports whether the pipeline goroutine is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// SetEnabled pauses or resumes pointer actuation. Frames keep being
// classified and previewed while paused; a held drag is released on the
// next frame.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.enabled != enabled {
		log.Printf("Pointer control enabled: %v", enabled)
	}
	a.enabled = enabled
}

// IsEnabled returns whether pointer actuation is enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Send queues a user command for the next frame. It reports false when the
// queue is full.
func (a *App) Send(e input.Event) bool {
	return a.events.Send(e)
}

// OnGesture registers fn to be called from the pipeline goroutine whenever
// the emitted gesture changes. It must be set before Start.
func (a *App) OnGesture(fn func(gesture.Gesture)) {
	a.onGesture = fn
}

// RefreshScreen re-queries the screen size from the mouse, unless it was
// fixed in the config.
func (a *App) RefreshScreen() image.Point {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.config.ScreenWidth > 0 && a.config.ScreenHeight > 0 {
		return a.screen
	}
	if w, h := a.mouse.ScreenSize(); w > 0 && h > 0 {
		a.screen = image.Pt(w, h)
	}
	return a.screen
}

// Screen returns the screen size used for mapping.
func (a *App) Screen() image.Point {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.screen
}

// Latest returns the result of the most recent frame.
func (a *App) Latest() Result {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latest
}

// LatestJPEG returns the most recent preview frame and its sequence
// number. The slice must not be modified. It is nil while the preview is off.
func (a *App) LatestJPEG() ([]byte, uint64) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.jpeg, a.latest.Sequence
}

// Settings returns the live settings.
func (a *App) Settings() *config.Live {
	return a.settings
}

// Recorder returns the landmark recorder.
func (a *App) Recorder() *recorder.Recorder {
	return a.recorder
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.detector
}
