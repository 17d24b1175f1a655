package app

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/ayusman/airmouse/internal/capture"
	"github.com/ayusman/airmouse/internal/config"
	"github.com/ayusman/airmouse/internal/detector"
	"github.com/ayusman/airmouse/internal/gesture"
	"github.com/ayusman/airmouse/internal/input"
	"github.com/ayusman/airmouse/internal/pointer"
)

var (
	vga   = image.Pt(640, 480)
	epoch = time.Unix(1_700_000_000, 0)
)

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

type testRig struct {
	app    *App
	camera *capture.MockCamera
	mouse  *pointer.MockMouse
	det    *detector.MockDetector
}

func newRig(t *testing.T) *testRig {
	t.Helper()

	r := &testRig{
		camera: capture.NewMockCamera(nil, true),
		mouse:  pointer.NewMockMouse(1920, 1080),
		det:    detector.NewMockDetector(),
	}
	r.app = New(Config{
		Camera:       r.camera,
		Detector:     r.det,
		Mouse:        r.mouse,
		ScreenWidth:  1920,
		ScreenHeight: 1080,
	})
	return r
}

// centred returns h moved so the index tip sits at the frame centre.
func centred(h detector.HandLandmarks) *detector.HandLandmarks {
	moved := detector.WithIndexTip(h, 0.5, 0.5)
	return &moved
}

func (r *testRig) step(hand *detector.HandLandmarks, ms int) Result {
	s := r.app.settings.Snapshot()
	return r.app.step(Result{}, hand, vga, s, r.app.IsEnabled(), at(ms))
}

func TestStep_PointingMovesEveryFrame(t *testing.T) {
	r := newRig(t)
	hand := detector.WithIndexTip(detector.PointingLandmarks(), 0.4, 0.4)

	for i := 0; i < 5; i++ {
		res := r.step(&hand, i*33)
		if res.Gesture != gesture.Move {
			t.Fatalf("frame %d: gesture = %v, want %v", i, res.Gesture, gesture.Move)
		}
		if !res.InZone || res.Stable != "01000" {
			t.Errorf("frame %d: in zone %v, stable %s", i, res.InZone, res.Stable)
		}
	}

	// the fingertip never moves, so the jitter filter passes only the first move
	if got := r.mouse.Count("move"); got != 1 {
		t.Errorf("moves = %d, want 1", got)
	}
	if x, y := r.mouse.Position(); x >= 960 || y >= 540 {
		t.Errorf("cursor at (%d,%d), expected it to move toward the top left", x, y)
	}
}

func TestStep_LeftClickAfterHold(t *testing.T) {
	r := newRig(t)
	pinch := centred(detector.PinchLandmarks(0.02))

	want := []gesture.Gesture{gesture.None, gesture.None, gesture.None, gesture.LeftClick, gesture.LeftClick}
	for i, w := range want {
		if got := r.step(pinch, i*50).Gesture; got != w {
			t.Errorf("frame at %dms: gesture = %v, want %v", i*50, got, w)
		}
	}

	calls := r.mouse.Calls()
	if len(calls) != 1 || calls[0].Op != "click" {
		t.Fatalf("calls = %v, want one click", calls)
	}
	if dx, dy := calls[0].X-960, calls[0].Y-540; dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		t.Errorf("click at (%d,%d), want the screen centre", calls[0].X, calls[0].Y)
	}
}

func TestStep_HandLossHoldsDrag(t *testing.T) {
	r := newRig(t)

	r.step(centred(detector.PinchLandmarks(0.08)), 0)
	if !r.app.actuator.Dragging() {
		t.Fatal("expected drag to start")
	}

	res := r.step(nil, 33)
	if res.Gesture != gesture.None || res.Hand != nil {
		t.Errorf("lost hand result = %+v", res)
	}
	if !r.app.actuator.Dragging() {
		t.Error("losing the hand should hold the drag")
	}

	r.step(centred(detector.PointingLandmarks()), 66)
	if r.app.actuator.Dragging() || r.mouse.Count("up") != 1 {
		t.Errorf("move should release the drag, calls = %v", r.mouse.Calls())
	}
}

func TestStep_OutOfZoneDoesNothing(t *testing.T) {
	r := newRig(t)
	hand := detector.WithIndexTip(detector.PointingLandmarks(), 0.05, 0.5)

	res := r.step(&hand, 0)
	if res.Gesture != gesture.Move || res.InZone {
		t.Errorf("result = %+v, want move outside the zone", res)
	}
	if calls := r.mouse.Calls(); len(calls) != 0 {
		t.Errorf("calls = %v, want none", calls)
	}
}

func TestStep_DisabledClassifiesWithoutActing(t *testing.T) {
	r := newRig(t)
	r.app.SetEnabled(false)

	res := r.step(centred(detector.PointingLandmarks()), 0)
	if res.Gesture != gesture.Move {
		t.Errorf("gesture = %v, want %v", res.Gesture, gesture.Move)
	}
	if calls := r.mouse.Calls(); len(calls) != 0 {
		t.Errorf("calls = %v, want none while disabled", calls)
	}
}

func TestSetEnabled_ReleasesDrag(t *testing.T) {
	r := newRig(t)
	r.step(centred(detector.PinchLandmarks(0.08)), 0)

	r.app.SetEnabled(false)
	// the camera is closed, so the frame read fails after the release
	r.app.processFrame(at(33))

	if r.mouse.ButtonDown() || r.mouse.Count("up") != 1 {
		t.Errorf("pausing should release the drag, calls = %v", r.mouse.Calls())
	}
}

func TestDrainInput(t *testing.T) {
	r := newRig(t)

	r.app.Send(input.Rotate)
	r.app.Send(input.FlipHorizontal)
	r.app.Send(input.Faster)
	r.app.Send(input.Click)
	r.app.Send(input.TogglePreview)
	r.app.processFrame(at(0))

	s := r.app.Settings().Snapshot()
	if s.Orientation.Rotation != 90 || !s.Orientation.FlipHorizontal {
		t.Errorf("orientation = %+v", s.Orientation)
	}
	if s.Interval != config.DefaultInterval-config.IntervalStep {
		t.Errorf("interval = %v", s.Interval)
	}
	if s.Preview {
		t.Error("preview should be toggled off")
	}
	if calls := r.mouse.Calls(); len(calls) != 1 || calls[0] != (pointer.Call{Op: "click", X: 960, Y: 540}) {
		t.Errorf("calls = %v, want a click at the cursor", calls)
	}
}

func TestDrainInput_ExternalSourceAndPause(t *testing.T) {
	src := input.NewChanSource(4)
	mouse := pointer.NewMockMouse(800, 600)
	a := New(Config{
		Camera:   capture.NewMockCamera(nil, true),
		Detector: detector.NewMockDetector(),
		Mouse:    mouse,
		Input:    src,
	})
	a.SetEnabled(false)

	src.Send(input.RightClick)
	src.Send(input.ResetOrientation)
	a.Settings().Rotate()
	a.processFrame(at(0))

	if len(mouse.Calls()) != 0 {
		t.Error("clicks from keys should be ignored while paused")
	}
	if !a.Settings().Snapshot().Orientation.IsIdentity() {
		t.Error("reset from the external source was not applied")
	}
}

func TestOnGesture_ReportsChanges(t *testing.T) {
	r := newRig(t)
	var seen []gesture.Gesture
	r.app.OnGesture(func(g gesture.Gesture) { seen = append(seen, g) })

	point := centred(detector.PointingLandmarks())
	r.step(point, 0)
	r.step(point, 33)
	r.step(nil, 66)
	r.step(point, 99)

	want := []gesture.Gesture{gesture.Move, gesture.None, gesture.Move}
	if len(seen) != len(want) {
		t.Fatalf("reported %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("report %d = %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestStep_FeedsRecorder(t *testing.T) {
	r := newRig(t)
	rec := r.app.Recorder()
	if err := rec.Start("sample"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	point := centred(detector.PointingLandmarks())
	for i := 0; i < 6; i++ {
		r.step(point, i*33)
	}
	r.step(nil, 300)

	if got := rec.Status().FrameCount; got != 6 {
		t.Errorf("recorded %d frames, want 6", got)
	}
	rec.Cancel()
}

func TestStart_CameraFailure(t *testing.T) {
	r := newRig(t)
	openErr := errors.New("device busy")
	r.camera.SetOpenError(openErr)

	err := r.app.Start()
	if !errors.Is(err, openErr) {
		t.Fatalf("Start() error = %v, want wrapped %v", err, openErr)
	}
	if r.app.Running() {
		t.Error("app should not run without a camera")
	}
}

func TestStart_NoScreen(t *testing.T) {
	a := New(Config{
		Camera:   capture.NewMockCamera(nil, true),
		Detector: detector.NewMockDetector(),
		Mouse:    pointer.NewMockMouse(0, 0),
	})

	if err := a.Start(); !errors.Is(err, ErrNoScreen) {
		t.Errorf("Start() error = %v, want ErrNoScreen", err)
	}
}

// orderCamera records whether the mouse button was still down when the
// camera was closed.
type orderCamera struct {
	*capture.MockCamera
	mouse        *pointer.MockMouse
	downAtClose  bool
	closeInvoked bool
}

func (c *orderCamera) Close() error {
	c.closeInvoked = true
	c.downAtClose = c.mouse.ButtonDown()
	return c.MockCamera.Close()
}

func TestStop_ReleasesButtonBeforeClosingCamera(t *testing.T) {
	mouse := pointer.NewMockMouse(1920, 1080)
	cam := &orderCamera{MockCamera: capture.NewMockCamera(nil, true), mouse: mouse}
	det := detector.NewMockDetector()
	a := New(Config{Camera: cam, Detector: det, Mouse: mouse})

	s := a.settings.Snapshot()
	a.step(Result{}, centred(detector.PinchLandmarks(0.08)), vga, s, true, at(0))
	if !mouse.ButtonDown() {
		t.Fatal("expected the drag to hold the button")
	}

	a.Stop()

	if !cam.closeInvoked {
		t.Fatal("camera was not closed")
	}
	if cam.downAtClose {
		t.Error("button was still down when the camera closed")
	}
	if mouse.Count("down") != mouse.Count("up") {
		t.Errorf("unbalanced presses: %v", mouse.Calls())
	}
}

func TestRefreshScreen(t *testing.T) {
	mouse := pointer.NewMockMouse(1280, 720)
	a := New(Config{Camera: capture.NewMockCamera(nil, true), Detector: detector.NewMockDetector(), Mouse: mouse})
	if got := a.RefreshScreen(); got != image.Pt(1280, 720) {
		t.Errorf("RefreshScreen() = %v", got)
	}

	fixed := New(Config{
		Camera: capture.NewMockCamera(nil, true), Detector: detector.NewMockDetector(), Mouse: mouse,
		ScreenWidth: 800, ScreenHeight: 600,
	})
	if got := fixed.RefreshScreen(); got != image.Pt(800, 600) {
		t.Errorf("configured screen should win, got %v", got)
	}
}
