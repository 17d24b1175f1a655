package app

import (
	"image"
	"log"
	"time"

	"github.com/ayusman/airmouse/internal/config"
	"github.com/ayusman/airmouse/internal/detector"
	"github.com/ayusman/airmouse/internal/gesture"
	"github.com/ayusman/airmouse/internal/input"
	"github.com/ayusman/airmouse/internal/pointer"
	"github.com/ayusman/airmouse/internal/preview"
	"gocv.io/x/gocv"
)

// frameInterval returns the ticker period for a camera rate.
func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = 30
	}
	return time.Second / time.Duration(fps)
}

// runPipeline is the frame loop. Classifier and actuator state is only
// touched from here.
//
// Per frame:
// 1. Snapshot the settings
// 2. Read a frame
// 3. If the processing interval has elapsed, detect, orient and act
// 4. Otherwise orient only, for the preview
// 5. Draw and publish the preview
// 6. Apply pending user commands
// 7. Publish the result
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	defer a.actuator.Release()

	ticker := time.NewTicker(frameInterval(a.camera.FPS()))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			a.processFrame(now)
		}
	}
}

// processFrame runs one pipeline iteration.
func (a *App) processFrame(now time.Time) {
	s := a.settings.Snapshot()
	enabled := a.IsEnabled()

	a.actuator.Configure(s.Pointer())
	if !enabled {
		a.actuator.Release()
	}

	frame, err := a.camera.ReadFrame()
	if err != nil {
		if !a.readFailing {
			log.Printf("Error reading frame: %v", err)
			a.readFailing = true
		}
		a.drainInput(enabled)
		return
	}
	if a.readFailing {
		log.Println("Camera frames resumed")
		a.readFailing = false
	}
	defer frame.Close()

	res := Result{
		Timestamp:   now,
		Orientation: s.Orientation,
		Enabled:     enabled,
		FPS:         s.ProcessingFPS(),
	}

	var out gocv.Mat
	if now.Sub(a.lastProcess) >= s.Interval {
		a.lastProcess = now

		var hand *detector.HandLandmarks
		out, hand = s.Orientation.Orient(*frame, a.detect(frame))
		res = a.step(res, hand, image.Pt(out.Cols(), out.Rows()), s, enabled, now)
	} else {
		// rate limited: keep showing the last processed state
		out = s.Orientation.Frame(*frame)
		prev := a.Latest()
		res.Gesture, res.Stable, res.Hand = prev.Gesture, prev.Stable, prev.Hand
		res.InZone, res.Target = prev.InZone, prev.Target
	}

	var jpeg []byte
	if s.Preview {
		preview.Render(&out, s.Area(), res.Hand, preview.Info{
			FPS:         res.FPS,
			Orientation: s.Orientation,
			Gesture:     res.Gesture,
			Paused:      !enabled,
			Recording:   a.recorder.Recording(),
		})
		if jpeg, err = preview.Encode(out); err != nil {
			log.Printf("Error encoding preview: %v", err)
		}
	}
	out.Close()

	a.drainInput(enabled)
	res.Dragging = a.actuator.Dragging()
	a.publish(res, jpeg)
}

// detect runs the hand detector. Failures count as a frame without a hand.
func (a *App) detect(frame *gocv.Mat) *detector.HandLandmarks {
	hands, err := a.detector.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return nil
	}
	return detector.Primary(hands)
}

// step classifies the oriented hand, maps the index fingertip and drives
// the actuator. size is the oriented frame size.
func (a *App) step(res Result, hand *detector.HandLandmarks, size image.Point, s config.Settings, enabled bool, now time.Time) Result {
	res.Processed = true
	res.Hand = hand

	if hand == nil {
		a.classifier.Lost()
		if enabled {
			a.actuator.Actuate(pointer.Command{Gesture: gesture.None}, now)
		}
		a.report(gesture.None)
		return res
	}

	g := a.classifier.Classify(hand, now)
	res.Gesture = g
	res.Stable = a.classifier.Stable().String()

	tip := hand.Points[detector.IndexTip]
	target, inZone := pointer.Map(tip, size, s.Area(), a.Screen())
	fx, fy := pointer.FramePixel(tip, size)
	res.Target, res.InZone = target, inZone

	if enabled {
		a.actuator.Actuate(pointer.Command{
			Gesture: g,
			Target:  target,
			InZone:  inZone,
			Finger:  image.Pt(int(fx), int(fy)),
		}, now)
	}

	a.recorder.Observe(hand)
	a.report(g)
	return res
}

// report calls the gesture callback when the emitted gesture changes.
func (a *App) report(g gesture.Gesture) {
	if g == a.lastReported {
		return
	}
	a.lastReported = g
	if a.onGesture != nil {
		a.onGesture(g)
	}
}

// drainInput applies every pending user command.
func (a *App) drainInput(enabled bool) {
	for {
		e, ok := a.source.Poll()
		if !ok {
			return
		}
		a.handleEvent(e, enabled)
	}
}

func (a *App) handleEvent(e input.Event, enabled bool) {
	switch e {
	case input.Click, input.RightClick:
		if enabled {
			a.actuator.ClickCurrent(e == input.RightClick)
		}
		return
	case input.Rotate:
		a.settings.Rotate()
	case input.FlipHorizontal:
		a.settings.ToggleFlipHorizontal()
	case input.FlipVertical:
		a.settings.ToggleFlipVertical()
	case input.ResetOrientation:
		a.settings.ResetOrientation()
	case input.Faster:
		a.settings.AdjustInterval(-config.IntervalStep)
	case input.Slower:
		a.settings.AdjustInterval(config.IntervalStep)
	case input.TogglePreview:
		a.settings.TogglePreview()
	default:
		return
	}

	s := a.settings.Snapshot()
	log.Printf("%s: %s, ~%d FPS, preview %v", e, preview.OrientationLabel(s.Orientation), s.ProcessingFPS(), s.Preview)
}

// publish stores the frame result for readers.
func (a *App) publish(res Result, jpeg []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.sequence++
	res.Sequence = a.sequence
	a.latest = res
	a.jpeg = jpeg
}
