// Package preview draws the control overlay on oriented camera frames and
// encodes them for the presentation layer.
package preview

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ayusman/airmouse/internal/detector"
	"github.com/ayusman/airmouse/internal/gesture"
	"github.com/ayusman/airmouse/internal/orient"
	"github.com/ayusman/airmouse/internal/pointer"
	"gocv.io/x/gocv"
)

// Overlay colours (BGR order is handled by gocv from RGBA).
var (
	areaColor       = color.RGBA{G: 255, A: 255}
	connectionColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	jointColor      = color.RGBA{R: 255, G: 48, B: 48, A: 255}
	tipColor        = color.RGBA{R: 255, G: 200, A: 255}
	fpsColor        = color.RGBA{G: 255, A: 255}
	orientColor     = color.RGBA{G: 255, B: 255, A: 255}
	gestureColor    = color.RGBA{R: 255, A: 255}
	pausedColor     = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// Info is the status text drawn on each frame.
type Info struct {
	FPS         int
	Orientation orient.Config
	Gesture     gesture.Gesture
	Paused      bool
	Recording   bool
}

// OrientationLabel renders an orientation as "Rot:90 H V".
func OrientationLabel(o orient.Config) string {
	s := fmt.Sprintf("Rot:%d", orient.NormalizeRotation(o.Rotation))
	if o.FlipHorizontal {
		s += " H"
	}
	if o.FlipVertical {
		s += " V"
	}
	return s
}

// GestureLabel returns the text shown for g, or "" when nothing is shown.
func GestureLabel(info Info) string {
	switch {
	case info.Paused:
		return "Paused"
	case info.Gesture == gesture.None:
		return ""
	}
	return "Gesture: " + info.Gesture.String()
}

// DrawArea outlines the active rectangle.
func DrawArea(img *gocv.Mat, area pointer.Area) {
	r := pointer.ActiveRect(image.Pt(img.Cols(), img.Rows()), area)
	gocv.Rectangle(img, r.Bounds(), areaColor, 2)
}

// DrawLandmarks draws the hand skeleton. A nil hand draws nothing.
func DrawLandmarks(img *gocv.Mat, hand *detector.HandLandmarks) {
	if hand == nil {
		return
	}

	size := image.Pt(img.Cols(), img.Rows())
	px := func(i int) image.Point {
		x, y := pointer.FramePixel(hand.Points[i], size)
		return image.Pt(int(x), int(y))
	}

	for _, c := range detector.HandConnections {
		gocv.Line(img, px(c[0]), px(c[1]), connectionColor, 2)
	}
	for i := range hand.Points {
		gocv.Circle(img, px(i), 4, jointColor, -1)
	}
	gocv.Circle(img, px(detector.IndexTip), 7, tipColor, 2)
}

// DrawInfo writes the FPS, orientation and gesture labels.
func DrawInfo(img *gocv.Mat, info Info) {
	w := img.Cols()

	gocv.PutText(img, fmt.Sprintf("FPS: ~%d", info.FPS), image.Pt(w-120, 30),
		gocv.FontHersheySimplex, 0.7, fpsColor, 2)
	gocv.PutText(img, OrientationLabel(info.Orientation), image.Pt(w-120, 60),
		gocv.FontHersheySimplex, 0.5, orientColor, 1)

	if label := GestureLabel(info); label != "" {
		c := gestureColor
		if info.Paused {
			c = pausedColor
		}
		gocv.PutText(img, label, image.Pt(10, 30), gocv.FontHersheySimplex, 1, c, 2)
	}
	if info.Recording {
		gocv.Circle(img, image.Pt(w-20, 90), 8, gestureColor, -1)
	}
}

// Render draws the full overlay on img.
func Render(img *gocv.Mat, area pointer.Area, hand *detector.HandLandmarks, info Info) {
	if img.Empty() {
		return
	}
	DrawArea(img, area)
	DrawLandmarks(img, hand)
	DrawInfo(img, info)
}

// Encode returns img as JPEG bytes owned by the caller.
func Encode(img gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}
