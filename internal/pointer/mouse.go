package pointer

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// Mouse is the OS pointer facility.
type Mouse interface {
	MoveTo(x, y int) error
	Click(x, y int) error
	RightClick(x, y int) error
	MouseDown() error
	MouseUp() error
	// Scroll scrolls by delta notches. Positive scrolls up.
	Scroll(delta int) error
	Position() (x, y int)
	ScreenSize() (width, height int)
}

// RobotMouse drives the host pointer through robotgo.
type RobotMouse struct{}

// NewRobotMouse returns the host pointer.
func NewRobotMouse() *RobotMouse {
	return &RobotMouse{}
}

// MoveTo warps the cursor to (x, y) in screen pixels.
func (RobotMouse) MoveTo(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

// Click moves to (x, y) and clicks the left button.
func (RobotMouse) Click(x, y int) error {
	robotgo.Move(x, y)
	robotgo.Click("left")
	return nil
}

// RightClick moves to (x, y) and clicks the right button.
func (RobotMouse) RightClick(x, y int) error {
	robotgo.Move(x, y)
	robotgo.Click("right")
	return nil
}

// MouseDown presses the left button and holds it.
func (RobotMouse) MouseDown() error {
	if err := robotgo.Toggle("left"); err != nil {
		return fmt.Errorf("mouse down: %w", err)
	}
	return nil
}

// MouseUp releases the left button.
func (RobotMouse) MouseUp() error {
	if err := robotgo.Toggle("left", "up"); err != nil {
		return fmt.Errorf("mouse up: %w", err)
	}
	return nil
}

// Scroll turns the wheel by delta notches. Positive scrolls up.
func (RobotMouse) Scroll(delta int) error {
	switch {
	case delta > 0:
		robotgo.ScrollDir(delta, "up")
	case delta < 0:
		robotgo.ScrollDir(-delta, "down")
	}
	return nil
}

// Position returns the current cursor location.
func (RobotMouse) Position() (int, int) {
	return robotgo.Location()
}

// ScreenSize returns the main display size in pixels.
func (RobotMouse) ScreenSize() (int, int) {
	return robotgo.GetScreenSize()
}
