package pointer

import (
	"fmt"
	"image"
	"sync"
)

// Call is one recorded MockMouse operation.
type Call struct {
	Op    string
	X, Y  int
	Delta int
}

func (c Call) String() string {
	switch c.Op {
	case "move", "click", "right-click":
		return fmt.Sprintf("%s(%d,%d)", c.Op, c.X, c.Y)
	case "scroll":
		return fmt.Sprintf("scroll(%d)", c.Delta)
	}
	return c.Op
}

// MockMouse records pointer operations for testing. It tracks the cursor
// position and the left button so unmatched presses can be detected.
type MockMouse struct {
	mu       sync.Mutex
	pos      image.Point
	screen   image.Point
	calls    []Call
	failures map[string]error
	down     bool
}

// NewMockMouse creates a mock screen of the given size with the cursor at
// its centre.
func NewMockMouse(width, height int) *MockMouse {
	return &MockMouse{
		pos:      image.Pt(width/2, height/2),
		screen:   image.Pt(width, height),
		failures: make(map[string]error),
	}
}

// Fail makes every call to op return err until cleared with a nil err.
// Ops are "move", "click", "right-click", "down", "up" and "scroll".
func (m *MockMouse) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

func (m *MockMouse) record(c Call) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[c.Op]; err != nil {
		return err
	}
	m.calls = append(m.calls, c)

	switch c.Op {
	case "move", "click", "right-click":
		m.pos = image.Pt(c.X, c.Y)
	case "down":
		m.down = true
	case "up":
		m.down = false
	}
	return nil
}

func (m *MockMouse) MoveTo(x, y int) error { return m.record(Call{Op: "move", X: x, Y: y}) }

func (m *MockMouse) Click(x, y int) error { return m.record(Call{Op: "click", X: x, Y: y}) }

func (m *MockMouse) RightClick(x, y int) error {
	return m.record(Call{Op: "right-click", X: x, Y: y})
}

func (m *MockMouse) MouseDown() error { return m.record(Call{Op: "down"}) }

func (m *MockMouse) MouseUp() error { return m.record(Call{Op: "up"}) }

func (m *MockMouse) Scroll(delta int) error { return m.record(Call{Op: "scroll", Delta: delta}) }

func (m *MockMouse) Position() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos.X, m.pos.Y
}

func (m *MockMouse) ScreenSize() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.screen.X, m.screen.Y
}

// Calls returns a copy of the recorded operations.
func (m *MockMouse) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Count returns how many successful calls of op were recorded.
func (m *MockMouse) Count(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// ButtonDown reports whether the left button is currently held.
func (m *MockMouse) ButtonDown() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.down
}

// Reset clears the recorded calls.
func (m *MockMouse) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
