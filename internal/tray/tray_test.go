package tray

import (
	"testing"

	"github.com/ayusman/airmouse/internal/input"
)

func TestTray_Toggle(t *testing.T) {
	tr := New()
	if !tr.IsEnabled() {
		t.Fatal("tray should start enabled")
	}

	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	tr.handleToggle()
	tr.handleToggle()

	if len(got) != 2 || got[0] || !got[1] {
		t.Errorf("toggle callbacks = %v, want [false true]", got)
	}
	if !tr.IsEnabled() {
		t.Error("two toggles should leave the tray enabled")
	}
}

func TestTray_Commands(t *testing.T) {
	tr := New()
	tr.handleCommand(input.Rotate) // no callback set

	var got []input.Event
	tr.OnCommand(func(e input.Event) { got = append(got, e) })
	tr.handleCommand(input.FlipHorizontal)
	tr.handleCommand(input.ResetOrientation)

	if len(got) != 2 || got[0] != input.FlipHorizontal || got[1] != input.ResetOrientation {
		t.Errorf("commands = %v", got)
	}
}

func TestTray_Open(t *testing.T) {
	tr := New()
	opened := 0
	tr.OnOpen(func() { opened++ })
	tr.handleOpen()

	if opened != 1 {
		t.Errorf("open callback ran %d times", opened)
	}
}

func TestLastGestureTitle(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "Last: none"},
		{"none", "Last: none"},
		{"left click", "Last: left click"},
	}

	for _, tt := range tests {
		if got := lastGestureTitle(tt.name); got != tt.want {
			t.Errorf("lastGestureTitle(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTray_SettersBeforeRun(t *testing.T) {
	tr := New()
	// menu items do not exist until the tray runs
	tr.SetLastGesture("drag")
}
