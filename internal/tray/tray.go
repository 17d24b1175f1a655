// Package tray provides the system tray menu: pause and resume, orientation
// hotkeys, the last recognized gesture and quit.
package tray

import (
	"sync"

	"github.com/ayusman/airmouse/internal/input"
	"github.com/getlantern/systray"
)

const (
	titleEnabled  = "● Enabled"
	titleDisabled = "○ Paused"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle  func(enabled bool)
	onCommand func(input.Event)
	onOpen    func()
	onQuit    func()
	enabled   bool
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnCommand sets the callback for the orientation and preview items.
func (t *Tray) OnCommand(fn func(input.Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onCommand = fn
}

// OnOpen sets the callback function to be called when the preview menu item is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

type commandItem struct {
	item  *systray.MenuItem
	event input.Event
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("AirMouse")
	systray.SetTooltip("AirMouse hand gesture pointer")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(titleEnabled, "Pause or resume pointer control")
	systray.AddSeparator()

	t.menuLastGesture = systray.AddMenuItem("Last: none", "Last detected gesture")
	t.menuLastGesture.Disable()
	t.mu.Unlock()

	orientation := systray.AddMenuItem("Orientation", "Camera orientation")
	commands := []commandItem{
		{orientation.AddSubMenuItem("Rotate 90°", "Rotate the camera image clockwise"), input.Rotate},
		{orientation.AddSubMenuItem("Flip horizontal", "Mirror left to right"), input.FlipHorizontal},
		{orientation.AddSubMenuItem("Flip vertical", "Mirror top to bottom"), input.FlipVertical},
		{orientation.AddSubMenuItem("Reset", "Clear rotation and flips"), input.ResetOrientation},
		{systray.AddMenuItem("Toggle preview", "Draw the camera preview overlay"), input.TogglePreview},
	}
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Preview...", "Open the preview in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit AirMouse")

	for _, c := range commands {
		go func(c commandItem) {
			for range c.item.ClickedCh {
				t.handleCommand(c.event)
			}
		}(c)
	}

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		if enabled {
			t.menuToggle.SetTitle(titleEnabled)
		} else {
			t.menuToggle.SetTitle(titleDisabled)
		}
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleCommand(e input.Event) {
	t.mu.RLock()
	callback := t.onCommand
	t.mu.RUnlock()

	if callback != nil {
		callback(e)
	}
}

// handleOpen handles the preview menu item click.
func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastGesture updates the last gesture display in the menu.
func (t *Tray) SetLastGesture(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(lastGestureTitle(name))
	}
}

func lastGestureTitle(name string) string {
	if name == "" || name == "none" {
		return "Last: none"
	}
	return "Last: " + name
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
