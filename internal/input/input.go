// Package input delivers user commands that do not come from the camera:
// hotkeys for orientation and speed, and clicks triggered by a key. The
// frame loop drains a Source once per frame; the gesture classifier never
// sees these events.
package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"sync"
)

// Event is one user command.
type Event int

const (
	Click Event = iota + 1
	RightClick
	Rotate
	FlipHorizontal
	FlipVertical
	ResetOrientation
	Faster
	Slower
	TogglePreview
)

var eventNames = map[Event]string{
	Click:            "click",
	RightClick:       "right click",
	Rotate:           "rotate",
	FlipHorizontal:   "flip horizontal",
	FlipVertical:     "flip vertical",
	ResetOrientation: "reset orientation",
	Faster:           "faster",
	Slower:           "slower",
	TogglePreview:    "toggle preview",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// ParseEvent returns the event with the given name, as printed by String.
func ParseEvent(name string) (Event, error) {
	for e, n := range eventNames {
		if n == name {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown input event %q", name)
}

// Source supplies events. Poll never blocks; it returns the next pending
// event or false when there is none.
type Source interface {
	Poll() (Event, bool)
}

// ChanSource is a Source fed programmatically, e.g. by the tray menu or
// the HTTP API. Sends never block; events beyond the buffer are dropped.
type ChanSource struct {
	ch chan Event
}

// NewChanSource creates a source buffering up to size events.
func NewChanSource(size int) *ChanSource {
	if size < 1 {
		size = 1
	}
	return &ChanSource{ch: make(chan Event, size)}
}

// Send queues e. It reports false when the buffer is full.
func (s *ChanSource) Send(e Event) bool {
	select {
	case s.ch <- e:
		return true
	default:
		return false
	}
}

// Poll implements Source.
func (s *ChanSource) Poll() (Event, bool) {
	select {
	case e := <-s.ch:
		return e, true
	default:
		return 0, false
	}
}

// KeyMap binds single key bytes to events.
type KeyMap map[byte]Event

// DefaultKeyMap mirrors the classic hotkeys: space clicks, r rotates,
// h and v flip, 0 resets, + and - change speed, p toggles the preview.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		' ': Click,
		'c': RightClick,
		'r': Rotate,
		'R': Rotate,
		'h': FlipHorizontal,
		'H': FlipHorizontal,
		'v': FlipVertical,
		'V': FlipVertical,
		'0': ResetOrientation,
		'+': Faster,
		'=': Faster,
		'-': Slower,
		'p': TogglePreview,
		'P': TogglePreview,
	}
}

// KeySource reads key bytes from a reader in the background and turns the
// bound ones into events.
type KeySource struct {
	*ChanSource
	keys KeyMap

	once sync.Once
	done chan struct{}
}

// NewKeySource creates a KeySource with the given bindings. A nil map uses
// DefaultKeyMap.
func NewKeySource(keys KeyMap) *KeySource {
	if keys == nil {
		keys = DefaultKeyMap()
	}
	return &KeySource{
		ChanSource: NewChanSource(32),
		keys:       keys,
		done:       make(chan struct{}),
	}
}

// Run reads r until EOF, a read error or ctx is cancelled. Unbound bytes
// (including newlines) are ignored.
func (s *KeySource) Run(ctx context.Context, r io.Reader) {
	defer s.once.Do(func() { close(s.done) })

	br := bufio.NewReader(r)
	for {
		if ctx.Err() != nil {
			return
		}
		b, err := br.ReadByte()
		if err != nil {
			if err != io.EOF {
				log.Printf("input: key reader stopped: %v", err)
			}
			return
		}
		e, ok := s.keys[b]
		if !ok {
			continue
		}
		if !s.Send(e) {
			log.Printf("input: dropped %s, queue full", e)
		}
	}
}

// Done is closed once Run returns.
func (s *KeySource) Done() <-chan struct{} {
	return s.done
}

// Multi polls several sources in order.
type Multi []Source

// Poll implements Source.
func (m Multi) Poll() (Event, bool) {
	for _, s := range m {
		if s == nil {
			continue
		}
		if e, ok := s.Poll(); ok {
			return e, true
		}
	}
	return 0, false
}
