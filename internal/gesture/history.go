package gesture

// History is a bounded FIFO of recent finger states.
type History struct {
	states []FingerState
	size   int
}

// NewHistory returns a history holding at most size states. Sizes below 1 become 1.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{
		states: make([]FingerState, 0, size),
		size:   size,
	}
}

// Push appends s, evicting the oldest state when full.
func (h *History) Push(s FingerState) {
	if len(h.states) == h.size {
		copy(h.states, h.states[1:])
		h.states = h.states[:h.size-1]
	}
	h.states = append(h.states, s)
}

// Stable returns the per-finger strict-majority vote over the window.
// A finger is stably extended when it is extended in more than half of the
// stored states. An empty history yields all fingers flexed.
func (h *History) Stable() FingerState {
	var counts [NumFingers]int
	for _, s := range h.states {
		for f, up := range s {
			if up {
				counts[f]++
			}
		}
	}

	var stable FingerState
	n := len(h.states)
	for f, c := range counts {
		stable[f] = c*2 > n
	}
	return stable
}

// Len returns the number of stored states.
func (h *History) Len() int { return len(h.states) }

// Cap returns the window size.
func (h *History) Cap() int { return h.size }

// Reset drops every stored state.
func (h *History) Reset() {
	h.states = h.states[:0]
}
