package browser

import "sync"

const maxHistory = 100

// History is a back/forward stack of navigation states
type History struct {
	mu      sync.Mutex
	entries []NavState
	cursor  int
}

// NewHistory returns an empty history
func NewHistory() *History {
	return &History{cursor: -1}
}

// Sync records s unless it equals the current entry. Forward entries are dropped.
func (h *History) Sync(s NavState) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor >= 0 && h.entries[h.cursor] == s {
		return
	}
	h.entries = append(h.entries[:h.cursor+1], s)
	if len(h.entries) > maxHistory {
		h.entries = h.entries[len(h.entries)-maxHistory:]
	}
	h.cursor = len(h.entries) - 1
}

// Back moves one entry back
func (h *History) Back() (NavState, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor <= 0 {
		return NavState{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Forward moves one entry forward
func (h *History) Forward() (NavState, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor < 0 || h.cursor >= len(h.entries)-1 {
		return NavState{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Current returns the entry under the cursor
func (h *History) Current() (NavState, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor < 0 {
		return NavState{}, false
	}
	return h.entries[h.cursor], true
}

// Len returns the number of recorded entries
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
