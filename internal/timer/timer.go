package timer

import (
	"sync"
	"time"
)

// Handle is a scheduled one-shot callback that can be cancelled.
type Handle struct {
	mu      sync.Mutex
	t       *time.Timer
	fired   bool
	stopped bool
}

// After schedules fn to run once after d. The returned handle can be
// cancelled; cancelling after the callback has started is a no-op.
func After(d time.Duration, fn func()) *Handle {
	h := &Handle{}
	h.t = time.AfterFunc(d, func() {
		h.mu.Lock()
		if h.stopped {
			h.mu.Unlock()
			return
		}
		h.fired = true
		h.mu.Unlock()
		fn()
	})
	return h
}

// Cancel prevents the callback from running. It reports whether the
// callback was actually stopped; cancelling a handle that already fired
// or was already cancelled returns false.
func (h *Handle) Cancel() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fired || h.stopped {
		return false
	}
	h.stopped = true
	h.t.Stop()
	return true
}
