package gesture

import (
	"sync"
	"time"

	"loxremote/internal/timer"
)

type phase int

const (
	phaseIdle phase = iota
	phasePressed
	phaseAwaitingSecondPress
	phaseAwaitingSecondRelease
)

// buttonState holds the classification state for one button. States are
// created on first event for a button and live for the process lifetime.
type buttonState struct {
	phase          phase
	pressStartedAt time.Time
	pending        *timer.Handle

	// gen is bumped on every transition. Timer callbacks capture the
	// generation they were scheduled under and do nothing if the state
	// has moved on, so a timer that fires while being cancelled is inert.
	gen uint64

	// doubleOnRelease marks that the next release in
	// phaseAwaitingSecondRelease completes a double press. After a long
	// press the release is consumed without emitting anything.
	doubleOnRelease bool
}

// Classifier converts raw per-button down/up events into semantic gestures.
// Buttons are fully independent; events for one button never affect another.
//
// The emit callback runs with the classifier lock held and therefore must
// not call back into the classifier; hand the gesture off (channel or
// goroutine) if it triggers slow work. In exchange, Stop guarantees that no
// gesture is emitted after it returns.
type Classifier struct {
	longPress   time.Duration
	doublePress time.Duration
	emit        func(Gesture)

	mu      sync.Mutex
	states  map[string]*buttonState
	stopped bool
}

// NewClassifier creates a classifier with the given long-press threshold and
// double-press window.
func NewClassifier(longPress, doublePress time.Duration, emit func(Gesture)) *Classifier {
	return &Classifier{
		longPress:   longPress,
		doublePress: doublePress,
		emit:        emit,
		states:      make(map[string]*buttonState),
	}
}

func (c *Classifier) state(button string) *buttonState {
	if st, ok := c.states[button]; ok {
		return st
	}
	st := &buttonState{}
	c.states[button] = st
	return st
}

// OnEvent feeds one raw event into the state machine. Events for the same
// button must arrive in timestamp order. Malformed sequences (a repeated
// down without an intervening up, a stray up) are duplicate hardware
// signals and are ignored.
func (c *Classifier) OnEvent(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}

	st := c.state(ev.Button)
	switch ev.Kind {
	case Down:
		c.handleDown(ev, st)
	case Up:
		c.handleUp(ev, st)
	}
}

func (c *Classifier) handleDown(ev Event, st *buttonState) {
	switch st.phase {
	case phaseIdle:
		st.pressStartedAt = ev.Time
		c.cancelPending(st)
		st.phase = phasePressed
		c.schedule(ev.Button, st, c.longPress, c.longPressElapsed)
	case phaseAwaitingSecondPress:
		// Second press arrived inside the window; its release
		// completes the double press.
		c.cancelPending(st)
		st.phase = phaseAwaitingSecondRelease
		st.doubleOnRelease = true
	}
}

func (c *Classifier) handleUp(ev Event, st *buttonState) {
	switch st.phase {
	case phasePressed:
		// Released before the long-press threshold; single or double
		// is decided by whether another press lands in the window.
		c.cancelPending(st)
		st.phase = phaseAwaitingSecondPress
		c.schedule(ev.Button, st, c.doublePress, c.doubleWindowElapsed)
	case phaseAwaitingSecondRelease:
		emitDouble := st.doubleOnRelease
		st.doubleOnRelease = false
		c.cancelPending(st)
		st.phase = phaseIdle
		if emitDouble {
			c.emit(Gesture{Button: ev.Button, Action: ActionDoublePress})
		}
	}
}

// schedule arms the single pending timer for a button state. The previous
// timer must already be cancelled; the generation bump in cancelPending
// keeps any in-flight callback from acting.
func (c *Classifier) schedule(button string, st *buttonState, d time.Duration, fire func(button string, gen uint64)) {
	gen := st.gen
	st.pending = timer.After(d, func() {
		fire(button, gen)
	})
}

// cancelPending drops the outstanding timer, if any, and invalidates any
// callback that may already be running.
func (c *Classifier) cancelPending(st *buttonState) {
	if st.pending != nil {
		st.pending.Cancel()
		st.pending = nil
	}
	st.gen++
}

// longPressElapsed fires when a button has been held past the threshold.
// The gesture is emitted immediately, while the button is still down; the
// eventual release is consumed without emitting anything further.
func (c *Classifier) longPressElapsed(button string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.states[button]
	if c.stopped || st == nil || st.gen != gen || st.phase != phasePressed {
		return
	}
	st.pending = nil
	st.gen++
	st.phase = phaseAwaitingSecondRelease
	st.doubleOnRelease = false

	c.emit(Gesture{Button: button, Action: ActionLongPress})
}

// doubleWindowElapsed fires when no second press arrived in time.
func (c *Classifier) doubleWindowElapsed(button string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.states[button]
	if c.stopped || st == nil || st.gen != gen || st.phase != phaseAwaitingSecondPress {
		return
	}
	st.pending = nil
	st.gen++
	st.phase = phaseIdle

	c.emit(Gesture{Button: button, Action: ActionSinglePress})
}

// Stop cancels all pending timers. No gesture is emitted after Stop returns.
func (c *Classifier) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	for _, st := range c.states {
		if st.pending != nil {
			st.pending.Cancel()
			st.pending = nil
		}
		st.gen++
	}
}
