package hardware

import (
	"sync"
	"time"
)

// LongPressDetector turns press/release edges of a momentary button into a
// single event per press-and-hold. The event fires once the button has been
// held for the hold duration and will not fire again until the button is
// released and pressed anew.
type LongPressDetector struct {
	mu        sync.Mutex
	hold      time.Duration
	pressed   bool
	fired     bool
	pressedAt time.Time
}

// NewLongPressDetector returns a detector with the given hold threshold.
func NewLongPressDetector(hold time.Duration) *LongPressDetector {
	return &LongPressDetector{hold: hold}
}

// Press records a press edge at t. Repeated press edges while already
// pressed are ignored (contact bounce).
func (d *LongPressDetector) Press(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pressed {
		return
	}
	d.pressed = true
	d.fired = false
	d.pressedAt = t
}

// Release records a release edge and re-arms the detector.
func (d *LongPressDetector) Release(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pressed = false
	d.fired = false
}

// Check reports whether a long press has completed by now. It returns true
// exactly once per press-and-hold.
func (d *LongPressDetector) Check(now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.pressed || d.fired {
		return false
	}
	if now.Sub(d.pressedAt) < d.hold {
		return false
	}
	d.fired = true
	return true
}
