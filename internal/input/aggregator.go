package input

import (
	"math"
	"time"
)

const (
	// SwipeThreshold is the minimum drag distance, in touch units, on the
	// dominant axis before a swipe asserts a direction.
	SwipeThreshold = 10.0
	// TapPulse is how long a tap keeps Shoot asserted.
	TapPulse = 100 * time.Millisecond
)

// Aggregator merges held keys, on-screen controls and swipe gestures into
// one Intent per tick. It is not safe for concurrent use; the goroutine that
// drives the game loop owns it.
type Aggregator struct {
	keys     KeySet
	controls KeySet
	swipe    gesture
	tapUntil time.Time
}

// NewAggregator returns an aggregator with nothing asserted.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// SetKeys replaces the set of physically held keys.
func (a *Aggregator) SetKeys(held KeySet) {
	a.keys = held
}

// Press asserts a virtual control (on-screen button).
func (a *Aggregator) Press(k Key) {
	a.controls = a.controls.With(k)
}

// Release clears a virtual control.
func (a *Aggregator) Release(k Key) {
	a.controls = a.controls.Without(k)
}

// ReleaseAll clears every source.
func (a *Aggregator) ReleaseAll() {
	a.keys = 0
	a.controls = 0
	a.swipe = gesture{}
	a.tapUntil = time.Time{}
}

// BeginSwipe starts tracking a drag at (x, y).
func (a *Aggregator) BeginSwipe(x, y float64) {
	a.swipe = gesture{active: true, startX: x, startY: y, x: x, y: y}
}

// MoveSwipe updates the current drag position.
func (a *Aggregator) MoveSwipe(x, y float64) {
	if !a.swipe.active {
		return
	}
	a.swipe.x, a.swipe.y = x, y
	dx, dy := a.swipe.delta()
	if math.Abs(dx) >= SwipeThreshold || math.Abs(dy) >= SwipeThreshold {
		a.swipe.moved = true
	}
}

// EndSwipe releases the drag. A drag that never left the threshold is a tap
// and asserts Shoot for TapPulse.
func (a *Aggregator) EndSwipe(now time.Time) {
	if !a.swipe.active {
		return
	}
	if !a.swipe.moved {
		a.tapUntil = now.Add(TapPulse)
	}
	a.swipe = gesture{}
}

// Intent computes the effective intent at now as the OR of every source.
func (a *Aggregator) Intent(now time.Time) Intent {
	merged := a.keys | a.controls | a.swipe.direction()
	in := intentOf(merged)
	if now.Before(a.tapUntil) {
		in.Shoot = true
	}
	return in
}

type gesture struct {
	active         bool
	moved          bool
	startX, startY float64
	x, y           float64
}

func (g gesture) delta() (float64, float64) {
	return g.x - g.startX, g.y - g.startY
}

// direction asserts only the dominant axis of the drag.
func (g gesture) direction() KeySet {
	if !g.active {
		return 0
	}
	dx, dy := g.delta()
	ax, ay := math.Abs(dx), math.Abs(dy)
	if ax < SwipeThreshold && ay < SwipeThreshold {
		return 0
	}
	if ax > ay {
		if dx > 0 {
			return KeySet(0).With(KeyRight)
		}
		return KeySet(0).With(KeyLeft)
	}
	if dy > 0 {
		return KeySet(0).With(KeyDown)
	}
	return KeySet(0).With(KeyUp)
}
