package input

import "time"

// Button is an on-screen control in playfield units.
type Button struct {
	Key        Key
	X, Y, W, H float64
	Label      string
}

// Contains reports whether (x, y) is on the button.
func (b Button) Contains(x, y float64) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Touch control geometry.
const (
	padButton  = 56.0
	padGap     = 4.0
	fireButton = 90.0
	edgeMargin = 20.0
)

// TouchLayout places a d-pad bottom-left, a fire button bottom-right and a
// pause button below the HUD on the right.
func TouchLayout(width, height float64) []Button {
	cx := edgeMargin + padButton*1.5 + padGap
	cy := height - edgeMargin - padButton*1.5 - padGap
	half := padButton / 2

	return []Button{
		{Key: KeyUp, X: cx - half, Y: cy - half - padGap - padButton, W: padButton, H: padButton, Label: "^"},
		{Key: KeyDown, X: cx - half, Y: cy + half + padGap, W: padButton, H: padButton, Label: "v"},
		{Key: KeyLeft, X: cx - half - padGap - padButton, Y: cy - half, W: padButton, H: padButton, Label: "<"},
		{Key: KeyRight, X: cx + half + padGap, Y: cy - half, W: padButton, H: padButton, Label: ">"},
		{Key: KeyFire, X: width - edgeMargin - fireButton, Y: height - edgeMargin - fireButton, W: fireButton, H: fireButton, Label: "FIRE"},
		{Key: KeyPause, X: width - edgeMargin - 40, Y: 50, W: 40, H: 40, Label: "II"},
	}
}

// TouchRouter assigns each touch either to the button it started on or,
// for the first touch off the buttons, to the swipe gesture.
type TouchRouter struct {
	agg     *Aggregator
	buttons []Button
	owned   map[int]Key
	swipeID int
	swiping bool
}

// NewTouchRouter routes touches into agg.
func NewTouchRouter(agg *Aggregator, buttons []Button) *TouchRouter {
	return &TouchRouter{
		agg:     agg,
		buttons: buttons,
		owned:   make(map[int]Key),
	}
}

// Buttons returns the current layout.
func (r *TouchRouter) Buttons() []Button {
	return r.buttons
}

// Begin starts tracking touch id at (x, y). It returns the button key when
// the touch landed on a control.
func (r *TouchRouter) Begin(id int, x, y float64) (Key, bool) {
	for _, b := range r.buttons {
		if b.Contains(x, y) {
			r.owned[id] = b.Key
			r.agg.Press(b.Key)
			return b.Key, true
		}
	}
	if !r.swiping {
		r.swiping = true
		r.swipeID = id
		r.agg.BeginSwipe(x, y)
	}
	return 0, false
}

// Move updates the position of touch id.
func (r *TouchRouter) Move(id int, x, y float64) {
	if r.swiping && id == r.swipeID {
		r.agg.MoveSwipe(x, y)
	}
}

// End releases touch id.
func (r *TouchRouter) End(id int, now time.Time) {
	if k, ok := r.owned[id]; ok {
		delete(r.owned, id)
		for _, other := range r.owned {
			if other == k {
				return
			}
		}
		r.agg.Release(k)
		return
	}
	if r.swiping && id == r.swipeID {
		r.swiping = false
		r.agg.EndSwipe(now)
	}
}

// Tracking reports whether touch id is being routed.
func (r *TouchRouter) Tracking(id int) bool {
	_, ok := r.owned[id]
	return ok || (r.swiping && id == r.swipeID)
}

// Reset forgets every touch and releases what they held.
func (r *TouchRouter) Reset() {
	for id, k := range r.owned {
		r.agg.Release(k)
		delete(r.owned, id)
	}
	r.swiping = false
}
