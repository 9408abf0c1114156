// Package object holds the plain entity records of a session: the player,
// enemies, bullets and the background star field.
package object

// Rect is an axis-aligned box in playfield units, origin at its top-left.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// Screen is the size of the logical playfield.
type Screen struct {
	Width  float64
	Height float64
}

// Contains reports whether r lies fully inside the playfield.
func (s Screen) Contains(r Rect) bool {
	return r.X >= 0 && r.Y >= 0 && r.Right() <= s.Width && r.Bottom() <= s.Height
}

// Destructible is implemented by entities that can be marked for removal
// during a collision pass and compacted afterwards.
type Destructible interface {
	// MarkDestroyed marks the entity for removal at the end of the pass.
	MarkDestroyed()
	// IsDestroyed returns true if the entity is marked for destruction.
	IsDestroyed() bool
}
