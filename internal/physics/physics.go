// Package physics provides collision detection for axis-aligned boxes.
package physics

import "github.com/tomz197/beestrike/internal/object"

// Overlaps reports whether two boxes intersect. Boxes that only touch along
// an edge do not overlap.
func Overlaps(a, b object.Rect) bool {
	return a.X < b.X+b.W &&
		a.X+a.W > b.X &&
		a.Y < b.Y+b.H &&
		a.Y+a.H > b.Y
}

// FirstOverlap returns the index of the first box in boxes that overlaps r and
// for which skip returns false, or -1.
func FirstOverlap(r object.Rect, boxes []object.Rect, skip func(int) bool) int {
	for i, b := range boxes {
		if skip != nil && skip(i) {
			continue
		}
		if Overlaps(r, b) {
			return i
		}
	}
	return -1
}
