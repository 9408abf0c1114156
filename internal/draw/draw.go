// Package draw renders to ANSI terminals: a half-block pixel canvas scaled
// from logical playfield units, a colour palette, and a chunked writer for
// text overlays.
package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
