package object

import "math/rand"

// Star is a decorative background point.
type Star struct {
	X, Y float64
	Size float64 // 1..3
}

// NewStarField scatters n stars uniformly over the playfield.
func NewStarField(n int, s Screen, rng *rand.Rand) []Star {
	stars := make([]Star, n)
	for i := range stars {
		stars[i] = Star{
			X:    rng.Float64() * s.Width,
			Y:    rng.Float64() * s.Height,
			Size: rng.Float64()*2 + 1,
		}
	}
	return stars
}

// Drift moves every star down by dy, wrapping stars that leave the bottom
// edge back to the top at a fresh random x.
func Drift(stars []Star, dy float64, s Screen, rng *rand.Rand) {
	for i := range stars {
		stars[i].Y += dy
		if stars[i].Y > s.Height {
			stars[i].Y = 0
			stars[i].X = rng.Float64() * s.Width
		}
	}
}
