package object

import (
	"math"
	"math/rand"
)

// Particle is a short-lived piece of explosion debris. It never takes part
// in collisions.
type Particle struct {
	X, Y    float64 // Position
	VX, VY  float64 // Velocity in units per frame
	Life    int     // Frames remaining
	MaxLife int     // Initial lifetime (for fade calculation)
	Hot     bool    // Drawn in the bright palette
}

// particleDrag is the velocity kept each frame.
const particleDrag = 0.92

// Burst appends count particles flying out of (x, y) in random directions.
// Speed and lifetime vary per particle around the given values.
func Burst(dst []Particle, x, y float64, count int, speed float64, life int, rng *rand.Rand) []Particle {
	for i := 0; i < count; i++ {
		// Random direction
		angle := rng.Float64() * 2 * math.Pi
		// Random speed variation (50% to 150%)
		spd := speed * (0.5 + rng.Float64())
		// Random lifetime variation (50% to 100%)
		l := max(int(float64(life)*(0.5+rng.Float64()*0.5)), 1)

		dst = append(dst, Particle{
			X:       x,
			Y:       y,
			VX:      math.Cos(angle) * spd,
			VY:      math.Sin(angle) * spd,
			Life:    l,
			MaxLife: l,
			Hot:     rng.Intn(2) == 0,
		})
	}
	return dst
}

// Step advances the particle by one frame and reports whether it is still alive.
func (p *Particle) Step() bool {
	p.Life--
	if p.Life <= 0 {
		return false
	}
	p.VX *= particleDrag
	p.VY *= particleDrag
	p.X += p.VX
	p.Y += p.VY
	return true
}

// Fade returns the fraction of the particle's life still remaining.
func (p *Particle) Fade() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return float64(p.Life) / float64(p.MaxLife)
}
