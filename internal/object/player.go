package object

import "time"

// Player dimensions.
const (
	PlayerWidth  = 40
	PlayerHeight = 40
)

// Player is the user-controlled craft.
type Player struct {
	X, Y     float64
	Lives    int
	Speed    float64   // units per frame
	LastShot time.Time // zero until the first successful shot
}

// NewPlayer places a player at the start position for the given playfield:
// horizontally centered, 60 units above the bottom edge.
func NewPlayer(s Screen, lives int, speed float64) *Player {
	return &Player{
		X:     s.Width/2 - PlayerWidth/2,
		Y:     s.Height - 60,
		Lives: lives,
		Speed: speed,
	}
}

// Bounds returns the player's box.
func (p *Player) Bounds() Rect {
	return Rect{X: p.X, Y: p.Y, W: PlayerWidth, H: PlayerHeight}
}
