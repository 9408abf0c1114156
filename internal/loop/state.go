package loop

import (
	"time"

	"github.com/tomz197/beestrike/internal/object"
)

// Status is the session phase.
type Status int

const (
	StatusMenu     Status = iota // Waiting for start
	StatusPlaying                // Frames are scheduled
	StatusPaused                 // Entities kept, no frames scheduled
	StatusGameOver               // Terminal; a new session needs a new Engine
)

func (s Status) String() string {
	switch s {
	case StatusMenu:
		return "menu"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// GameState is the scalar state of one session.
type GameState struct {
	Score     int
	Level     int
	Lives     int // mirrors the player's lives
	Status    Status
	HighScore int // stored record read at session start
}

// Snapshot is a deep copy of a session taken at the end of a tick. It is
// safe to read from any goroutine.
type Snapshot struct {
	State   GameState
	Screen  object.Screen
	Player  object.Player
	Enemies []object.Enemy
	Bullets []object.Bullet
	Stars   []object.Star
	Debris  []object.Particle
	Kills   int
	Played  time.Duration // time spent playing, pauses excluded
}

// Frame is what a Renderer receives each tick.
type Frame struct {
	Snapshot
	Now     time.Time
	Elapsed time.Duration // 0 on the first frame after start or resume
}

// Renderer draws frames. Returned errors are logged and never affect the
// simulation.
type Renderer interface {
	Render(f Frame) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(f Frame) error

func (fn RendererFunc) Render(f Frame) error {
	return fn(f)
}
