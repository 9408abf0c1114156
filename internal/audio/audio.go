// Package audio plays the game's sound cues and background music.
package audio

import "fmt"

// Cue names a one-shot sound effect.
type Cue int

const (
	CueShoot Cue = iota
	CueExplosion
	CueEnemyHit
	CuePlayerHit
	CueLevelUp
	CueGameOver
)

func (c Cue) String() string {
	switch c {
	case CueShoot:
		return "shoot"
	case CueExplosion:
		return "explosion"
	case CueEnemyHit:
		return "enemyHit"
	case CuePlayerHit:
		return "playerHit"
	case CueLevelUp:
		return "levelUp"
	case CueGameOver:
		return "gameOver"
	default:
		return fmt.Sprintf("Cue(%d)", int(c))
	}
}

// Player is the audio collaborator used by the engine. Every method is
// fire-and-forget and must never block the caller.
type Player interface {
	Play(c Cue)
	StartMusic()
	PauseMusic()
	StopMusic()
	SetEnabled(enabled bool)
	Enabled() bool
}

// Nop is a silent Player for hosts without audio output.
type Nop struct{}

func (Nop) Play(Cue)        {}
func (Nop) StartMusic()     {}
func (Nop) PauseMusic()     {}
func (Nop) StopMusic()      {}
func (Nop) SetEnabled(bool) {}
func (Nop) Enabled() bool   { return false }

var (
	_ Player = Nop{}
	_ Player = (*SoundManager)(nil)
)
