package client

import (
	"time"

	"github.com/tomz197/beestrike/internal/score"
)

// Screen is the view the client is showing.
type Screen int

const (
	ScreenMenu     Screen = iota // Title screen with stored high score
	ScreenPlaying                // Session in progress, paused, or in its gameover overlay
	ScreenResults                // Summary of the last session
	ScreenShutdown               // Server is shutting down
)

// ClientState holds per-connection state that outlives a single session.
type ClientState struct {
	Screen      Screen
	Running     bool          // Client loop running
	now         time.Time     // Start of the current host frame
	shutdownAt  time.Time     // When the shutdown notice arrived
	isInactive  bool          // Whether the client is in inactive warning state
	gameOverAt  time.Time     // When the current session ended, zero while it runs
	summary     score.Summary // Result of the last finished session
	menuHigh    int           // Stored high score shown on the title screen
	banner      string        // Transient notice shown in the HUD
	bannerUntil time.Time
	rendered    bool // The engine drew the playfield during this host frame

	// What the terminal showed last frame, to detect full-clear transitions
	prevScreen  Screen
	prevPaused  bool
	prevOver    bool
	wasInactive bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Screen:     ScreenMenu,
		Running:    true,
		prevScreen: -1,
	}
}
