// Package config centralizes gameplay and host tuning that is not exposed
// through the user configuration file.
package config

import "time"

// Difficulty
const (
	LevelScoreStep = 1000 // level n ends once score exceeds n*LevelScoreStep
	LevelScaling   = 0.1  // spawn chance and enemy speed grow by this per level
)

// Background
const (
	StarDrift = 0.5 // units per frame
)

// Collision broad phase, sized to the largest enemy
const CollisionCell = 80.0

// Results
const (
	ResultsDelay = 2 * time.Second // gameover overlay before the results view
)

// Terminal rendering. Larger terminals are letterboxed.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 60
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Session hub
const (
	LeaderboardRefresh = 250 * time.Millisecond
	LeaderboardSize    = 5
)

// Explosion debris
const (
	DebrisBase      = 6   // particles per enemy kill
	DebrisPerHealth = 4   // extra particles per point of enemy base health
	DebrisPlayerHit = 20  // particles when an enemy rams the player
	DebrisSpeed     = 3.0 // units per frame
	DebrisLife      = 30  // frames
)
