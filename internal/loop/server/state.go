package server

import (
	"github.com/tomz197/beestrike/internal/loop"
)

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Live     bool   `json:"live"` // the score belongs to a session still in progress
	joined   int    // Used for deterministic tie-break when scores are equal
}

// ClientHandle represents a client's registration with the hub.
type ClientHandle struct {
	ID       string           // uuid, also used to correlate log lines
	Username string           // Display name for this client
	EventsCh chan ClientEvent // Events sent to client; closed on unregister

	engine *loop.Engine // current session, nil between sessions
	best   int          // best finished score this connection
	joined int
}

// ClientEvent represents an event sent from the hub to a client.
type ClientEvent struct {
	Type     ClientEventType
	Username string // For record events
	Score    int    // For record events
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventNewRecord                      // another player beat the stored high score
)

func (t ClientEventType) String() string {
	switch t {
	case EventServerShutdown:
		return "server_shutdown"
	case EventNewRecord:
		return "new_record"
	default:
		return "unknown"
	}
}

// score returns the best score to show for this client: the live session's
// score if it is higher than anything finished.
func (h *ClientHandle) score() (int, bool) {
	if h.engine != nil {
		if snap := h.engine.Latest(); snap != nil && snap.State.Score > h.best {
			return snap.State.Score, snap.State.Status != loop.StatusGameOver
		}
	}
	return h.best, false
}
