// Package server is the hub shared by every SSH session. Each session runs its
// own engine; the hub only tracks who is connected, keeps a live leaderboard
// and broadcasts shutdown and record notices.
package server

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/beestrike/internal/loop"
	"github.com/tomz197/beestrike/internal/loop/config"
	"github.com/tomz197/beestrike/internal/score"
)

// GameServer is the interface clients use to communicate with the hub.
// Decouples the Client from the concrete Server implementation, enabling
// local play without a hub and testing.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID string)
	Attach(clientID string, e *loop.Engine)
	ReportResult(clientID string, sum score.Summary)
	TopScores() []TopScoreEntry
	Players() int
}

// Server manages the client registry and the leaderboard.
type Server struct {
	mu         sync.RWMutex
	clients    map[string]*ClientHandle
	nextJoined int
	top        atomic.Pointer[[]TopScoreEntry]
	logger     *log.Logger
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// NewServer creates a new hub. A nil logger uses log.Default().
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		clients: make(map[string]*ClientHandle),
		logger:  logger,
	}
	empty := []TopScoreEntry{}
	s.top.Store(&empty)
	return s
}

// Run refreshes the leaderboard until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(config.LeaderboardRefresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh()
		}
	}
}

// Shutdown gracefully shuts down the hub by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the Run context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	// Notify all connected clients about the shutdown
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "remaining", s.Players())
			return
		case <-ticker.C:
			if s.Players() == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	username = displayName(username)

	s.mu.Lock()
	handle := &ClientHandle{
		ID:       uuid.NewString(),
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
		joined:   s.nextJoined,
	}
	s.nextJoined++
	s.clients[handle.ID] = handle
	s.mu.Unlock()

	s.logger.Info("client registered", "user", username, "id", handle.ID)
	return handle
}

// displayName makes a client-supplied name safe to print on other players'
// terminals: invalid UTF-8 and non-printable runes are dropped and the rest
// is cut to MaxUsernameLength runes.
func displayName(name string) string {
	runes := make([]rune, 0, config.MaxUsernameLength)
	for _, r := range strings.ToValidUTF8(name, "") {
		if !unicode.IsPrint(r) {
			continue
		}
		runes = append(runes, r)
		if len(runes) == config.MaxUsernameLength {
			break
		}
	}
	if len(runes) == 0 {
		return "pilot"
	}
	return string(runes)
}

// UnregisterClient removes a client from the hub and closes its event channel.
func (s *Server) UnregisterClient(clientID string) {
	s.mu.Lock()
	handle, ok := s.clients[clientID]
	if ok {
		close(handle.EventsCh)
		delete(s.clients, clientID)
	}
	s.mu.Unlock()

	if ok {
		s.logger.Info("client unregistered", "user", handle.Username, "id", clientID)
		s.refresh()
	}
}

// Attach binds the client's current session so its live score shows on the
// leaderboard.
func (s *Server) Attach(clientID string, e *loop.Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if handle, ok := s.clients[clientID]; ok {
		handle.engine = e
	}
}

// ReportResult records a finished session. A new stored record is announced
// to every other client.
func (s *Server) ReportResult(clientID string, sum score.Summary) {
	s.mu.Lock()
	handle, ok := s.clients[clientID]
	if !ok {
		s.mu.Unlock()
		return
	}
	handle.best = max(handle.best, sum.Score)
	s.mu.Unlock()

	s.logger.Info("session finished", "user", handle.Username, "id", clientID,
		"score", sum.Score, "level", sum.Stats.Level, "record", sum.NewRecord)

	if sum.NewRecord {
		s.broadcast(clientID, ClientEvent{Type: EventNewRecord, Username: handle.Username, Score: sum.Score})
	}
	s.refresh()
}

// TopScores returns the most recent leaderboard, best first.
func (s *Server) TopScores() []TopScoreEntry {
	return *s.top.Load()
}

// Players returns the number of connected clients.
func (s *Server) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// broadcast sends ev to every client except the one with id skip.
// Slow clients miss the event rather than block the sender.
func (s *Server) broadcast(skip string, ev ClientEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, handle := range s.clients {
		if id == skip {
			continue
		}
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

// refresh rebuilds the leaderboard from finished results and the latest
// snapshot of every attached session.
func (s *Server) refresh() {
	s.mu.RLock()
	entries := make([]TopScoreEntry, 0, len(s.clients))
	for _, handle := range s.clients {
		sc, live := handle.score()
		if sc <= 0 {
			continue
		}
		entries = append(entries, TopScoreEntry{
			Username: handle.Username,
			Score:    sc,
			Live:     live,
			joined:   handle.joined,
		})
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].joined < entries[j].joined
	})
	if len(entries) > config.LeaderboardSize {
		entries = entries[:config.LeaderboardSize]
	}
	s.top.Store(&entries)
}
