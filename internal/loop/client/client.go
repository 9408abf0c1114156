// Package client hosts game sessions on a terminal: it reads keys, steps the
// frame loop, and draws the playfield with menu, HUD and results overlays.
// Local play and every SSH connection each run one Client.
package client

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/beestrike/internal/audio"
	"github.com/tomz197/beestrike/internal/config"
	"github.com/tomz197/beestrike/internal/draw"
	"github.com/tomz197/beestrike/internal/input"
	"github.com/tomz197/beestrike/internal/loop"
	tuning "github.com/tomz197/beestrike/internal/loop/config"
	"github.com/tomz197/beestrike/internal/loop/server"
	"github.com/tomz197/beestrike/internal/score"
)

// bannerDuration is how long hub notices stay in the HUD.
const bannerDuration = 5 * time.Second

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer // nil for local play
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	overlay      *draw.Overlay // one frame of canvas output plus text
	writer       io.Writer
	inputStream  *input.Stream
	intents      *input.Aggregator
	frames       *loop.FrameLoop
	engine       *loop.Engine
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	game         config.Game
	audio        audio.Player
	scores       score.Store
	logger       *log.Logger
}

// Compile-time check that Client draws engine frames.
var _ loop.Renderer = (*Client)(nil)

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Game         config.Game  // zero value uses config.Default().Game
	Audio        audio.Player // nil is silent
	Scores       score.Store  // nil keeps the high score in memory
	Logger       *log.Logger  // nil uses log.Default()
}

// NewClient creates a client showing the title screen. gs may be nil for
// local play; otherwise the client registers with it.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	game := opts.Game
	if game == (config.Game{}) {
		game = config.Default().Game
	}
	if err := game.Validate(); err != nil {
		return nil, err
	}
	player := opts.Audio
	if player == nil {
		player = audio.Nop{}
	}
	scores := opts.Scores
	if scores == nil {
		scores = &score.MemoryStore{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, game.Width, game.Height)
	canvas.SetOffset(offsetCol, offsetRow)

	c := &Client{
		server:       gs,
		state:        NewClientState(),
		canvas:       canvas,
		overlay:      draw.NewOverlay(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		intents:      input.NewAggregator(),
		frames:       loop.NewFrameLoop(),
		lastInput:    time.Now(),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		game:         game,
		audio:        player,
		scores:       scores,
		logger:       logger,
	}
	if gs != nil {
		c.handle = gs.RegisterClient(opts.Username)
		c.username = c.handle.Username
		c.logger = logger.With("id", c.handle.ID)
	}
	if err := c.newSession(); err != nil {
		if gs != nil {
			gs.UnregisterClient(c.handle.ID)
		}
		return nil, err
	}
	c.loadMenuHigh()
	return c, nil
}

// Run starts the client loop. Blocks until the player quits, the input
// stream closes or Stop is called.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.close()

	for c.state.Running {
		frameStart := time.Now()
		c.state.now = frameStart
		c.state.rendered = false

		c.processInput(frameStart)
		c.processServerEvents()
		c.updateScreen()

		// Posted tasks and the engine's frame run here
		c.frames.Step(frameStart)
		if !c.state.Running {
			break
		}

		switch c.state.Screen {
		case ScreenPlaying:
			c.updatePlayingState(frameStart)
		case ScreenShutdown:
			c.updateShutdownState(frameStart)
		}

		if err := c.drawFrame(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < tuning.ClientTargetFrameTime {
			time.Sleep(tuning.ClientTargetFrameTime - elapsed)
		}
	}
	return nil
}

// Stop asks Run to return after the current frame. Safe for concurrent use.
func (c *Client) Stop() {
	c.frames.Post(func() {
		c.state.Running = false
	})
}

// close ends the session and leaves the hub.
func (c *Client) close() {
	c.engine.Quit()
	if c.server != nil {
		c.server.UnregisterClient(c.handle.ID)
	}
	draw.ClearScreen(c.writer)
}

// processInput reads keys, feeds the intent aggregator and handles
// edge-triggered actions.
func (c *Client) processInput(now time.Time) {
	poll := c.inputStream.Poll(now)
	if c.inputStream.Closed() {
		c.state.Running = false
		return
	}

	if len(poll.Raw) > 0 {
		c.lastInput = now
		c.state.isInactive = false
	} else if c.server != nil {
		idle := now.Sub(c.lastInput).Seconds()
		if idle > tuning.InactivityDisconnectUser {
			c.logger.Info("disconnecting inactive client", "user", c.username)
			c.state.Running = false
			return
		} else if idle > tuning.InactivityWarnUser {
			c.state.isInactive = true
		}
	}

	c.intents.SetKeys(poll.Held)
	for _, k := range poll.Pressed {
		c.handleKey(k)
	}
}

// handleKey reacts to a key going down.
func (c *Client) handleKey(k input.Key) {
	if k == input.KeyMute {
		c.audio.SetEnabled(!c.audio.Enabled())
		return
	}

	switch c.state.Screen {
	case ScreenMenu:
		switch k {
		case input.KeyStart, input.KeyFire:
			c.startGame()
		case input.KeyQuit:
			c.state.Running = false
		}
	case ScreenPlaying:
		switch k {
		case input.KeyPause:
			c.engine.TogglePause()
		case input.KeyQuit:
			c.backToMenu()
		}
	case ScreenResults:
		switch k {
		case input.KeyStart, input.KeyFire:
			c.startGame()
		case input.KeyQuit:
			c.backToMenu()
		}
	case ScreenShutdown:
		if k == input.KeyQuit {
			c.state.Running = false
		}
	}
}

// processServerEvents handles events from the hub.
func (c *Client) processServerEvents() {
	if c.handle == nil {
		return
	}
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Hub closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.engine.Quit()
				c.state.Screen = ScreenShutdown
				c.state.shutdownAt = c.state.now
			case server.EventNewRecord:
				c.state.banner = fmt.Sprintf("%s set a new record: %d", event.Username, event.Score)
				c.state.bannerUntil = c.state.now.Add(bannerDuration)
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.overlay.SetOrigin(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(max(termWidth, 1), tuning.MaxTermWidth)
	renderHeight = min(max(termHeight, 1), tuning.MaxTermHeight)
	offsetCol = max(termWidth-renderWidth, 0) / 2
	offsetRow = max(termHeight-renderHeight, 0) / 2
	return
}

// newSession replaces the engine with a fresh one in its menu state.
func (c *Client) newSession() error {
	e, err := loop.NewEngine(loop.Options{
		Game:      c.game,
		Scheduler: c.frames,
		Renderer:  c,
		Audio:     c.audio,
		Input:     c.intents,
		Scores:    c.scores,
		Logger:    c.logger,
	})
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}
	e.OnGameOver(c.onGameOver)

	if c.engine != nil {
		c.engine.Quit()
	}
	c.engine = e
	if c.server != nil {
		c.server.Attach(c.handle.ID, e)
	}
	return nil
}

// startGame starts a session, replacing a finished one first.
func (c *Client) startGame() {
	if c.engine.Status() != loop.StatusMenu {
		if err := c.newSession(); err != nil {
			c.logger.Error("cannot start session", "err", err)
			c.state.Running = false
			return
		}
	}

	c.inputStream.Reset()
	c.intents.ReleaseAll()
	if err := c.engine.Start(); err != nil {
		c.logger.Error("cannot start session", "err", err)
		return
	}
	c.state.gameOverAt = time.Time{}
	c.state.Screen = ScreenPlaying
	c.logger.Debug("session started", "user", c.username)
}

// backToMenu abandons the current session and shows the title screen.
func (c *Client) backToMenu() {
	c.engine.Quit()
	if err := c.newSession(); err != nil {
		c.logger.Error("cannot reset session", "err", err)
		c.state.Running = false
		return
	}
	c.loadMenuHigh()
	c.state.Screen = ScreenMenu
}

func (c *Client) loadMenuHigh() {
	high, err := c.scores.Load()
	if err != nil {
		c.logger.Warn("high score unavailable", "err", err)
	}
	c.state.menuHigh = high
}

// onGameOver runs inside the engine's frame when the player is out of lives.
func (c *Client) onGameOver(sum score.Summary) {
	c.state.summary = sum
	c.state.gameOverAt = c.state.now
	if c.server != nil {
		c.server.ReportResult(c.handle.ID, sum)
	}
}

// updatePlayingState moves on to the results once the gameover overlay has
// been shown long enough.
func (c *Client) updatePlayingState(now time.Time) {
	if !c.state.gameOverAt.IsZero() && now.Sub(c.state.gameOverAt) >= tuning.ResultsDelay {
		c.state.Screen = ScreenResults
	}
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState(now time.Time) {
	if now.Sub(c.state.shutdownAt).Seconds() >= tuning.ShutdownDisplaySeconds {
		c.state.Running = false
	}
}
