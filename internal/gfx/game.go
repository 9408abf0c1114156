// Package gfx hosts sessions in an ebiten window or, built for js/wasm, a
// browser canvas. It maps keyboard, mouse and touch to game keys, steps the
// frame loop from ebiten's Update and draws the latest frame in Draw.
package gfx

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/beestrike/internal/audio"
	"github.com/tomz197/beestrike/internal/config"
	"github.com/tomz197/beestrike/internal/input"
	"github.com/tomz197/beestrike/internal/loop"
	tuning "github.com/tomz197/beestrike/internal/loop/config"
	"github.com/tomz197/beestrike/internal/score"
)

type view int

const (
	viewMenu view = iota
	viewPlaying
	viewResults
)

// Options configures a Game.
type Options struct {
	Game   config.Game
	Audio  audio.Player // nil is silent
	Scores score.Store  // nil keeps the high score in memory
	Logger *log.Logger  // nil uses log.Default()
}

// Game implements ebiten.Game.
type Game struct {
	cfg     config.Game
	audio   audio.Player
	scores  score.Store
	logger  *log.Logger
	frames  *loop.FrameLoop
	engine  *loop.Engine
	intents *input.Aggregator
	touch   *input.TouchRouter

	view       view
	last       loop.Frame // what Draw shows
	now        time.Time
	gameOverAt time.Time
	summary    score.Summary
	menuHigh   int
	quit       bool

	touchUsed bool // show on-screen controls once a touch was seen
	touchIDs  []ebiten.TouchID
	tracked   map[ebiten.TouchID]struct{}
	pressed   []input.Key

	art *painter
}

// Compile-time checks.
var (
	_ ebiten.Game   = (*Game)(nil)
	_ loop.Renderer = (*Game)(nil)
)

// New validates opts and returns a game on its title screen.
func New(opts Options) (*Game, error) {
	if err := opts.Game.Validate(); err != nil {
		return nil, err
	}
	g := &Game{
		cfg:     opts.Game,
		audio:   opts.Audio,
		scores:  opts.Scores,
		logger:  opts.Logger,
		frames:  loop.NewFrameLoop(),
		intents: input.NewAggregator(),
		tracked: make(map[ebiten.TouchID]struct{}),
		now:     time.Now(),
		art:     newPainter(),
	}
	if g.audio == nil {
		g.audio = audio.Nop{}
	}
	if g.scores == nil {
		g.scores = &score.MemoryStore{}
	}
	if g.logger == nil {
		g.logger = log.Default()
	}
	g.touch = input.NewTouchRouter(g.intents, input.TouchLayout(g.cfg.Width, g.cfg.Height))

	if err := g.newSession(); err != nil {
		return nil, err
	}
	g.loadMenuHigh()
	return g, nil
}

// Render keeps the engine's frame for the next Draw.
func (g *Game) Render(f loop.Frame) error {
	g.last = f
	return nil
}

// Update reads input and advances the session. It runs at ebiten's tick rate.
func (g *Game) Update() error {
	now := time.Now()
	g.now = now

	g.intents.SetKeys(heldKeys())
	g.pressed = pressedKeys(g.pressed[:0])
	var began bool
	g.pressed, began = g.pollTouches(now, g.pressed)

	// Any tap on the title or results screen starts a session
	if began && g.view != viewPlaying {
		g.pressed = append(g.pressed, input.KeyStart)
	}
	for _, k := range g.pressed {
		g.handleKey(k)
	}
	if g.quit {
		return ebiten.Termination
	}

	g.frames.Step(now)

	if g.engine.Status() != loop.StatusPlaying {
		g.last = loop.Frame{Snapshot: *g.engine.Latest(), Now: now}
	}
	if g.view == viewPlaying && !g.gameOverAt.IsZero() && now.Sub(g.gameOverAt) >= tuning.ResultsDelay {
		g.view = viewResults
	}
	return nil
}

// Layout keeps the logical playfield size; ebiten scales it to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.cfg.Width), int(g.cfg.Height)
}

// Draw paints the last frame and the overlay for the current view.
func (g *Game) Draw(screen *ebiten.Image) {
	g.art.background(screen)
	g.art.stars(screen, g.last.Stars)

	switch g.view {
	case viewMenu:
		g.art.menu(screen, g.menuHigh, g.touchUsed)
	case viewPlaying:
		g.art.playfield(screen, g.last)
		g.art.hud(screen, g.last.State, g.audio.Enabled())
		if g.touchUsed {
			g.art.controls(screen, g.touch.Buttons())
		}
		switch {
		case !g.gameOverAt.IsZero():
			g.art.gameOver(screen, g.summary.Score)
		case g.last.State.Status == loop.StatusPaused:
			g.art.paused(screen)
		}
	case viewResults:
		g.art.results(screen, g.summary, g.blink())
	}
}

func (g *Game) blink() bool {
	return g.now.UnixMilli()/600%2 == 0
}

func (g *Game) handleKey(k input.Key) {
	if k == input.KeyMute {
		g.audio.SetEnabled(!g.audio.Enabled())
		return
	}

	switch g.view {
	case viewMenu:
		switch k {
		case input.KeyStart, input.KeyFire:
			g.startGame()
		case input.KeyQuit:
			g.quit = true
		}
	case viewPlaying:
		switch k {
		case input.KeyPause:
			g.engine.TogglePause()
		case input.KeyQuit:
			g.backToMenu()
		}
	case viewResults:
		switch k {
		case input.KeyStart, input.KeyFire:
			g.startGame()
		case input.KeyQuit:
			g.backToMenu()
		}
	}
}

func (g *Game) newSession() error {
	e, err := loop.NewEngine(loop.Options{
		Game:      g.cfg,
		Scheduler: g.frames,
		Renderer:  g,
		Audio:     g.audio,
		Input:     g.intents,
		Scores:    g.scores,
		Logger:    g.logger,
	})
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}
	e.OnGameOver(func(sum score.Summary) {
		g.summary = sum
		g.gameOverAt = g.now
	})
	if g.engine != nil {
		g.engine.Quit()
	}
	g.engine = e
	g.last = loop.Frame{Snapshot: *e.Latest(), Now: g.now}
	return nil
}

func (g *Game) startGame() {
	if g.engine.Status() != loop.StatusMenu {
		if err := g.newSession(); err != nil {
			g.logger.Error("cannot start session", "err", err)
			return
		}
	}
	g.touch.Reset()
	g.intents.ReleaseAll()
	if err := g.engine.Start(); err != nil {
		g.logger.Error("cannot start session", "err", err)
		return
	}
	g.gameOverAt = time.Time{}
	g.view = viewPlaying
}

func (g *Game) backToMenu() {
	g.engine.Quit()
	if err := g.newSession(); err != nil {
		g.logger.Error("cannot reset session", "err", err)
		g.quit = true
		return
	}
	g.loadMenuHigh()
	g.view = viewMenu
}

func (g *Game) loadMenuHigh() {
	high, err := g.scores.Load()
	if err != nil {
		g.logger.Warn("high score unavailable", "err", err)
	}
	g.menuHigh = high
}

// Close stops the session's music.
func (g *Game) Close() {
	g.engine.Quit()
}
