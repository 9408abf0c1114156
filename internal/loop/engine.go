// Package loop runs one game session: it schedules frames, advances the
// simulation, resolves collisions and drives the menu/playing/paused/gameover
// state machine.
package loop

import (
	"errors"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/beestrike/internal/audio"
	"github.com/tomz197/beestrike/internal/config"
	"github.com/tomz197/beestrike/internal/input"
	tuning "github.com/tomz197/beestrike/internal/loop/config"
	"github.com/tomz197/beestrike/internal/object"
	"github.com/tomz197/beestrike/internal/physics"
	"github.com/tomz197/beestrike/internal/score"
)

var (
	// ErrNoSurface is returned by NewEngine when there is nothing to draw on.
	ErrNoSurface = errors.New("loop: no rendering surface")
	// ErrNoScheduler is returned by NewEngine without a frame scheduler.
	ErrNoScheduler = errors.New("loop: no frame scheduler")
	// ErrInvalidTransition is returned when an action is not allowed in the
	// current status.
	ErrInvalidTransition = errors.New("loop: invalid state transition")
)

// IntentSource yields the merged player intent for a tick.
type IntentSource interface {
	Intent(now time.Time) input.Intent
}

type noIntent struct{}

func (noIntent) Intent(time.Time) input.Intent { return input.Intent{} }

// Options configures an Engine. Scheduler and Renderer are required.
type Options struct {
	Game      config.Game
	Scheduler Scheduler
	Renderer  Renderer
	Audio     audio.Player // nil plays nothing
	Input     IntentSource // nil means no input
	Scores    score.Store  // nil keeps scores in memory
	Rand      *rand.Rand   // nil seeds from the clock
	Logger    *log.Logger  // nil uses log.Default()
}

// Engine owns every entity of one session. All methods except Latest must be
// called from the goroutine that steps the Scheduler.
type Engine struct {
	cfg      config.Game
	screen   object.Screen
	sched    Scheduler
	renderer Renderer
	audio    audio.Player
	input    IntentSource
	scores   score.Store
	rng      *rand.Rand
	fx       *rand.Rand // debris only
	logger   *log.Logger

	state   GameState
	player  *object.Player
	enemies []*object.Enemy
	bullets []*object.Bullet
	stars   []object.Star
	debris  []object.Particle
	grid    *physics.Grid
	boxes   []object.Rect

	frameID   FrameID
	lastFrame time.Time // zero until the first frame after start or resume
	kills     int
	played    time.Duration

	listeners   []func(score.Summary)
	summary     *score.Summary
	renderFails bool

	latest atomic.Pointer[Snapshot]
}

// NewEngine validates opts and returns an engine in StatusMenu.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Renderer == nil {
		return nil, ErrNoSurface
	}
	if opts.Scheduler == nil {
		return nil, ErrNoScheduler
	}
	if err := opts.Game.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      opts.Game,
		screen:   object.Screen{Width: opts.Game.Width, Height: opts.Game.Height},
		sched:    opts.Scheduler,
		renderer: opts.Renderer,
		audio:    opts.Audio,
		input:    opts.Input,
		scores:   opts.Scores,
		rng:      opts.Rand,
		logger:   opts.Logger,
	}
	if e.audio == nil {
		e.audio = audio.Nop{}
	}
	if e.input == nil {
		e.input = noIntent{}
	}
	if e.scores == nil {
		e.scores = &score.MemoryStore{}
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.logger == nil {
		e.logger = log.Default()
	}

	e.state = GameState{Level: 1, Lives: e.cfg.InitialLives, Status: StatusMenu}
	e.player = object.NewPlayer(e.screen, e.cfg.InitialLives, e.cfg.PlayerSpeed)
	e.stars = object.NewStarField(e.cfg.StarCount, e.screen, e.rng)
	e.fx = rand.New(rand.NewSource(e.rng.Int63()))
	e.grid = physics.NewGrid(e.screen.Width, e.screen.Height, tuning.CollisionCell)
	e.publish()
	return e, nil
}

// Start begins the session: menu -> playing.
func (e *Engine) Start() error {
	if e.state.Status != StatusMenu {
		return ErrInvalidTransition
	}

	high, err := e.scores.Load()
	if err != nil {
		e.logger.Warn("high score unavailable", "err", err)
		high = 0
	}

	e.state = GameState{
		Score:     0,
		Level:     1,
		Lives:     e.cfg.InitialLives,
		Status:    StatusPlaying,
		HighScore: high,
	}
	e.player = object.NewPlayer(e.screen, e.cfg.InitialLives, e.cfg.PlayerSpeed)
	e.enemies = nil
	e.bullets = nil
	e.debris = nil
	e.kills = 0
	e.played = 0
	e.lastFrame = time.Time{}

	e.audio.StartMusic()
	e.frameID = e.sched.RequestFrame(e.frame)
	e.publish()
	e.logger.Debug("session started", "high_score", high)
	return nil
}

// TogglePause switches between playing and paused. Other states are left alone.
func (e *Engine) TogglePause() {
	switch e.state.Status {
	case StatusPlaying:
		e.cancelFrame()
		e.state.Status = StatusPaused
		e.audio.PauseMusic()
	case StatusPaused:
		e.state.Status = StatusPlaying
		e.lastFrame = time.Time{}
		e.audio.StartMusic()
		e.frameID = e.sched.RequestFrame(e.frame)
	default:
		return
	}
	e.publish()
}

// Quit abandons the session without recording a score or notifying
// game-over listeners.
func (e *Engine) Quit() {
	if e.state.Status == StatusGameOver {
		return
	}
	e.cancelFrame()
	e.audio.StopMusic()
	e.state.Status = StatusGameOver
	e.publish()
}

// OnGameOver registers fn to receive the summary when the player runs out of
// lives. Listeners run on the stepping goroutine, once per session.
func (e *Engine) OnGameOver(fn func(score.Summary)) {
	e.listeners = append(e.listeners, fn)
}

// Status returns the current phase.
func (e *Engine) Status() Status {
	return e.state.Status
}

// State returns the scalar game state.
func (e *Engine) State() GameState {
	return e.state
}

// Summary returns the results of a session that ended by losing all lives.
func (e *Engine) Summary() (score.Summary, bool) {
	if e.summary == nil {
		return score.Summary{}, false
	}
	return *e.summary, true
}

// Snapshot returns a deep copy of the live session.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		State:   e.state,
		Screen:  e.screen,
		Player:  *e.player,
		Enemies: make([]object.Enemy, len(e.enemies)),
		Bullets: make([]object.Bullet, len(e.bullets)),
		Stars:   make([]object.Star, len(e.stars)),
		Debris:  make([]object.Particle, len(e.debris)),
		Kills:   e.kills,
		Played:  e.played,
	}
	for i, en := range e.enemies {
		s.Enemies[i] = *en
	}
	for i, b := range e.bullets {
		s.Bullets[i] = *b
	}
	copy(s.Stars, e.stars)
	copy(s.Debris, e.debris)
	return s
}

// Latest returns the snapshot published at the end of the most recent tick
// or transition. Safe for concurrent use.
func (e *Engine) Latest() *Snapshot {
	return e.latest.Load()
}

func (e *Engine) publish() {
	s := e.Snapshot()
	e.latest.Store(&s)
}

func (e *Engine) cancelFrame() {
	e.sched.CancelFrame(e.frameID)
	e.frameID = 0
}

// frame is the scheduled per-tick callback.
func (e *Engine) frame(now time.Time) {
	e.frameID = 0
	if e.state.Status != StatusPlaying {
		return
	}

	var elapsed time.Duration
	if !e.lastFrame.IsZero() {
		elapsed = now.Sub(e.lastFrame)
	}
	e.lastFrame = now
	e.played += elapsed

	e.tick(now)
	e.publish()
	e.render(now, elapsed)

	if e.state.Status == StatusPlaying {
		e.frameID = e.sched.RequestFrame(e.frame)
	}
}

// tick advances the simulation by one step.
func (e *Engine) tick(now time.Time) {
	intent := e.input.Intent(now)

	e.movePlayer(intent)
	if intent.Shoot {
		e.tryFire(now)
	}
	e.advanceBullets()
	e.advanceEnemies()
	e.spawn()
	e.resolveCollisions()

	if e.player.Lives <= 0 {
		e.endSession()
	}

	object.Drift(e.stars, tuning.StarDrift, e.screen, e.rng)
	e.advanceDebris()
}

func (e *Engine) render(now time.Time, elapsed time.Duration) {
	err := e.renderer.Render(Frame{Snapshot: *e.Latest(), Now: now, Elapsed: elapsed})
	switch {
	case err != nil && !e.renderFails:
		e.logger.Error("render failed", "err", err)
		e.renderFails = true
	case err == nil && e.renderFails:
		e.logger.Info("render recovered")
		e.renderFails = false
	}
}

// endSession performs the automatic playing -> gameover transition.
func (e *Engine) endSession() {
	if e.state.Status != StatusPlaying {
		return
	}
	e.cancelFrame()
	e.state.Status = StatusGameOver
	e.audio.Play(audio.CueGameOver)
	e.audio.StopMusic()

	stats := score.Stats{Kills: e.kills, Level: e.state.Level, Duration: e.played}
	sum, err := score.Record(e.scores, e.state.Score, stats)
	if err != nil {
		e.logger.Warn("high score not saved", "err", err)
	}
	e.state.HighScore = sum.HighScore
	e.summary = &sum
	e.logger.Debug("session over", "score", sum.Score, "level", stats.Level, "record", sum.NewRecord)

	for _, fn := range e.listeners {
		fn(sum)
	}
}
