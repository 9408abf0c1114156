package loop

import (
	"errors"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/beestrike/internal/audio"
	"github.com/tomz197/beestrike/internal/config"
	"github.com/tomz197/beestrike/internal/input"
	tuning "github.com/tomz197/beestrike/internal/loop/config"
	"github.com/tomz197/beestrike/internal/object"
	"github.com/tomz197/beestrike/internal/score"
)

const frameStep = 16 * time.Millisecond

type frameRecorder struct {
	frames []Frame
	err    error
}

func (r *frameRecorder) Render(f Frame) error {
	r.frames = append(r.frames, f)
	return r.err
}

type cueRecorder struct {
	audio.Nop
	cues []audio.Cue
}

func (c *cueRecorder) Play(cue audio.Cue) {
	c.cues = append(c.cues, cue)
}

func (c *cueRecorder) count(cue audio.Cue) int {
	n := 0
	for _, got := range c.cues {
		if got == cue {
			n++
		}
	}
	return n
}

type harness struct {
	t      *testing.T
	engine *Engine
	loop   *FrameLoop
	render *frameRecorder
	cues   *cueRecorder
	input  *input.Aggregator
	scores *score.MemoryStore
	now    time.Time
}

func newHarness(t *testing.T, mutate func(*config.Game)) *harness {
	t.Helper()
	cfg := config.Default().Game
	cfg.EnemySpawnRate = 0
	if mutate != nil {
		mutate(&cfg)
	}
	h := &harness{
		t:      t,
		loop:   NewFrameLoop(),
		render: &frameRecorder{},
		cues:   &cueRecorder{},
		input:  input.NewAggregator(),
		scores: &score.MemoryStore{},
		now:    time.Unix(1_000_000, 0),
	}
	e, err := NewEngine(Options{
		Game:      cfg,
		Scheduler: h.loop,
		Renderer:  h.render,
		Audio:     h.cues,
		Input:     h.input,
		Scores:    h.scores,
		Rand:      rand.New(rand.NewSource(7)),
		Logger:    log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	h.engine = e
	return h
}

func (h *harness) start() {
	h.t.Helper()
	if err := h.engine.Start(); err != nil {
		h.t.Fatalf("Start: %v", err)
	}
}

// step advances the clock by d and runs one scheduler step.
func (h *harness) step(d time.Duration) {
	h.now = h.now.Add(d)
	h.loop.Step(h.now)
}

func TestNewEngineErrors(t *testing.T) {
	_, err := NewEngine(Options{Game: config.Default().Game, Scheduler: NewFrameLoop()})
	if !errors.Is(err, ErrNoSurface) {
		t.Fatalf("err = %v, want ErrNoSurface", err)
	}
	_, err = NewEngine(Options{Game: config.Default().Game, Renderer: &frameRecorder{}})
	if !errors.Is(err, ErrNoScheduler) {
		t.Fatalf("err = %v, want ErrNoScheduler", err)
	}
	bad := config.Default().Game
	bad.Width = 0
	_, err = NewEngine(Options{Game: bad, Scheduler: NewFrameLoop(), Renderer: &frameRecorder{}})
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("err = %v, want config.ErrInvalid", err)
	}
}

func TestStartResetsSession(t *testing.T) {
	h := newHarness(t, nil)
	_ = h.scores.Save(7000)
	if h.engine.Status() != StatusMenu {
		t.Fatalf("status = %s, want menu", h.engine.Status())
	}
	if h.engine.Latest() == nil {
		t.Fatal("no snapshot published before start")
	}
	h.start()

	st := h.engine.State()
	if st.Status != StatusPlaying || st.Score != 0 || st.Level != 1 || st.Lives != 3 {
		t.Fatalf("state = %+v", st)
	}
	if st.HighScore != 7000 {
		t.Errorf("high score = %d, want 7000", st.HighScore)
	}
	if p := h.engine.player; p.X != 380 || p.Y != 540 {
		t.Errorf("player at (%v,%v), want (380,540)", p.X, p.Y)
	}
	if h.loop.Pending() != 1 {
		t.Errorf("pending frames = %d, want 1", h.loop.Pending())
	}
	if err := h.engine.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Start = %v, want ErrInvalidTransition", err)
	}
}

func TestElapsedResetsOnStartAndResume(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	h.step(0)
	h.step(frameStep)
	if got := h.render.frames[0].Elapsed; got != 0 {
		t.Fatalf("first elapsed = %v, want 0", got)
	}
	if got := h.render.frames[1].Elapsed; got != frameStep {
		t.Fatalf("second elapsed = %v, want %v", got, frameStep)
	}

	h.engine.TogglePause()
	if h.engine.Status() != StatusPaused || h.loop.Pending() != 0 {
		t.Fatalf("paused: status %s pending %d", h.engine.Status(), h.loop.Pending())
	}
	h.step(5 * time.Second)
	if len(h.render.frames) != 2 {
		t.Fatalf("frames rendered while paused: %d", len(h.render.frames))
	}

	h.engine.TogglePause()
	h.step(frameStep)
	if got := h.render.frames[2].Elapsed; got != 0 {
		t.Fatalf("elapsed after resume = %v, want 0", got)
	}
	if got := h.engine.Latest().Played; got != frameStep {
		t.Errorf("played = %v, want %v", got, frameStep)
	}
}

func TestPauseKeepsEntities(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	h.engine.enemies = append(h.engine.enemies, object.NewEnemy(object.EnemyLarge, 10, 10, 1))
	h.engine.TogglePause()
	if len(h.engine.enemies) != 1 {
		t.Fatal("pause cleared enemies")
	}
	h.engine.TogglePause()
	h.step(frameStep)
	if got := h.engine.enemies[0].Y; got != 11 {
		t.Fatalf("enemy y = %v, want 11", got)
	}
}

func TestTogglePauseOutsidePlayIsNoop(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.TogglePause()
	if h.engine.Status() != StatusMenu {
		t.Fatalf("status = %s, want menu", h.engine.Status())
	}
}

// A small enemy overlapping a live player bullet dies in the next collision pass.
func TestBulletKillsSmallEnemy(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	e := h.engine
	e.bullets = []*object.Bullet{object.NewPlayerBullet(102, 200, 8)}
	e.enemies = []*object.Enemy{object.NewEnemy(object.EnemySmall, 95, 180, 2)}

	h.step(frameStep)

	if len(e.enemies) != 0 || len(e.bullets) != 0 {
		t.Fatalf("enemies %d bullets %d, want 0 and 0", len(e.enemies), len(e.bullets))
	}
	if e.State().Score != 100 {
		t.Errorf("score = %d, want 100", e.State().Score)
	}
	if h.cues.count(audio.CueExplosion) != 1 {
		t.Errorf("explosion cues = %d, want 1", h.cues.count(audio.CueExplosion))
	}
	if e.Latest().Kills != 1 {
		t.Errorf("kills = %d, want 1", e.Latest().Kills)
	}
}

func TestThreeKillsStayOnLevelOne(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	e := h.engine
	for i := 0; i < 3; i++ {
		x := float64(50 + i*100)
		e.bullets = append(e.bullets, object.NewPlayerBullet(x+15, 200, 8))
		e.enemies = append(e.enemies, object.NewEnemy(object.EnemySmall, x, 180, 2))
	}
	h.step(frameStep)

	if st := e.State(); st.Score != 300 || st.Level != 1 {
		t.Fatalf("score %d level %d, want 300 and 1", st.Score, st.Level)
	}
	if h.cues.count(audio.CueLevelUp) != 0 {
		t.Error("level-up cue played")
	}
}

func TestLevelUpOnlyWhenCrossing(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	e := h.engine

	// Already past the threshold without a kill this tick: no retroactive level-up.
	e.state.Score = 1500
	h.step(frameStep)
	if e.State().Level != 1 {
		t.Fatalf("level = %d without a kill, want 1", e.State().Level)
	}

	e.state.Score = 950
	e.bullets = []*object.Bullet{object.NewPlayerBullet(110, 200, 8)}
	e.enemies = []*object.Enemy{object.NewEnemy(object.EnemySmall, 95, 180, 2)}
	h.step(frameStep)
	if st := e.State(); st.Score != 1050 || st.Level != 2 {
		t.Fatalf("score %d level %d, want 1050 and 2", st.Score, st.Level)
	}
	if h.cues.count(audio.CueLevelUp) != 1 {
		t.Errorf("level-up cues = %d, want 1", h.cues.count(audio.CueLevelUp))
	}

	e.bullets = []*object.Bullet{object.NewPlayerBullet(110, 200, 8)}
	e.enemies = []*object.Enemy{object.NewEnemy(object.EnemySmall, 95, 180, 2)}
	h.step(frameStep)
	if st := e.State(); st.Score != 1150 || st.Level != 2 {
		t.Fatalf("score %d level %d, want 1150 and 2", st.Score, st.Level)
	}
}

func TestBulletConsumedByFirstEnemy(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	e := h.engine
	first := object.NewEnemy(object.EnemyMedium, 90, 180, 1)
	second := object.NewEnemy(object.EnemyMedium, 95, 180, 1)
	e.enemies = []*object.Enemy{first, second}
	e.bullets = []*object.Bullet{object.NewPlayerBullet(110, 200, 8)}

	h.step(frameStep)

	if first.Health != 1 || second.Health != 2 {
		t.Fatalf("health = %d,%d; want 1,2", first.Health, second.Health)
	}
	if len(e.bullets) != 0 {
		t.Fatalf("bullet survived its hit")
	}
	if len(e.enemies) != 2 {
		t.Fatalf("wounded enemy removed")
	}
	if e.State().Score != 0 {
		t.Errorf("score = %d for a non-lethal hit", e.State().Score)
	}
	if h.cues.count(audio.CueEnemyHit) != 1 {
		t.Errorf("enemyHit cues = %d, want 1", h.cues.count(audio.CueEnemyHit))
	}
}

func TestLastLifeEndsSessionSameTick(t *testing.T) {
	h := newHarness(t, nil)
	var summaries []score.Summary
	h.engine.OnGameOver(func(s score.Summary) { summaries = append(summaries, s) })
	h.start()
	e := h.engine
	e.player.Lives = 1
	e.state.Score = 600
	e.enemies = []*object.Enemy{object.NewEnemy(object.EnemySmall, 385, 520, 2)}

	h.step(frameStep)

	if st := e.State(); st.Lives != 0 || st.Status != StatusGameOver {
		t.Fatalf("state = %+v, want lives 0 and gameover", st)
	}
	if len(e.enemies) != 0 {
		t.Error("colliding enemy survived")
	}
	if h.loop.Pending() != 0 {
		t.Error("frame still scheduled after gameover")
	}
	if len(summaries) != 1 {
		t.Fatalf("listener calls = %d, want 1", len(summaries))
	}
	if s := summaries[0]; s.Score != 600 || !s.NewRecord || s.HighScore != 600 {
		t.Errorf("summary = %+v", s)
	}
	if got, _ := h.scores.Load(); got != 600 {
		t.Errorf("stored high score = %d, want 600", got)
	}
	if h.cues.count(audio.CuePlayerHit) != 1 || h.cues.count(audio.CueGameOver) != 1 {
		t.Errorf("cues = %v", h.cues.cues)
	}

	frames := len(h.render.frames)
	h.step(frameStep)
	h.step(frameStep)
	if len(h.render.frames) != frames || len(summaries) != 1 {
		t.Fatal("engine kept running after gameover")
	}
	if sum, ok := e.Summary(); !ok || sum.Score != 600 {
		t.Errorf("Summary() = %+v, %v", sum, ok)
	}
}

func TestQuitSkipsRecord(t *testing.T) {
	h := newHarness(t, nil)
	called := false
	h.engine.OnGameOver(func(score.Summary) { called = true })
	h.start()
	h.engine.state.Score = 900
	h.engine.Quit()
	h.engine.Quit()

	if h.engine.Status() != StatusGameOver || h.loop.Pending() != 0 {
		t.Fatalf("status %s pending %d", h.engine.Status(), h.loop.Pending())
	}
	h.step(frameStep)
	if called {
		t.Error("quit notified game-over listeners")
	}
	if got, _ := h.scores.Load(); got != 0 {
		t.Errorf("quit persisted score %d", got)
	}
	if _, ok := h.engine.Summary(); ok {
		t.Error("quit produced a summary")
	}
}

func TestFireCooldown(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	h.input.Press(input.KeyFire)
	e := h.engine

	h.step(0)
	if len(e.bullets) != 1 {
		t.Fatalf("bullets = %d after first shot, want 1", len(e.bullets))
	}
	firstShot := e.player.LastShot
	if b := e.bullets[0]; b.X != 398 || b.Y != 540-8 {
		t.Errorf("bullet at (%v,%v), want (398,532)", b.X, b.Y)
	}

	h.step(100 * time.Millisecond)
	if len(e.bullets) != 1 {
		t.Fatalf("bullets = %d inside cooldown, want 1", len(e.bullets))
	}
	if !e.player.LastShot.Equal(firstShot) {
		t.Fatal("dropped shot reset the cooldown")
	}

	h.step(150 * time.Millisecond)
	if len(e.bullets) != 2 {
		t.Fatalf("bullets = %d after cooldown, want 2", len(e.bullets))
	}
	if h.cues.count(audio.CueShoot) != 2 {
		t.Errorf("shoot cues = %d, want 2", h.cues.count(audio.CueShoot))
	}
}

func TestBulletCap(t *testing.T) {
	h := newHarness(t, func(g *config.Game) {
		g.MaxBullets = 2
		g.FireCooldown = 0
	})
	h.start()
	h.input.Press(input.KeyFire)
	e := h.engine

	h.step(frameStep)
	h.step(frameStep)
	shot := e.player.LastShot
	for i := 0; i < 20; i++ {
		h.step(frameStep)
		if n := e.livePlayerBullets(); n > 2 {
			t.Fatalf("tick %d: %d player bullets, cap is 2", i, n)
		}
	}
	if !e.player.LastShot.Equal(shot) {
		t.Error("capped shots moved LastShot")
	}
}

func TestMoveIsNoopAtEdge(t *testing.T) {
	h := newHarness(t, func(g *config.Game) { g.PlayerSpeed = 7 })
	h.start()
	h.input.Press(input.KeyLeft)
	h.input.Press(input.KeyUp)
	for i := 0; i < 200; i++ {
		h.step(frameStep)
	}
	p := h.engine.player
	// 380 - 54*7 = 2: the next step would reach -5, so the player stops at 2.
	if p.X != 2 {
		t.Errorf("x = %v, want 2", p.X)
	}
	if p.Y != 540-77*7 {
		t.Errorf("y = %v, want %v", p.Y, 540-77*7)
	}

	h.input.ReleaseAll()
	h.input.Press(input.KeyRight)
	h.input.Press(input.KeyDown)
	for i := 0; i < 300; i++ {
		h.step(frameStep)
	}
	if !h.engine.screen.Contains(p.Bounds()) {
		t.Fatalf("player left the playfield: %+v", p.Bounds())
	}
}

func TestLifecyclePruning(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	e := h.engine
	keep := object.NewEnemy(object.EnemySmall, 10, 627, 2)  // 629 < 630
	drop := object.NewEnemy(object.EnemySmall, 100, 628, 2) // 630 >= 630
	e.enemies = []*object.Enemy{keep, drop}
	high := object.NewPlayerBullet(700, -2, 8) // -10 stays
	gone := object.NewPlayerBullet(750, -3, 8) // -11 leaves
	e.bullets = []*object.Bullet{high, gone}

	h.step(frameStep)

	if len(e.enemies) != 1 || e.enemies[0] != keep {
		t.Errorf("enemies = %d, want only the upper one", len(e.enemies))
	}
	if len(e.bullets) != 1 || e.bullets[0] != high {
		t.Errorf("bullets = %d, want only the lower one", len(e.bullets))
	}
	if e.State().Score != 0 {
		t.Error("escaped enemy was scored")
	}
}

func TestSpawner(t *testing.T) {
	h := newHarness(t, func(g *config.Game) { g.EnemySpawnRate = 1 })
	h.start()
	e := h.engine

	h.step(frameStep)
	if len(e.enemies) != 1 {
		t.Fatalf("enemies = %d after one certain trial, want 1", len(e.enemies))
	}
	en := e.enemies[0]
	if en.Y != -en.H {
		t.Errorf("spawn y = %v, want %v", en.Y, -en.H)
	}
	if want := en.Type.Spec().Speed * 1.1; en.Speed != want {
		t.Errorf("speed = %v, want %v", en.Speed, want)
	}

	seen := map[object.EnemyType]bool{}
	for i := 0; i < 60; i++ {
		h.step(frameStep)
	}
	for _, en := range e.enemies {
		seen[en.Type] = true
		if en.X < 0 || en.X > e.screen.Width-en.W {
			t.Fatalf("spawn x = %v outside [0,%v]", en.X, e.screen.Width-en.W)
		}
	}
	if len(seen) != 3 {
		t.Errorf("types seen = %v, want all three", seen)
	}
}

func TestSpawnerIdleOutsidePlay(t *testing.T) {
	h := newHarness(t, func(g *config.Game) { g.EnemySpawnRate = 1 })
	h.engine.spawn()
	if len(h.engine.enemies) != 0 {
		t.Fatal("spawned in menu")
	}
}

func TestDifficulty(t *testing.T) {
	if got := difficulty(1); got != 1.1 {
		t.Errorf("difficulty(1) = %v", got)
	}
	if got := difficulty(5); got != 1.5 {
		t.Errorf("difficulty(5) = %v", got)
	}
}

// Random play never breaks the session invariants.
func TestInvariantsUnderRandomPlay(t *testing.T) {
	h := newHarness(t, func(g *config.Game) { g.EnemySpawnRate = 0.2 })
	h.start()
	e := h.engine
	rng := rand.New(rand.NewSource(42))
	keys := []input.Key{input.KeyUp, input.KeyDown, input.KeyLeft, input.KeyRight, input.KeyFire}

	prev := e.State()
	for i := 0; i < 5000 && e.Status() == StatusPlaying; i++ {
		var held input.KeySet
		for _, k := range keys {
			if rng.Intn(2) == 0 {
				held = held.With(k)
			}
		}
		h.input.SetKeys(held)
		h.step(frameStep)

		st := e.State()
		if st.Score < prev.Score || st.Level < prev.Level || st.Lives > prev.Lives {
			t.Fatalf("tick %d: state went backwards: %+v -> %+v", i, prev, st)
		}
		if st.Lives < 0 {
			t.Fatalf("tick %d: negative lives", i)
		}
		if n := e.livePlayerBullets(); n > 5 {
			t.Fatalf("tick %d: %d player bullets", i, n)
		}
		if !e.screen.Contains(e.player.Bounds()) {
			t.Fatalf("tick %d: player out of bounds %+v", i, e.player.Bounds())
		}
		prev = st
	}

	if e.Status() == StatusGameOver {
		final := e.State()
		h.step(frameStep)
		if e.State() != final {
			t.Fatal("state changed after gameover")
		}
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	h.engine.enemies = []*object.Enemy{object.NewEnemy(object.EnemyLarge, 10, 10, 1)}
	snap := h.engine.Snapshot()
	snap.Enemies[0].Y = 500
	snap.Stars[0].X = -1
	if h.engine.enemies[0].Y != 10 {
		t.Fatal("snapshot shares enemies with the engine")
	}
	if h.engine.stars[0].X == -1 {
		t.Fatal("snapshot shares stars with the engine")
	}
}

func TestRenderErrorDoesNotStopLoop(t *testing.T) {
	h := newHarness(t, nil)
	h.render.err = errors.New("surface lost")
	h.start()
	for i := 0; i < 3; i++ {
		h.step(frameStep)
	}
	if len(h.render.frames) != 3 || h.engine.Status() != StatusPlaying {
		t.Fatalf("frames %d status %s", len(h.render.frames), h.engine.Status())
	}
}

func TestStarsDrift(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	before := h.engine.Snapshot().Stars
	h.step(frameStep)
	after := h.engine.stars
	for i := range before {
		if before[i].Y+0.5 <= h.engine.screen.Height && after[i].Y != before[i].Y+0.5 {
			t.Fatalf("star %d moved from %v to %v", i, before[i].Y, after[i].Y)
		}
	}
}

func TestKillsLeaveDebrisThatExpires(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	e := h.engine
	e.bullets = []*object.Bullet{object.NewPlayerBullet(102, 200, 8)}
	e.enemies = []*object.Enemy{object.NewEnemy(object.EnemySmall, 95, 180, 2)}

	h.step(frameStep)
	if got, want := len(e.Latest().Debris), tuning.DebrisBase+tuning.DebrisPerHealth; got == 0 || got > want {
		t.Fatalf("debris = %d after a small kill, want 1..%d", got, want)
	}

	for i := 0; i < tuning.DebrisLife; i++ {
		h.step(frameStep)
	}
	if n := len(e.Latest().Debris); n != 0 {
		t.Errorf("debris = %d after its lifetime, want 0", n)
	}
	if e.State().Score != 100 {
		t.Errorf("debris changed the score: %d", e.State().Score)
	}
}
