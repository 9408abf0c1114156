package loop

import (
	"github.com/tomz197/beestrike/internal/loop/config"
	"github.com/tomz197/beestrike/internal/object"
)

// difficulty is the multiplier applied to spawn chance and enemy speed.
func difficulty(level int) float64 {
	return 1 + float64(level)*config.LevelScaling
}

// spawn runs one Bernoulli trial and adds at most one enemy above the
// playfield.
func (e *Engine) spawn() {
	if e.state.Status != StatusPlaying {
		return
	}
	d := difficulty(e.state.Level)
	if e.rng.Float64() >= e.cfg.EnemySpawnRate*d {
		return
	}

	typ := object.EnemyTypes[e.rng.Intn(len(object.EnemyTypes))]
	spec := typ.Spec()
	x := e.rng.Float64() * (e.screen.Width - spec.W)
	e.enemies = append(e.enemies, object.NewEnemy(typ, x, -spec.H, spec.Speed*d))
}
