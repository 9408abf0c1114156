package loop

import (
	"github.com/tomz197/beestrike/internal/audio"
	"github.com/tomz197/beestrike/internal/loop/config"
	"github.com/tomz197/beestrike/internal/object"
	"github.com/tomz197/beestrike/internal/physics"
)

// resolveCollisions runs the bullet pass and then the player pass. Entities
// are only marked during the passes; survivors are compacted afterwards, so
// nothing is skipped or visited twice.
func (e *Engine) resolveCollisions() {
	boxes := e.boxes[:0]
	e.grid.Clear()
	for i, en := range e.enemies {
		boxes = append(boxes, en.Bounds())
		e.grid.Insert(boxes[i], i)
	}
	e.boxes = boxes
	gone := func(i int) bool { return e.enemies[i].IsDestroyed() }

	// Player bullets x enemies: a bullet is consumed by the first enemy it overlaps.
	for _, b := range e.bullets {
		if b.Owner != object.OwnerPlayer || b.IsDestroyed() {
			continue
		}
		i := e.grid.FirstOverlap(b.Bounds(), boxes, gone)
		if i < 0 {
			continue
		}
		b.MarkDestroyed()
		en := e.enemies[i]
		if en.Damage(b.Damage) {
			e.killEnemy(en)
		} else {
			e.audio.Play(audio.CueEnemyHit)
		}
	}

	// Player x enemies: contact destroys the enemy and costs a life.
	pb := e.player.Bounds()
	for _, i := range e.grid.Candidates(pb) {
		if gone(i) || !physics.Overlaps(pb, boxes[i]) {
			continue
		}
		e.enemies[i].MarkDestroyed()
		if e.player.Lives > 0 {
			e.player.Lives--
		}
		e.audio.Play(audio.CuePlayerHit)
		e.debris = object.Burst(e.debris, pb.CenterX(), pb.Y+pb.H/2,
			config.DebrisPlayerHit, config.DebrisSpeed, config.DebrisLife, e.fx)
	}
	e.state.Lives = e.player.Lives

	e.compact()
}

func (e *Engine) killEnemy(en *object.Enemy) {
	e.state.Score += en.Points
	e.kills++
	e.audio.Play(audio.CueExplosion)
	b := en.Bounds()
	e.debris = object.Burst(e.debris, b.CenterX(), b.Y+b.H/2,
		config.DebrisBase+config.DebrisPerHealth*en.Type.Spec().Health,
		config.DebrisSpeed, config.DebrisLife, e.fx)
	if e.state.Score > e.state.Level*config.LevelScoreStep {
		e.state.Level++
		e.audio.Play(audio.CueLevelUp)
		e.logger.Debug("level up", "level", e.state.Level, "score", e.state.Score)
	}
}

func (e *Engine) compact() {
	enemies := make([]*object.Enemy, 0, len(e.enemies))
	for _, en := range e.enemies {
		if !en.IsDestroyed() {
			enemies = append(enemies, en)
		}
	}
	e.enemies = enemies

	bullets := make([]*object.Bullet, 0, len(e.bullets))
	for _, b := range e.bullets {
		if !b.IsDestroyed() {
			bullets = append(bullets, b)
		}
	}
	e.bullets = bullets
}
