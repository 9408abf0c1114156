package loop

import (
	"time"

	"github.com/tomz197/beestrike/internal/audio"
	"github.com/tomz197/beestrike/internal/input"
	"github.com/tomz197/beestrike/internal/object"
)

// movePlayer applies each active direction independently. A step that
// would leave the playfield is skipped rather than clamped.
func (e *Engine) movePlayer(in input.Intent) {
	p := e.player
	step := func(dx, dy float64) {
		r := p.Bounds()
		r.X += dx
		r.Y += dy
		if e.screen.Contains(r) {
			p.X, p.Y = r.X, r.Y
		}
	}
	if in.Left {
		step(-p.Speed, 0)
	}
	if in.Right {
		step(p.Speed, 0)
	}
	if in.Up {
		step(0, -p.Speed)
	}
	if in.Down {
		step(0, p.Speed)
	}
}

// tryFire spawns a player bullet unless the cooldown is running or the cap
// is reached. Dropped attempts leave LastShot untouched.
func (e *Engine) tryFire(now time.Time) {
	p := e.player
	if !p.LastShot.IsZero() && now.Sub(p.LastShot) <= e.cfg.FireCooldown {
		return
	}
	if e.livePlayerBullets() >= e.cfg.MaxBullets {
		return
	}
	e.bullets = append(e.bullets, object.NewPlayerBullet(p.Bounds().CenterX(), p.Y, e.cfg.BulletSpeed))
	p.LastShot = now
	e.audio.Play(audio.CueShoot)
}

func (e *Engine) livePlayerBullets() int {
	n := 0
	for _, b := range e.bullets {
		if b.Owner == object.OwnerPlayer {
			n++
		}
	}
	return n
}

// advanceBullets moves every bullet and keeps those still inside
// [-height, playfield height).
func (e *Engine) advanceBullets() {
	kept := make([]*object.Bullet, 0, len(e.bullets))
	for _, b := range e.bullets {
		b.Step()
		if b.Y >= -object.BulletHeight && b.Y < e.screen.Height {
			kept = append(kept, b)
		}
	}
	e.bullets = kept
}

// advanceEnemies moves enemies down and drops those fully below the playfield.
func (e *Engine) advanceEnemies() {
	kept := make([]*object.Enemy, 0, len(e.enemies))
	for _, en := range e.enemies {
		en.Y += en.Speed
		if en.Y < e.screen.Height+en.H {
			kept = append(kept, en)
		}
	}
	e.enemies = kept
}

// advanceDebris moves explosion particles and drops the expired ones.
func (e *Engine) advanceDebris() {
	kept := e.debris[:0]
	for _, p := range e.debris {
		if p.Step() {
			kept = append(kept, p)
		}
	}
	e.debris = kept
}
