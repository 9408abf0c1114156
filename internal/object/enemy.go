package object

import "fmt"

// EnemyType is the closed set of enemy variants.
type EnemyType int

const (
	EnemySmall EnemyType = iota
	EnemyMedium
	EnemyLarge
)

// EnemyTypes lists every variant in catalog order.
var EnemyTypes = [...]EnemyType{EnemySmall, EnemyMedium, EnemyLarge}

// EnemySpec is one row of the enemy catalog.
type EnemySpec struct {
	W, H   float64
	Speed  float64 // base units per frame before level scaling
	Points int
	Health int
}

var enemyCatalog = [...]EnemySpec{
	EnemySmall:  {W: 30, H: 30, Speed: 2, Points: 100, Health: 1},
	EnemyMedium: {W: 50, H: 50, Speed: 1.5, Points: 200, Health: 2},
	EnemyLarge:  {W: 80, H: 80, Speed: 1, Points: 500, Health: 3},
}

// Spec returns the catalog row for t.
func (t EnemyType) Spec() EnemySpec {
	return enemyCatalog[t]
}

func (t EnemyType) String() string {
	switch t {
	case EnemySmall:
		return "small"
	case EnemyMedium:
		return "medium"
	case EnemyLarge:
		return "large"
	default:
		return fmt.Sprintf("EnemyType(%d)", int(t))
	}
}

// Enemy is a hostile craft descending the playfield.
type Enemy struct {
	X, Y      float64
	W, H      float64
	Type      EnemyType
	Speed     float64
	Points    int
	Health    int
	destroyed bool
}

// NewEnemy creates an enemy of type t with its top-left corner at (x, y),
// moving at speed units per frame.
func NewEnemy(t EnemyType, x, y, speed float64) *Enemy {
	spec := t.Spec()
	return &Enemy{
		X:      x,
		Y:      y,
		W:      spec.W,
		H:      spec.H,
		Type:   t,
		Speed:  speed,
		Points: spec.Points,
		Health: spec.Health,
	}
}

// Bounds returns the enemy's box.
func (e *Enemy) Bounds() Rect {
	return Rect{X: e.X, Y: e.Y, W: e.W, H: e.H}
}

// Damage subtracts n health points, never going below zero, and reports
// whether the enemy died.
func (e *Enemy) Damage(n int) bool {
	e.Health -= n
	if e.Health < 0 {
		e.Health = 0
	}
	return e.Health == 0
}

// MarkDestroyed marks the enemy for removal.
func (e *Enemy) MarkDestroyed() {
	e.destroyed = true
}

// IsDestroyed returns true once the enemy is marked or has no health left.
func (e *Enemy) IsDestroyed() bool {
	return e.destroyed || e.Health <= 0
}
