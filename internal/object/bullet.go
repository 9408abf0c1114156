package object

// Bullet dimensions.
const (
	BulletWidth  = 4
	BulletHeight = 10
)

// Owner identifies which side fired a bullet.
type Owner int

const (
	OwnerPlayer Owner = iota
	OwnerEnemy
)

func (o Owner) String() string {
	if o == OwnerEnemy {
		return "enemy"
	}
	return "player"
}

// Bullet is a projectile. Player bullets travel up, enemy bullets down.
type Bullet struct {
	X, Y   float64
	Speed  float64
	Damage int
	Owner  Owner
	spent  bool
}

// NewPlayerBullet creates a bullet centered on x with its top at y.
func NewPlayerBullet(x, y, speed float64) *Bullet {
	return &Bullet{
		X:      x - BulletWidth/2,
		Y:      y,
		Speed:  speed,
		Damage: 1,
		Owner:  OwnerPlayer,
	}
}

// Bounds returns the bullet's box.
func (b *Bullet) Bounds() Rect {
	return Rect{X: b.X, Y: b.Y, W: BulletWidth, H: BulletHeight}
}

// Step advances the bullet one frame in its owner's direction.
func (b *Bullet) Step() {
	if b.Owner == OwnerEnemy {
		b.Y += b.Speed
	} else {
		b.Y -= b.Speed
	}
}

// MarkDestroyed marks the bullet as consumed.
func (b *Bullet) MarkDestroyed() {
	b.spent = true
}

// IsDestroyed returns true once the bullet has hit something.
func (b *Bullet) IsDestroyed() bool {
	return b.spent
}

var (
	_ Destructible = (*Bullet)(nil)
	_ Destructible = (*Enemy)(nil)
)
