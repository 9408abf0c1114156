// Package input turns raw device input (terminal bytes, ebiten keys, touch
// buttons and swipes) into a per-tick Intent.
package input

// Key is a logical game key, independent of the device that produced it.
type Key uint8

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyFire
	KeyStart
	KeyPause
	KeyQuit
	KeyMute
	keyCount
)

var keyNames = [keyCount]string{
	KeyUp:    "up",
	KeyDown:  "down",
	KeyLeft:  "left",
	KeyRight: "right",
	KeyFire:  "fire",
	KeyStart: "start",
	KeyPause: "pause",
	KeyQuit:  "quit",
	KeyMute:  "mute",
}

func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return "unknown"
}

// KeySet is a set of keys packed into a bitmask.
type KeySet uint16

// Has reports whether k is in the set.
func (s KeySet) Has(k Key) bool {
	return s&(1<<k) != 0
}

// With returns the set with k added.
func (s KeySet) With(k Key) KeySet {
	return s | 1<<k
}

// Without returns the set with k removed.
func (s KeySet) Without(k Key) KeySet {
	return s &^ (1 << k)
}

// Intent is the merged per-tick desire for each direction and fire.
type Intent struct {
	Up, Down, Left, Right bool
	Shoot                 bool
}

// Any reports whether any intent is asserted.
func (i Intent) Any() bool {
	return i.Up || i.Down || i.Left || i.Right || i.Shoot
}

func intentOf(s KeySet) Intent {
	return Intent{
		Up:    s.Has(KeyUp),
		Down:  s.Has(KeyDown),
		Left:  s.Has(KeyLeft),
		Right: s.Has(KeyRight),
		Shoot: s.Has(KeyFire),
	}
}
