package gfx

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/tomz197/beestrike/internal/input"
)

// keyMap binds physical keys to game keys. Several keys may share a game key.
var keyMap = []struct {
	key  ebiten.Key
	game input.Key
}{
	{ebiten.KeyArrowUp, input.KeyUp},
	{ebiten.KeyW, input.KeyUp},
	{ebiten.KeyArrowDown, input.KeyDown},
	{ebiten.KeyS, input.KeyDown},
	{ebiten.KeyArrowLeft, input.KeyLeft},
	{ebiten.KeyA, input.KeyLeft},
	{ebiten.KeyArrowRight, input.KeyRight},
	{ebiten.KeyD, input.KeyRight},
	{ebiten.KeySpace, input.KeyFire},
	{ebiten.KeyEnter, input.KeyStart},
	{ebiten.KeyNumpadEnter, input.KeyStart},
	{ebiten.KeyP, input.KeyPause},
	{ebiten.KeyEscape, input.KeyPause},
	{ebiten.KeyQ, input.KeyQuit},
	{ebiten.KeyM, input.KeyMute},
}

// heldKeys returns every game key whose physical key is down.
func heldKeys() input.KeySet {
	var held input.KeySet
	for _, m := range keyMap {
		if ebiten.IsKeyPressed(m.key) {
			held = held.With(m.game)
		}
	}
	return held
}

// pressedKeys appends game keys whose physical key went down this tick.
func pressedKeys(dst []input.Key) []input.Key {
	for _, m := range keyMap {
		if inpututil.IsKeyJustPressed(m.key) {
			dst = append(dst, m.game)
		}
	}
	return dst
}
