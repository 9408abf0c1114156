package gfx

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/tomz197/beestrike/internal/input"
)

// mouseID routes the left mouse button through the touch path so desktop
// players can try the on-screen controls.
const mouseID = -1

// pollTouches feeds touches and the mouse into the router. It returns the
// control keys pressed this tick and whether any new touch began.
func (g *Game) pollTouches(now time.Time, dst []input.Key) ([]input.Key, bool) {
	began := false

	g.touchIDs = inpututil.AppendJustPressedTouchIDs(g.touchIDs[:0])
	for _, id := range g.touchIDs {
		x, y := ebiten.TouchPosition(id)
		began = true
		g.touchUsed = true
		g.tracked[id] = struct{}{}
		if k, ok := g.touch.Begin(int(id), float64(x), float64(y)); ok {
			dst = append(dst, k)
		}
	}

	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	for _, id := range g.touchIDs {
		x, y := ebiten.TouchPosition(id)
		g.touch.Move(int(id), float64(x), float64(y))
	}

	for id := range g.tracked {
		if inpututil.IsTouchJustReleased(id) {
			g.touch.End(int(id), now)
			delete(g.tracked, id)
		}
	}

	x, y := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		began = true
		if k, ok := g.touch.Begin(mouseID, float64(x), float64(y)); ok {
			dst = append(dst, k)
		}
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.touch.End(mouseID, now)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.touch.Move(mouseID, float64(x), float64(y))
	}

	return dst, began
}
