package gfx

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/tomz197/beestrike/internal/input"
	"github.com/tomz197/beestrike/internal/loop"
	"github.com/tomz197/beestrike/internal/object"
	"github.com/tomz197/beestrike/internal/score"
)

var (
	colorBackground = color.RGBA{0x05, 0x05, 0x1a, 0xff}
	colorPlayer     = color.RGBA{0x00, 0x88, 0xff, 0xff}
	colorCockpit    = color.RGBA{0x88, 0xff, 0xff, 0xff}
	colorFlame      = color.RGBA{0xff, 0x88, 0x00, 0xff}
	colorFlameCore  = color.RGBA{0xff, 0xff, 0x00, 0xff}
	colorSmall      = color.RGBA{0xff, 0x44, 0x44, 0xff}
	colorMedium     = color.RGBA{0xff, 0x88, 0x00, 0xff}
	colorLarge      = color.RGBA{0xaa, 0x00, 0x00, 0xff}
	colorBullet     = color.RGBA{0xff, 0xff, 0x00, 0xff}
	colorEnemyShot  = color.RGBA{0xff, 0x44, 0x44, 0xff}
	colorText       = color.White
	colorHighlight  = color.RGBA{0xff, 0xd7, 0x00, 0xff}
	colorShade      = color.RGBA{0x00, 0x00, 0x00, 0xa0}
	colorControl    = color.RGBA{0xff, 0xff, 0xff, 0x30}
)

// painter owns the drawing resources shared by every frame.
type painter struct {
	face  text.Face
	white *ebiten.Image // 1x1 source for filled paths

	vs []ebiten.Vertex
	is []uint16
}

func newPainter() *painter {
	return &painter{face: text.NewGoXFace(basicfont.Face7x13)}
}

func (p *painter) background(screen *ebiten.Image) {
	screen.Fill(colorBackground)
}

func (p *painter) stars(screen *ebiten.Image, stars []object.Star) {
	for _, s := range stars {
		a := uint8(80 + 58*s.Size) // bigger stars are brighter
		vector.DrawFilledRect(screen, float32(s.X), float32(s.Y), float32(s.Size), float32(s.Size),
			color.RGBA{a, a, a, 0xff}, false)
	}
}

// polygon fills a convex or concave outline.
func (p *painter) polygon(screen *ebiten.Image, clr color.Color, pts ...[2]float64) {
	if p.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		p.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}

	var path vector.Path
	path.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, pt := range pts[1:] {
		path.LineTo(float32(pt[0]), float32(pt[1]))
	}
	path.Close()

	p.vs, p.is = path.AppendVerticesAndIndicesForFilling(p.vs[:0], p.is[:0])
	r, g, b, a := clr.RGBA()
	for i := range p.vs {
		p.vs[i].SrcX = 1
		p.vs[i].SrcY = 1
		p.vs[i].ColorR = float32(r) / 0xffff
		p.vs[i].ColorG = float32(g) / 0xffff
		p.vs[i].ColorB = float32(b) / 0xffff
		p.vs[i].ColorA = float32(a) / 0xffff
	}
	opts := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(p.vs, p.is, p.white, opts)
}

func (p *painter) playfield(screen *ebiten.Image, f loop.Frame) {
	for i := range f.Enemies {
		p.enemy(screen, &f.Enemies[i])
	}
	for _, b := range f.Bullets {
		clr := colorBullet
		if b.Owner == object.OwnerEnemy {
			clr = colorEnemyShot
		}
		vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), object.BulletWidth, object.BulletHeight, clr, false)
	}
	p.player(screen, f.Player, f.Now)

	for i := range f.Debris {
		d := &f.Debris[i]
		base := colorFlame
		if d.Hot {
			base = colorFlameCore
		}
		clr := color.NRGBA{R: base.R, G: base.G, B: base.B, A: uint8(255 * d.Fade())}
		vector.DrawFilledRect(screen, float32(d.X-1.5), float32(d.Y-1.5), 3, 3, clr, false)
	}
}

func (p *painter) player(screen *ebiten.Image, pl object.Player, now time.Time) {
	x, y := pl.X, pl.Y
	w, h := float64(object.PlayerWidth), float64(object.PlayerHeight)
	cx := x + w/2
	flicker := math.Sin(float64(now.UnixMilli())*0.01) * 2

	p.polygon(screen, colorFlame, [2]float64{cx - 8, y + h - 4}, [2]float64{cx + 8, y + h - 4}, [2]float64{cx, y + h + 14 + flicker*2})
	p.polygon(screen, colorFlameCore, [2]float64{cx - 4, y + h - 4}, [2]float64{cx + 4, y + h - 4}, [2]float64{cx, y + h + 7 + flicker})
	p.polygon(screen, colorPlayer,
		[2]float64{cx, y},
		[2]float64{x + w, y + h},
		[2]float64{cx + 7, y + h*0.75},
		[2]float64{cx - 7, y + h*0.75},
		[2]float64{x, y + h},
	)
	vector.DrawFilledRect(screen, float32(cx-3), float32(y+h*0.35), 6, 8, colorCockpit, false)
}

func (p *painter) enemy(screen *ebiten.Image, e *object.Enemy) {
	x, y, w, h := e.X, e.Y, e.W, e.H
	cx, cy := x+w/2, y+h/2

	switch e.Type {
	case object.EnemySmall:
		p.polygon(screen, colorSmall, [2]float64{x, y}, [2]float64{x + w, y}, [2]float64{cx, y + h})
	case object.EnemyMedium:
		p.polygon(screen, colorMedium, [2]float64{cx, y}, [2]float64{x + w, cy}, [2]float64{cx, y + h}, [2]float64{x, cy})
	default:
		p.polygon(screen, colorLarge,
			[2]float64{x + w*0.25, y}, [2]float64{x + w*0.75, y}, [2]float64{x + w, cy},
			[2]float64{x + w*0.75, y + h}, [2]float64{x + w*0.25, y + h}, [2]float64{x, cy},
		)
		core := w * 0.5 * float64(e.Health) / float64(e.Type.Spec().Health)
		vector.DrawFilledRect(screen, float32(cx-core/2), float32(cy-h*0.15), float32(core), float32(h*0.3), colorMedium, false)
	}
}

// say draws s with its top-left corner at (x, y).
func (p *painter) say(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, p.face, op)
}

// sayCentered draws s horizontally centered at y, scaled by size.
func (p *painter) sayCentered(screen *ebiten.Image, s string, y, size float64, clr color.Color) {
	w, _ := text.Measure(s, p.face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(float64(screen.Bounds().Dx())/2-w*size/2, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, p.face, op)
}

func (p *painter) shade(screen *ebiten.Image) {
	b := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), colorShade, false)
}

func (p *painter) hud(screen *ebiten.Image, st loop.GameState, sound bool) {
	width := float64(screen.Bounds().Dx())
	p.say(screen, fmt.Sprintf("Score: %d", st.Score), 10, 10, colorText)
	p.say(screen, fmt.Sprintf("High: %d", max(st.HighScore, st.Score)), 10, 28, colorText)
	p.sayCentered(screen, fmt.Sprintf("Level %d", st.Level), 10, 1, colorText)
	p.say(screen, fmt.Sprintf("Lives: %d", st.Lives), width-80, 10, colorText)
	if !sound {
		p.say(screen, "Muted", width-80, 28, colorText)
	}
}

func (p *painter) controls(screen *ebiten.Image, buttons []input.Button) {
	for _, b := range buttons {
		vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), colorControl, false)
		w, _ := text.Measure(b.Label, p.face, 0)
		p.say(screen, b.Label, b.X+b.W/2-w/2, b.Y+b.H/2-7, colorText)
	}
}

func (p *painter) menu(screen *ebiten.Image, high int, touch bool) {
	h := float64(screen.Bounds().Dy())
	top := h/2 - 150
	p.sayCentered(screen, "BEE STRIKE", top, 4, colorHighlight)
	p.sayCentered(screen, "~ Vertical arcade shooter ~", top+70, 1, colorText)
	p.sayCentered(screen, fmt.Sprintf("High score: %d", high), top+110, 1.5, colorText)

	lines := []string{
		"WASD / arrows  move",
		"SPACE  shoot",
		"P / ESC  pause",
		"M  sound",
		"Q  quit",
	}
	if touch {
		lines = []string{"D-pad or swipe  move", "FIRE or tap  shoot", "II  pause"}
	}
	for i, line := range lines {
		p.sayCentered(screen, line, top+160+float64(i)*20, 1, colorText)
	}
	p.sayCentered(screen, "Press SPACE or tap to start", top+280, 1.5, colorHighlight)
}

func (p *painter) paused(screen *ebiten.Image) {
	p.shade(screen)
	h := float64(screen.Bounds().Dy())
	p.sayCentered(screen, "PAUSED", h/2-40, 3, colorText)
	p.sayCentered(screen, "P / ESC resume   Q menu", h/2+10, 1, colorText)
}

func (p *painter) gameOver(screen *ebiten.Image, final int) {
	p.shade(screen)
	h := float64(screen.Bounds().Dy())
	p.sayCentered(screen, "GAME OVER", h/2-40, 4, colorEnemyShot)
	p.sayCentered(screen, fmt.Sprintf("Final score: %d", final), h/2+20, 1.5, colorText)
}

func (p *painter) results(screen *ebiten.Image, sum score.Summary, prompt bool) {
	p.shade(screen)
	h := float64(screen.Bounds().Dy())
	top := h/2 - 170

	p.sayCentered(screen, "MISSION REPORT", top, 3, colorText)
	p.sayCentered(screen, sum.Rating, top+60, 2, colorHighlight)
	p.sayCentered(screen, fmt.Sprintf("Final score: %d", sum.Score), top+110, 1.5, colorText)
	high := fmt.Sprintf("High score: %d", sum.HighScore)
	if sum.NewRecord {
		high += "  NEW RECORD!"
	}
	p.sayCentered(screen, high, top+140, 1.5, colorText)

	p.sayCentered(screen, fmt.Sprintf("Enemies destroyed: %d", sum.Stats.Kills), top+190, 1, colorText)
	p.sayCentered(screen, fmt.Sprintf("Level reached: %d", sum.Stats.Level), top+210, 1, colorText)
	p.sayCentered(screen, fmt.Sprintf("Time survived: %s", sum.Stats.Duration.Round(time.Second)), top+230, 1, colorText)
	p.sayCentered(screen, score.Encouragement(sum.Score), top+270, 1, colorText)

	if prompt {
		p.sayCentered(screen, "SPACE / tap play again    Q menu", top+320, 1.5, colorHighlight)
	}
}
