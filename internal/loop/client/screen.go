package client

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/tomz197/beestrike/internal/draw"
	"github.com/tomz197/beestrike/internal/loop"
	tuning "github.com/tomz197/beestrike/internal/loop/config"
	"github.com/tomz197/beestrike/internal/object"
	"github.com/tomz197/beestrike/internal/score"
)

var titleArt = []string{
	` ___ ___ ___   ___ _____ ___ ___ _  _____ `,
	`| _ ) __| __| / __|_   _| _ \_ _| |/ / __|`,
	`| _ \ _|| _|  \__ \ | | |   /| || ' <| _| `,
	`|___/___|___| |___/ |_| |_|_\___|_|\_\___|`,
}

var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

// Render draws the playfield of f onto the canvas. It reaches the terminal
// when the host frame is flushed.
func (c *Client) Render(f loop.Frame) error {
	c.paint(f, true)
	c.state.rendered = true
	return nil
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	snap := c.engine.Latest()
	paused := snap.State.Status == loop.StatusPaused
	over := !c.state.gameOverAt.IsZero()

	// On screen or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	if c.state.Screen != c.state.prevScreen || paused != c.state.prevPaused ||
		over != c.state.prevOver || c.state.isInactive != c.state.wasInactive {
		c.overlay.Clear()
		c.canvas.ForceRedraw()
		c.state.prevScreen = c.state.Screen
		c.state.prevPaused = paused
		c.state.prevOver = over
		c.state.wasInactive = c.state.isInactive
	}

	// Paused and finished sessions have no engine frames; keep the
	// flame animating from the last snapshot.
	if !c.state.rendered {
		c.paint(loop.Frame{Snapshot: *snap, Now: c.state.now}, c.state.Screen == ScreenPlaying)
	}

	// Render canvas to terminal
	c.canvas.Render(c.overlay)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.overlay)

	c.drawUI(snap)

	return c.overlay.Flush()
}

// paint draws the star field and, when full is set, every entity.
func (c *Client) paint(f loop.Frame, full bool) {
	c.canvas.Clear()

	for _, s := range f.Stars {
		col := draw.ColorDim
		switch {
		case s.Size >= 2.5:
			col = draw.ColorWhite
		case s.Size >= 1.75:
			col = draw.ColorGray
		}
		c.canvas.FillRect(s.X, s.Y, s.Size, s.Size, col)
	}
	if !full {
		return
	}

	for i := range f.Enemies {
		c.paintEnemy(&f.Enemies[i])
	}
	for _, b := range f.Bullets {
		col := draw.ColorYellow
		if b.Owner == object.OwnerEnemy {
			col = draw.ColorRed
		}
		c.canvas.FillRect(b.X, b.Y, object.BulletWidth, object.BulletHeight, col)
	}
	c.paintPlayer(f.Player, f.Now)

	for i := range f.Debris {
		p := &f.Debris[i]
		// Skip faded particles (< 25% lifetime)
		if p.Fade() < 0.25 {
			continue
		}
		col := draw.ColorOrange
		if p.Hot {
			col = draw.ColorYellow
		}
		c.canvas.Set(p.X, p.Y, col)
	}
}

// paintPlayer draws the ship with a flickering engine flame.
func (c *Client) paintPlayer(p object.Player, now time.Time) {
	x, y := p.X, p.Y
	w, h := float64(object.PlayerWidth), float64(object.PlayerHeight)
	cx := x + w/2
	flicker := math.Sin(float64(now.UnixMilli())*0.01) * 2

	flame := c.canvas.BorrowPoints(3)
	flame[0] = draw.Point{X: cx - 7, Y: y + h - 4}
	flame[1] = draw.Point{X: cx + 7, Y: y + h - 4}
	flame[2] = draw.Point{X: cx, Y: y + h + 12 + flicker*2}
	c.canvas.DrawPolygon(flame, true, draw.ColorOrange)

	ship := c.canvas.BorrowPoints(5)
	ship[0] = draw.Point{X: cx, Y: y}
	ship[1] = draw.Point{X: x + w, Y: y + h}
	ship[2] = draw.Point{X: cx + 7, Y: y + h*0.75}
	ship[3] = draw.Point{X: cx - 7, Y: y + h*0.75}
	ship[4] = draw.Point{X: x, Y: y + h}
	c.canvas.DrawPolygon(ship, true, draw.ColorBlue)

	c.canvas.FillRect(cx-3, y+h*0.35, 6, 8, draw.ColorCyan)
}

// paintEnemy gives each enemy type its own silhouette and colour.
func (c *Client) paintEnemy(e *object.Enemy) {
	x, y, w, h := e.X, e.Y, e.W, e.H
	cx, cy := x+w/2, y+h/2

	switch e.Type {
	case object.EnemySmall:
		pts := c.canvas.BorrowPoints(3)
		pts[0] = draw.Point{X: x, Y: y}
		pts[1] = draw.Point{X: x + w, Y: y}
		pts[2] = draw.Point{X: cx, Y: y + h}
		c.canvas.DrawPolygon(pts, true, draw.ColorRed)
	case object.EnemyMedium:
		pts := c.canvas.BorrowPoints(4)
		pts[0] = draw.Point{X: cx, Y: y}
		pts[1] = draw.Point{X: x + w, Y: cy}
		pts[2] = draw.Point{X: cx, Y: y + h}
		pts[3] = draw.Point{X: x, Y: cy}
		c.canvas.DrawPolygon(pts, true, draw.ColorOrange)
	default:
		pts := c.canvas.BorrowPoints(6)
		pts[0] = draw.Point{X: x + w*0.25, Y: y}
		pts[1] = draw.Point{X: x + w*0.75, Y: y}
		pts[2] = draw.Point{X: x + w, Y: cy}
		pts[3] = draw.Point{X: x + w*0.75, Y: y + h}
		pts[4] = draw.Point{X: x + w*0.25, Y: y + h}
		pts[5] = draw.Point{X: x, Y: cy}
		c.canvas.DrawPolygon(pts, true, draw.ColorDarkRed)

		// Core shrinks as the hull takes damage
		full := float64(e.Type.Spec().Health)
		core := w * 0.5 * float64(e.Health) / full
		c.canvas.FillRect(cx-core/2, cy-h*0.15, core, h*0.3, draw.ColorOrange)
	}
}

// text writes s at a 1-based canvas position and marks the cells for
// repaint so the text disappears once it is no longer drawn.
func (c *Client) text(col, row int, s string) {
	c.styled(col, row, draw.ColorNone, false, s)
}

func (c *Client) styled(col, row int, clr draw.Color, bold bool, s string) {
	if row < 1 || row > c.canvas.TerminalHeight() || col < 1 {
		return
	}
	if clr == draw.ColorNone && !bold {
		c.overlay.Text(col, row, s)
	} else {
		c.overlay.Styled(col, row, clr, bold, s)
	}
	c.canvas.MarkTextDirty(col, row, utf8.RuneCountInString(s))
}

// centered writes s horizontally centered on row.
func (c *Client) centered(row int, s string) {
	c.centeredStyled(row, draw.ColorNone, false, s)
}

// heading writes a bold centered title.
func (c *Client) heading(row int, clr draw.Color, s string) {
	c.centeredStyled(row, clr, true, s)
}

func (c *Client) centeredStyled(row int, clr draw.Color, bold bool, s string) {
	col := c.canvas.TerminalWidth()/2 - utf8.RuneCountInString(s)/2
	c.styled(max(col, 1), row, clr, bold, s)
}

// centeredLines writes a block of lines sharing one left edge.
func (c *Client) centeredLines(top int, clr draw.Color, lines []string) {
	width := 0
	for _, line := range lines {
		width = max(width, utf8.RuneCountInString(line))
	}
	col := max(c.canvas.TerminalWidth()/2-width/2, 1)
	for i, line := range lines {
		c.styled(col, top+i, clr, false, line)
	}
}

// blink reports whether blinking prompts are visible this frame.
func (c *Client) blink() bool {
	return c.state.now.UnixMilli()/600%2 == 0
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(snap *loop.Snapshot) {
	centerY := c.canvas.TerminalHeight() / 2

	if c.state.Screen == ScreenShutdown {
		c.drawShutdownScreen(centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerY)
		return
	}

	switch c.state.Screen {
	case ScreenMenu:
		c.drawStartScreen(centerY)
	case ScreenPlaying:
		c.drawPlayingHUD(snap)
		switch {
		case !c.state.gameOverAt.IsZero():
			c.drawGameOverOverlay(centerY)
		case snap.State.Status == loop.StatusPaused:
			c.drawPausedOverlay(centerY)
		}
	case ScreenResults:
		c.drawResultsScreen(centerY)
	}

	if c.state.now.Before(c.state.bannerUntil) {
		c.centered(c.canvas.TerminalHeight()-1, c.state.banner)
	}
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerY int) {
	top := centerY - 8
	c.centeredLines(top, draw.ColorYellow, titleArt)
	row := top + len(titleArt) + 1

	c.centered(row, "~ Vertical arcade shooter ~")
	if c.username != "" {
		c.centered(row+1, "Pilot: "+c.username)
	}
	c.centered(row+3, fmt.Sprintf("High score: %d", c.state.menuHigh))

	controls := []string{
		"WASD / arrows . . . Move",
		"SPACE . . . . . .  Shoot",
		"P / ESC . . . . .  Pause",
		"M . . . . . . . .  Sound",
		"Q . . . . . . . . . Quit",
	}
	c.centered(row+5, "Controls")
	c.centeredLines(row+6, draw.ColorNone, controls)

	if c.blink() {
		c.centered(row+len(controls)+7, ">>  Press SPACE to Start  <<")
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(snap *loop.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	st := snap.State

	c.text(2, 1, fmt.Sprintf("Score: %-8d", st.Score))
	c.text(2, 2, fmt.Sprintf("High:  %-8d", max(st.HighScore, st.Score)))

	levelText := fmt.Sprintf("Level %-3d", st.Level)
	c.text(termWidth/2-len(levelText)/2, 1, levelText)

	livesText := fmt.Sprintf("Lives: %-2d", st.Lives)
	c.text(termWidth-len(livesText)-1, 1, livesText)

	sound := "Sound: off"
	if c.audio.Enabled() {
		sound = "Sound: on "
	}
	c.text(termWidth-len(sound)-1, 2, sound)

	c.text(2, termHeight, fmt.Sprintf("Kills: %-5d", snap.Kills))

	if c.server != nil {
		c.drawLeaderboard(termWidth, termHeight)
	}
}

// drawLeaderboard lists the hub's top scores below the lives counter.
func (c *Client) drawLeaderboard(termWidth, termHeight int) {
	const width = 26
	col := termWidth - width - 1
	if col < 1 {
		return
	}

	top := c.server.TopScores()
	c.text(col, 4, fmt.Sprintf("%-*s", width, "Top pilots"))
	for i := range 5 {
		line := ""
		if i < len(top) {
			live := " "
			if top[i].Live {
				live = "*"
			}
			line = fmt.Sprintf("%d. %-16s%6d%s", i+1, top[i].Username, top[i].Score, live)
		}
		c.text(col, 5+i, fmt.Sprintf("%-*s", width, line))
	}

	players := fmt.Sprintf("Players: %-4d", c.server.Players())
	c.text(termWidth-len(players)-1, termHeight, players)
}

func (c *Client) drawPausedOverlay(centerY int) {
	c.heading(centerY-1, draw.ColorYellow, "PAUSED")
	c.centered(centerY+1, "P / ESC resume   Q menu")
}

func (c *Client) drawGameOverOverlay(centerY int) {
	c.centeredLines(centerY-3, draw.ColorRed, gameOverArt)
	c.centered(centerY+2, fmt.Sprintf("Final score: %d", c.state.summary.Score))
}

// drawResultsScreen shows the summary of the last session.
func (c *Client) drawResultsScreen(centerY int) {
	sum := c.state.summary
	top := centerY - 7

	c.heading(top, draw.ColorWhite, "MISSION REPORT")
	c.heading(top+2, draw.ColorCyan, sum.Rating)

	c.centered(top+4, fmt.Sprintf("Final score: %d", sum.Score))
	if sum.NewRecord {
		c.heading(top+5, draw.ColorYellow, fmt.Sprintf("High score: %d  NEW RECORD!", sum.HighScore))
	} else {
		c.centered(top+5, fmt.Sprintf("High score: %d", sum.HighScore))
	}

	c.centeredLines(top+7, draw.ColorNone, []string{
		fmt.Sprintf("Enemies destroyed  %6d", sum.Stats.Kills),
		fmt.Sprintf("Level reached      %6d", sum.Stats.Level),
		fmt.Sprintf("Time survived      %6s", sum.Stats.Duration.Round(time.Second)),
	})
	c.centered(top+11, score.Encouragement(sum.Score))

	if c.blink() {
		c.centered(top+13, ">>  SPACE play again   Q menu  <<")
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerY int) {
	c.heading(centerY-2, draw.ColorOrange, "INACTIVITY WARNING")
	remaining := int(tuning.InactivityDisconnectUser - c.state.now.Sub(c.lastInput).Seconds())
	c.centered(centerY, fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		max(remaining, 0),
	))
	c.centered(centerY+2, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerY int) {
	c.heading(centerY-3, draw.ColorRed, "SERVER SHUTTING DOWN")
	c.centered(centerY-1, "The server is restarting for maintenance.")
	c.centered(centerY, "Please reconnect in a moment.")

	remaining := int(tuning.ShutdownDisplaySeconds-c.state.now.Sub(c.state.shutdownAt).Seconds()) + 1
	c.centered(centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", max(remaining, 1)))
	c.centered(centerY+4, "Press Q to disconnect now")
}
