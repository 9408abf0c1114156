package draw

import (
	"io"
	"math"
	"sort"
	"strings"
)

// cell is what one terminal character position shows.
type cell struct {
	ch     rune
	fg, bg Color
}

// staleCell never matches a rendered cell, forcing a rewrite.
var staleCell = cell{ch: -1}

// Canvas is a colour drawing buffer with 2x vertical resolution using
// half-block characters. Logical coordinates are scaled to terminal pixels.
// Render only rewrites cells that changed since the previous Render.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]
	shown          []cell  // What the terminal currently displays, per cell

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
		c.shown = make([]cell, termHeight*termWidth)
		c.ForceRedraw()
	}
	c.scaleX = float64(c.termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.ForceRedraw()
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render rewrite every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	for i := range c.shown {
		c.shown[i] = staleCell
	}
}

// MarkTextDirty records that text was written over n cells starting at the
// 1-based canvas position (col, row), so the next Render repaints them.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := col - 1; x < col-1+n; x++ {
		if x >= 0 && x < c.termWidth {
			c.shown[r*c.termWidth+x] = staleCell
		}
	}
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// Set sets a pixel at logical coordinates.
func (c *Canvas) Set(x, y float64, col Color) {
	c.setPixel(int(math.Floor(x*c.scaleX)), int(math.Floor(y*c.scaleY)), col)
}

// FillRect fills a logical rectangle. Any rectangle inside the canvas covers
// at least one pixel.
func (c *Canvas) FillRect(x, y, w, h float64, col Color) {
	x0 := int(math.Floor(x * c.scaleX))
	y0 := int(math.Floor(y * c.scaleY))
	x1 := max(int(math.Ceil((x+w)*c.scaleX)), x0+1)
	y1 := max(int(math.Ceil((y+h)*c.scaleY)), y0+1)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.setPixel(px, py, col)
		}
	}
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, col Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon on the canvas.
// If filled is true, the interior is filled using scanline algorithm.
func (c *Canvas) DrawPolygon(points []Point, filled bool, col Color) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points, col)
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], col)
	}
}

// fillPolygon fills a polygon using scanline algorithm in pixel space.
func (c *Canvas) fillPolygon(points []Point, col Color) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5
		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)
		for i := 0; i+1 < len(intersections); i += 2 {
			for x := int(math.Ceil(intersections[i])); x <= int(math.Floor(intersections[i+1])); x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// cellAt combines the two sub-pixels of a terminal cell.
func (c *Canvas) cellAt(col, row int) cell {
	top := c.pixels[row*2*c.termWidth+col]
	bottom := c.pixels[(row*2+1)*c.termWidth+col]
	switch {
	case top == ColorNone && bottom == ColorNone:
		return cell{ch: ' '}
	case top == bottom:
		return cell{ch: BlockFull, fg: top}
	case bottom == ColorNone:
		return cell{ch: BlockUpperHalf, fg: top}
	case top == ColorNone:
		return cell{ch: BlockLowerHalf, fg: bottom}
	default:
		return cell{ch: BlockUpperHalf, fg: top, bg: bottom}
	}
}

// Render writes every cell that changed since the previous Render.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	style := staleCell // colours currently selected on the terminal
	lastCol, lastRow := -2, -2

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			want := c.cellAt(col, row)
			idx := row*c.termWidth + col
			if c.shown[idx] == want {
				continue
			}
			c.shown[idx] = want

			if row != lastRow || col != lastCol+1 {
				c.moveTo(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			lastCol, lastRow = col, row

			if want.fg != style.fg || want.bg != style.bg || style.ch == -1 {
				c.renderBuf.WriteString(want.fg.FG())
				c.renderBuf.WriteString(want.bg.BG())
				style = want
			}
			c.renderBuf.WriteRune(want.ch)
		}
	}
	if c.renderBuf.Len() == 0 {
		return
	}
	c.renderBuf.WriteString(ColorReset)
	io.WriteString(w, c.renderBuf.String())
}

func (c *Canvas) moveTo(col, row int) {
	c.renderBuf.Write(appendCursor(c.numBuf[:0], col, row))
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	bar := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	move := func(row, col int) {
		buf.Write(appendCursor(c.numBuf[:0], col, row))
	}

	if hasV {
		if hasH {
			move(top, left)
			buf.WriteString("┌" + bar + "┐")
			move(bottom, left)
			buf.WriteString("└" + bar + "┘")
		} else {
			move(top, c.offsetCol+1)
			buf.WriteString(bar)
			move(bottom, c.offsetCol+1)
			buf.WriteString(bar)
		}
	}

	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			move(row, left)
			buf.WriteString("│")
			move(row, right)
			buf.WriteString("│")
		}
	}

	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based canvas position (col, row).
// This is useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1, py/2 + 1
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}
