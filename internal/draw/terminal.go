package draw

import (
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// Control sequences.
const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
)

// maxChunkSize keeps each write under a typical MTU so SSH frames arrive whole.
const maxChunkSize = 1400

// appendCursor appends the escape sequence moving the cursor to the 1-based
// terminal position (col, row).
func appendCursor(dst []byte, col, row int) []byte {
	dst = append(dst, "\033["...)
	dst = strconv.AppendInt(dst, int64(row), 10)
	dst = append(dst, ';')
	dst = strconv.AppendInt(dst, int64(col), 10)
	return append(dst, 'H')
}

// Overlay collects one frame of output: the canvas renders into it as an
// io.Writer and text is placed on top with Text and Styled. Flush sends the
// frame in MTU-sized writes. Text positions are 1-based and relative to the
// letterboxed canvas origin.
type Overlay struct {
	frame []byte
	out   io.Writer
	col   int
	row   int
}

// NewOverlay returns an Overlay writing to w with the canvas origin at
// (col, row) terminal cells from the top-left corner.
func NewOverlay(w io.Writer, col, row int) *Overlay {
	return &Overlay{out: w, col: col, row: row}
}

// SetOrigin moves the canvas origin, e.g. after a resize.
func (o *Overlay) SetOrigin(col, row int) {
	o.col, o.row = col, row
}

func (o *Overlay) Write(p []byte) (int, error) {
	o.frame = append(o.frame, p...)
	return len(p), nil
}

// Clear queues a full screen clear.
func (o *Overlay) Clear() {
	o.frame = append(o.frame, seqClear...)
}

// Text writes s at (col, row) in the terminal's current style.
func (o *Overlay) Text(col, row int, s string) {
	o.frame = appendCursor(o.frame, col+o.col, row+o.row)
	o.frame = append(o.frame, s...)
}

// Styled writes s at (col, row) in colour c, optionally bold.
func (o *Overlay) Styled(col, row int, c Color, bold bool, s string) {
	o.frame = appendCursor(o.frame, col+o.col, row+o.row)
	if bold {
		o.frame = append(o.frame, TextBold...)
	}
	o.frame = append(o.frame, c.FG()...)
	o.frame = append(o.frame, s...)
	o.frame = append(o.frame, ColorReset...)
}

// Flush sends the frame and starts a new one.
func (o *Overlay) Flush() error {
	data := o.frame
	o.frame = o.frame[:0]
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := o.out.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// TermSizeFunc reports the terminal size in cells.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc measures the terminal on os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) { io.WriteString(w, seqClear) }

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) { io.WriteString(w, seqHideCursor) }

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) { io.WriteString(w, seqShowCursor) }
