package draw

import "strconv"

// Color is a canvas pixel colour. ColorNone marks an empty pixel.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorGray
	ColorDim
	ColorBlue
	ColorCyan
	ColorYellow
	ColorOrange
	ColorRed
	ColorDarkRed
	ColorGreen
	colorCount
)

// xterm-256 indices closest to the game palette.
var ansi256 = [colorCount]int{
	ColorWhite:   231,
	ColorGray:    250,
	ColorDim:     240,
	ColorBlue:    33,  // #0087ff, player
	ColorCyan:    51,  // engine flame core
	ColorYellow:  226, // player bullets, flame tip
	ColorOrange:  208, // medium enemies
	ColorRed:     203, // small enemies
	ColorDarkRed: 160, // large enemies
	ColorGreen:   46,
}

// Text attributes for overlays.
const (
	ColorReset = "\033[0m"
	TextBold   = "\033[1m"
)

// FG returns the escape sequence selecting c as foreground colour.
func (c Color) FG() string {
	if c == ColorNone || c >= colorCount {
		return "\033[39m"
	}
	return "\033[38;5;" + strconv.Itoa(ansi256[c]) + "m"
}

// BG returns the escape sequence selecting c as background colour.
func (c Color) BG() string {
	if c == ColorNone || c >= colorCount {
		return "\033[49m"
	}
	return "\033[48;5;" + strconv.Itoa(ansi256[c]) + "m"
}
