package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last byte.
// Terminals only report presses, so holds are inferred from auto-repeat.
const keyHoldDuration = 120 * time.Millisecond

// maxEscapeLen bounds how many bytes an unfinished escape sequence may hold
// back before it is given up on.
const maxEscapeLen = 16

// Poll is the result of draining a Stream for one frame.
type Poll struct {
	Held    KeySet // keys seen within the hold window
	Pressed []Key  // keys that went from released to held this frame, in arrival order
	Raw     []byte // bytes read this frame
}

// Stream delivers terminal input bytes via a channel and tracks when each
// key was last seen.
type Stream struct {
	ch       chan byte
	lastSeen [keyCount]time.Time
	closed   bool
	pending  []byte // unfinished escape sequence carried to the next poll
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has hit EOF or an error.
func (s *Stream) Closed() bool {
	return s.closed
}

// Reset forgets all held keys, e.g. when switching screens.
func (s *Stream) Reset() {
	s.lastSeen = [keyCount]time.Time{}
	s.pending = nil
}

// Poll drains all available bytes (non-blocking) and decodes them.
func (s *Stream) Poll(now time.Time) Poll {
	var buf []byte
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	return s.decode(buf, now)
}

// decode interprets the bytes of one poll. An escape sequence cut off at the
// end is held back until the next poll; if that poll brings no bytes at all,
// the ESC was a key press of its own.
func (s *Stream) decode(in []byte, now time.Time) Poll {
	p := Poll{Raw: in}
	seen := func(k Key) {
		if now.Sub(s.lastSeen[k]) >= keyHoldDuration {
			p.Pressed = append(p.Pressed, k)
		}
		s.lastSeen[k] = now
	}

	buf := append(s.pending, in...)
	s.pending = nil
	for i := 0; i < len(buf); {
		if buf[i] != '\x1b' {
			if k, ok := byteKey(buf[i]); ok {
				seen(k)
			}
			i++
			continue
		}

		k, ok, n := escapeSequence(buf[i:])
		if n == 0 {
			tail := buf[i:]
			if len(in) > 0 && len(tail) < maxEscapeLen {
				s.pending = append([]byte(nil), tail...)
				break
			}
			// Nothing followed: a bare escape.
			k, ok, n = KeyPause, true, 1
		}
		if ok {
			seen(k)
		}
		i += n
	}

	for k := Key(0); k < keyCount; k++ {
		if !s.lastSeen[k].IsZero() && now.Sub(s.lastSeen[k]) < keyHoldDuration {
			p.Held = p.Held.With(k)
		}
	}
	return p
}

// escapeSequence decodes the sequence starting with ESC at b[0]. It returns
// the key it maps to, if any, and its length; n is 0 when b ends before the
// sequence is complete. CSI sequences (ESC [ params final) and SS3 arrows
// (ESC O A) are recognised; an ESC followed by anything else is Escape.
func escapeSequence(b []byte) (k Key, ok bool, n int) {
	if len(b) < 2 {
		return 0, false, 0
	}
	switch b[1] {
	case '[':
		j := 2
		for j < len(b) && b[j] >= 0x20 && b[j] <= 0x3f { // parameters, intermediates
			j++
		}
		if j == len(b) {
			return 0, false, 0
		}
		if b[j] < 0x40 || b[j] > 0x7e {
			return KeyPause, true, 1
		}
		k, ok = arrowKey(b[j])
		return k, ok, j + 1
	case 'O':
		if len(b) < 3 {
			return 0, false, 0
		}
		if k, ok = arrowKey(b[2]); ok {
			return k, true, 3
		}
	}
	return KeyPause, true, 1
}

func arrowKey(code byte) (Key, bool) {
	switch code {
	case 'A':
		return KeyUp, true
	case 'B':
		return KeyDown, true
	case 'C':
		return KeyRight, true
	case 'D':
		return KeyLeft, true
	}
	return 0, false
}

func byteKey(b byte) (Key, bool) {
	switch b {
	case 'w', 'W', 'k', 'K':
		return KeyUp, true
	case 's', 'S', 'j', 'J':
		return KeyDown, true
	case 'a', 'A', 'h', 'H':
		return KeyLeft, true
	case 'd', 'D', 'l', 'L':
		return KeyRight, true
	case ' ':
		return KeyFire, true
	case '\n', '\r':
		return KeyStart, true
	case '\x1b', 'p', 'P':
		return KeyPause, true
	case 'q', 'Q', 0x03: // ctrl+c
		return KeyQuit, true
	case 'm', 'M':
		return KeyMute, true
	}
	return 0, false
}
