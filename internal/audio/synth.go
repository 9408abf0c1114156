package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
)

// waveFunc returns a mono sample for time t seconds into the sound.
type waveFunc func(t float64) float64

// synth streams an endless mono signal defined by fn.
type synth struct {
	sr  beep.SampleRate
	fn  waveFunc
	pos int
}

func (s *synth) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(s.pos) / float64(s.sr)
		v := s.fn(t)
		samples[i][0] = v
		samples[i][1] = v
		s.pos++
	}
	return len(samples), true
}

func (s *synth) Err() error {
	return nil
}

type cueShape struct {
	duration time.Duration
	wave     waveFunc
}

var cueShapes = map[Cue]cueShape{
	CueShoot: {100 * time.Millisecond, func(t float64) float64 {
		f := 800 - t*400
		return math.Sin(2*math.Pi*f*t) * math.Exp(-t*10) * 0.3
	}},
	CueExplosion: {500 * time.Millisecond, func(t float64) float64 {
		noise := (rand.Float64() - 0.5) * 2
		low := math.Sin(2*math.Pi*60*t) * 0.5
		return (noise*0.7 + low*0.3) * math.Exp(-t*3) * 0.4
	}},
	CueEnemyHit: {200 * time.Millisecond, func(t float64) float64 {
		f := 300 + math.Sin(t*50)*100
		return math.Sin(2*math.Pi*f*t) * math.Exp(-t*8) * 0.2
	}},
	CuePlayerHit: {300 * time.Millisecond, func(t float64) float64 {
		f := 200 - t*150
		return math.Sin(2*math.Pi*f*t) * math.Exp(-t*5) * 0.3
	}},
	CueLevelUp: {time.Second, func(t float64) float64 {
		f := 440 + math.Sin(t*8)*220
		return math.Sin(2*math.Pi*f*t) * math.Exp(-t*2) * 0.2
	}},
	CueGameOver: {2 * time.Second, func(t float64) float64 {
		f := 220 - t*100
		return math.Sin(2*math.Pi*f*t) * math.Exp(-t) * 0.25
	}},
}

// NewCueStreamer returns a finite streamer for c, or nil for an unknown cue.
func NewCueStreamer(sr beep.SampleRate, c Cue) beep.Streamer {
	shape, ok := cueShapes[c]
	if !ok {
		return nil
	}
	return beep.Take(sr.N(shape.duration), &synth{sr: sr, fn: shape.wave})
}

// Background loop: A B C D E D C B, one bar of musicLoop.
var melody = [...]float64{440, 494, 523, 587, 659, 587, 523, 494}

const musicLoop = 8 * time.Second

func musicWave(t float64) float64 {
	loop := musicLoop.Seconds()
	t = math.Mod(t, loop)
	noteLen := loop / float64(len(melody))
	idx := int(t / noteLen)
	if idx >= len(melody) {
		idx = len(melody) - 1
	}
	env := math.Max(0, 1-math.Mod(t, noteLen)/noteLen)
	return math.Sin(2*math.Pi*melody[idx]*t) * env * 0.1
}

// NewMusicStreamer returns the endless background track.
func NewMusicStreamer(sr beep.SampleRate) beep.Streamer {
	return &synth{sr: sr, fn: musicWave}
}
