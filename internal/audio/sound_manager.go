package audio

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// SoundManager plays synthesized cues through the system speaker.
// Until Initialize succeeds every method is a no-op.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	music       *beep.Ctrl
	volume      float64
	enabled     bool
	initialized bool
}

// NewSoundManager creates a sound manager with master volume in [0,1].
func NewSoundManager(volume float64) *SoundManager {
	return &SoundManager{
		mixer:   &beep.Mixer{},
		volume:  math.Max(0, math.Min(1, volume)),
		enabled: true,
	}
}

// Initialize opens the speaker and starts the mixer.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences everything. The speaker itself stays open.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.music = nil
	sm.initialized = false
}

// Play mixes in a one-shot cue.
func (sm *SoundManager) Play(c Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || !sm.enabled {
		return
	}
	s := NewCueStreamer(sampleRate, c)
	if s == nil {
		return
	}
	sm.add(s)
}

// StartMusic starts the background loop, or resumes it if paused.
func (sm *SoundManager) StartMusic() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	if sm.music != nil {
		sm.music.Paused = !sm.enabled
		return
	}
	sm.music = &beep.Ctrl{Streamer: NewMusicStreamer(sampleRate), Paused: !sm.enabled}
	sm.mixer.Add(sm.gain(sm.music))
}

// PauseMusic holds the background loop at its current position.
func (sm *SoundManager) PauseMusic() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.music == nil {
		return
	}
	speaker.Lock()
	sm.music.Paused = true
	speaker.Unlock()
}

// StopMusic ends the background loop; the next StartMusic restarts it.
func (sm *SoundManager) StopMusic() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.music == nil {
		return
	}
	speaker.Lock()
	sm.music.Paused = true
	sm.music.Streamer = nil // a nil Ctrl streamer drains from the mixer
	speaker.Unlock()
	sm.music = nil
}

// SetEnabled mutes or unmutes all output.
func (sm *SoundManager) SetEnabled(enabled bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.enabled = enabled
	if sm.music != nil {
		speaker.Lock()
		sm.music.Paused = !enabled
		speaker.Unlock()
	}
}

// Enabled reports whether output is unmuted.
func (sm *SoundManager) Enabled() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.enabled && sm.initialized
}

// add must be called with sm.mu held.
func (sm *SoundManager) add(s beep.Streamer) {
	speaker.Lock()
	sm.mixer.Add(sm.gain(s))
	speaker.Unlock()
}

func (sm *SoundManager) gain(s beep.Streamer) beep.Streamer {
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(math.Max(sm.volume, 1e-6)),
		Silent:   sm.volume == 0,
	}
}

// Open returns a working SoundManager, or Nop when audio is disabled or the
// host has no usable output device.
func Open(enabled bool, volume float64, logger *log.Logger) Player {
	if !enabled {
		return Nop{}
	}
	sm := NewSoundManager(volume)
	if err := sm.Initialize(); err != nil {
		if logger != nil {
			logger.Warn("audio unavailable, continuing without sound", "err", err)
		}
		return Nop{}
	}
	return sm
}

// Close releases the speaker if p was returned by Open with sound enabled.
func Close(p Player) {
	if sm, ok := p.(*SoundManager); ok {
		sm.Cleanup()
	}
}
