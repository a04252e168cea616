package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/efield/parameter"
)

// SoundManager plays cached cues through the system speaker
type SoundManager struct {
	mu          sync.Mutex
	cfg         *Config
	cache       *cueCache
	mixer       *beep.Mixer
	lastPlayed  [cueCount]time.Time
	muted       bool
	initialized bool
	log         zerolog.Logger

	// Overridable for tests
	now     func() time.Time
	enqueue func(beep.Streamer)
}

var _ Player = (*SoundManager)(nil)

// NewSoundManager creates a sound manager; call Initialize before playing
func NewSoundManager(cfg *Config, log zerolog.Logger) *SoundManager {
	cfg = cfg.Clamped()
	sm := &SoundManager{
		cfg:   cfg,
		cache: newCueCache(cfg),
		mixer: &beep.Mixer{},
		log:   log,
		now:   time.Now,
	}
	sm.enqueue = sm.speakerAdd
	return sm
}

// Initialize opens the speaker and starts the mixer
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if !sm.cfg.Enabled {
		return ErrAudioDisabled
	}

	rate := beep.SampleRate(sm.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		return errors.Wrap(err, "audio: speaker init")
	}

	sm.cache.preload()
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Play queues a cue; returns false when muted, uninitialized or rate limited
func (sm *SoundManager) Play(c Cue) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted {
		return false
	}
	if c < 0 || c >= cueCount {
		return false
	}

	now := sm.now()
	if now.Sub(sm.lastPlayed[c]) < parameter.MinCueGap {
		return false
	}

	s := sm.cache.streamer(c)
	if s == nil {
		return false
	}
	sm.lastPlayed[c] = now
	sm.enqueue(s)
	return true
}

// ToggleMute flips the mute state and returns the new state
func (sm *SoundManager) ToggleMute() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.muted = !sm.muted
	return sm.muted
}

// IsMuted reports the mute state
func (sm *SoundManager) IsMuted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.muted
}

// Close stops all cues and releases the speaker
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()

	sm.initialized = false
}

// speakerAdd hands a streamer to the mixer while the speaker goroutine is paused
func (sm *SoundManager) speakerAdd(s beep.Streamer) {
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// Open returns a ready Player
// A disabled config or a missing audio device yields Nop so the viewer runs silent
func Open(cfg *Config, log zerolog.Logger) Player {
	if cfg == nil || !cfg.Enabled {
		log.Debug().Msg("audio disabled")
		return Nop{}
	}

	sm := NewSoundManager(cfg, log)
	if err := sm.Initialize(); err != nil {
		log.Warn().Err(err).Msg("audio unavailable, continuing without sound")
		return Nop{}
	}

	log.Info().Int("sample_rate", sm.cfg.SampleRate).Float64("volume", sm.cfg.Volume).Msg("audio ready")
	return sm
}
