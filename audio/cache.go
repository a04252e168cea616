package audio

import (
	"sync"

	"github.com/gopxl/beep"
)

// cueCache stores pre-rendered cue buffers at the configured volume
type cueCache struct {
	mu     sync.RWMutex
	cfg    *Config
	format beep.Format
	store  [cueCount]*beep.Buffer
}

func newCueCache(cfg *Config) *cueCache {
	return &cueCache{
		cfg: cfg,
		format: beep.Format{
			SampleRate:  beep.SampleRate(cfg.SampleRate),
			NumChannels: 2,
			Precision:   2,
		},
	}
}

// get returns the cached buffer or renders it on demand
func (c *cueCache) get(cue Cue) *beep.Buffer {
	if cue < 0 || cue >= cueCount {
		return nil
	}

	c.mu.RLock()
	if buf := c.store[cue]; buf != nil {
		c.mu.RUnlock()
		return buf
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if buf := c.store[cue]; buf != nil {
		return buf
	}

	buf := beep.NewBuffer(c.format)
	buf.Append(Synthesize(cue, c.cfg))
	c.store[cue] = buf
	return buf
}

// streamer returns a fresh playback cursor over the cached cue
func (c *cueCache) streamer(cue Cue) beep.Streamer {
	buf := c.get(cue)
	if buf == nil {
		return nil
	}
	return buf.Streamer(0, buf.Len())
}

// preload renders every cue
func (c *cueCache) preload() {
	for cue := Cue(0); cue < cueCount; cue++ {
		c.get(cue)
	}
}
