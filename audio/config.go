package audio

import (
	"github.com/lixenwraith/efield/parameter"
)

// Config holds audio settings
type Config struct {
	Enabled    bool
	Volume     float64 // master volume in [0, 1]
	SampleRate int
	CueVolumes map[Cue]float64
}

// DefaultConfig returns the built-in audio settings
func DefaultConfig() *Config {
	return &Config{
		Enabled:    true,
		Volume:     parameter.DefaultAudioVolume,
		SampleRate: parameter.AudioSampleRate,
		CueVolumes: map[Cue]float64{
			CueChargePositive: 0.8,
			CueChargeNegative: 0.8,
			CueChargeRemoved:  0.6,
			CueLineHit:        0.5,
			CueError:          0.8,
		},
	}
}

// Clamped returns a copy with volume in [0, 1] and a usable sample rate
func (c *Config) Clamped() *Config {
	out := *c
	out.CueVolumes = make(map[Cue]float64, len(c.CueVolumes))
	for k, v := range c.CueVolumes {
		out.CueVolumes[k] = v
	}
	if out.Volume < 0 {
		out.Volume = 0
	}
	if out.Volume > 1 {
		out.Volume = 1
	}
	if out.SampleRate <= 0 {
		out.SampleRate = parameter.AudioSampleRate
	}
	return &out
}
