package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/efield/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope creates an attack/sustain/release envelope
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			remaining := e.totalSamples - e.position
			vol = float64(remaining) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a linear gain
// math.Log2(0) is -Inf, so zero volume is made silent instead
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

func cueGain(c Cue, cfg *Config) float64 {
	return cfg.CueVolumes[c] * cfg.Volume
}

// CreateChargeSound generates a short ding whose pitch encodes the charge sign
func CreateChargeSound(positive bool, cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	cue, freq := CueChargePositive, parameter.ChargeCuePositiveFreq
	if !positive {
		cue, freq = CueChargeNegative, parameter.ChargeCueNegativeFreq
	}

	fund := NewOscillator(freq, parameter.ChargeCueDuration, WaveSine, rate)
	fundShaped := NewEnvelope(fund, parameter.ChargeCueDuration, parameter.ChargeCueAttack, parameter.ChargeCueRelease, rate)

	// Octave overtone
	over := NewOscillator(freq*2, parameter.ChargeCueDuration, WaveSine, rate)
	overShaped := NewEnvelope(over, parameter.ChargeCueDuration, parameter.ChargeCueAttack, parameter.ChargeCueRelease/2, rate)

	// Mix is bounded explicitly so a cached cue always terminates
	mixed := beep.Take(rate.N(parameter.ChargeCueDuration), beep.Mix(
		newVolume(fundShaped, 0.7),
		newVolume(overShaped, 0.3),
	))
	return newVolume(mixed, cueGain(cue, cfg))
}

// CreateRemoveSound generates a soft noise sweep for charge deletion
func CreateRemoveSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	noise := NewOscillator(0, parameter.RemoveCueDuration, WaveNoise, rate)
	shaped := NewEnvelope(noise, parameter.RemoveCueDuration, parameter.RemoveCueAttack, parameter.RemoveCueRelease, rate)

	return newVolume(shaped, cueGain(CueChargeRemoved, cfg))
}

// CreateHitSound generates a two-note chime for a line landing on a charge
func CreateHitSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	n1 := NewOscillator(parameter.HitCueNote1Freq, parameter.HitCueNote1Duration, WaveSquare, rate)
	n1Shaped := NewEnvelope(n1, parameter.HitCueNote1Duration, parameter.HitCueAttack, parameter.HitCueNote1Release, rate)

	n2 := NewOscillator(parameter.HitCueNote2Freq, parameter.HitCueNote2Duration, WaveSquare, rate)
	n2Shaped := NewEnvelope(n2, parameter.HitCueNote2Duration, parameter.HitCueAttack, parameter.HitCueNote2Release, rate)

	return newVolume(beep.Seq(n1Shaped, n2Shaped), cueGain(CueLineHit, cfg))
}

// CreateErrorSound generates a short harsh buzz for rejected input
func CreateErrorSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	osc := NewOscillator(parameter.ErrorCueFreq, parameter.ErrorCueDuration, WaveSaw, rate)
	shaped := NewEnvelope(osc, parameter.ErrorCueDuration, parameter.ErrorCueAttack, parameter.ErrorCueRelease, rate)

	return newVolume(shaped, cueGain(CueError, cfg))
}

// Synthesize returns the streamer for a cue, nil for an unknown cue
func Synthesize(c Cue, cfg *Config) beep.Streamer {
	switch c {
	case CueChargePositive:
		return CreateChargeSound(true, cfg)
	case CueChargeNegative:
		return CreateChargeSound(false, cfg)
	case CueChargeRemoved:
		return CreateRemoveSound(cfg)
	case CueLineHit:
		return CreateHitSound(cfg)
	case CueError:
		return CreateErrorSound(cfg)
	default:
		return nil
	}
}

// CueDuration returns the nominal length of a cue
func CueDuration(c Cue) time.Duration {
	switch c {
	case CueChargePositive, CueChargeNegative:
		return parameter.ChargeCueDuration
	case CueChargeRemoved:
		return parameter.RemoveCueDuration
	case CueLineHit:
		return parameter.HitCueNote1Duration + parameter.HitCueNote2Duration
	case CueError:
		return parameter.ErrorCueDuration
	default:
		return 0
	}
}
