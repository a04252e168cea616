package parameter

import "time"

// Audio hardware settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond

	// DefaultAudioVolume is the master volume in [0, 1]
	DefaultAudioVolume = 0.5

	// MinCueGap drops a repeated cue that arrives sooner than this
	MinCueGap = 50 * time.Millisecond
)

// Charge placed: pitch encodes sign
const (
	ChargeCueDuration     = 180 * time.Millisecond
	ChargeCueAttack       = 5 * time.Millisecond
	ChargeCueRelease      = 150 * time.Millisecond
	ChargeCuePositiveFreq = 880.0  // A5
	ChargeCueNegativeFreq = 440.0  // A4
	ChargeCueOvertoneFreq = 1760.0 // octave over A5
)

// Charge removed
const (
	RemoveCueDuration = 250 * time.Millisecond
	RemoveCueAttack   = 100 * time.Millisecond
	RemoveCueRelease  = 150 * time.Millisecond
)

// Line lands on a charge: two-note chime
const (
	HitCueNote1Duration = 80 * time.Millisecond
	HitCueNote2Duration = 220 * time.Millisecond
	HitCueAttack        = 5 * time.Millisecond
	HitCueNote1Release  = 40 * time.Millisecond
	HitCueNote2Release  = 180 * time.Millisecond
	HitCueNote1Freq     = 987.77  // B5
	HitCueNote2Freq     = 1318.51 // E6
)

// Invalid input buzz
const (
	ErrorCueDuration = 80 * time.Millisecond
	ErrorCueAttack   = 5 * time.Millisecond
	ErrorCueRelease  = 20 * time.Millisecond
	ErrorCueFreq     = 100.0
)
