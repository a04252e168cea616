package audio

import (
	"github.com/pkg/errors"
)

// Cue identifies a short synthesized sound tied to a user action
type Cue int

const (
	CueChargePositive Cue = iota // Positive charge placed
	CueChargeNegative            // Negative charge placed
	CueChargeRemoved             // Charge deleted
	CueLineHit                   // Field line ended on a charge
	CueError                     // Rejected input
	cueCount
)

func (c Cue) String() string {
	switch c {
	case CueChargePositive:
		return "charge+"
	case CueChargeNegative:
		return "charge-"
	case CueChargeRemoved:
		return "removed"
	case CueLineHit:
		return "hit"
	case CueError:
		return "error"
	default:
		return "unknown"
	}
}

// Player is the minimal audio interface used by the viewer
type Player interface {
	Play(Cue) bool
	ToggleMute() bool
	IsMuted() bool
	Close()
}

// Sentinel errors
var (
	ErrAudioDisabled = errors.New("audio: disabled")
	ErrUnknownCue    = errors.New("audio: unknown cue")
)

// Nop is a Player that never makes a sound
type Nop struct{}

func (Nop) Play(Cue) bool    { return false }
func (Nop) ToggleMute() bool { return true }
func (Nop) IsMuted() bool    { return true }
func (Nop) Close()           {}
