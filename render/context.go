package render

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/efield/sim"
	"github.com/lixenwraith/efield/vmath"
)

// InputMode selects the status bar layout
type InputMode uint8

const (
	ModeNormal InputMode = iota
	ModePrompt
)

// StatusInfo is the UI state shown in the status bar
type StatusInfo struct {
	Mode       InputMode
	Input      string // prompt text while ModePrompt
	InputError bool   // prompt flashes while set
	Message    string
	Fade       float64 // 0 while the message is fresh, approaching 1 as it expires
	Audio      bool    // audio device available
	Muted      bool
}

// RenderContext provides frame state for renderers, passed by value
type RenderContext struct {
	Frame *sim.Frame
	View  *View

	// Screen dimensions (terminal size); the field area is View.Size()
	ScreenWidth  int
	ScreenHeight int

	// Selected is the charge being dragged, uuid.Nil when none
	Selected uuid.UUID

	// Pointer is the last mouse position in simulation space
	Pointer      vmath.Vec2
	PointerValid bool

	Status StatusInfo
}
