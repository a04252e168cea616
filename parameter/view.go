package parameter

import "time"

// Terminal view
const (
	// DefaultViewScale is terminal columns per simulation unit; rows use half of it
	DefaultViewScale = 4.0

	// CellAspect is the height/width ratio of a terminal cell
	CellAspect = 2.0

	// ZoomStep is the relative scale change per wheel notch or +/- key
	ZoomStep = 0.1

	// MinViewScale and MaxViewScale bound zooming
	MinViewScale = 0.25
	MaxViewScale = 200.0

	// StatusBarRows reserved at the bottom of the screen
	StatusBarRows = 1

	// HoverAlpha tints the cell of the charge under the pointer toward the drag highlight
	HoverAlpha = 0.35
)

// Line angle slider, matching a 0..100 slider scaled by 0.02π
const (
	AngleSliderMax  = 100
	AngleSliderUnit = 0.02
)

// Arrow colour mapping
const (
	// ArrowMagnitudeScale brings Coulomb-scale magnitudes into display range
	ArrowMagnitudeScale = 0.00008

	// ArrowClampMin and ArrowClampMax bound the scaled magnitude before hue mapping
	ArrowClampMin = 0.1
	ArrowClampMax = 2.0

	// ArrowHueSpan is the scaled magnitude that would reach a full hue turn
	ArrowHueSpan = 10.0
)

// Arrow glyph length bounds in simulation units, used by the PDF exporter
const (
	ArrowMinLength = 0.8
	ArrowMaxLength = 1.5
)

// Timing
const (
	DefaultTick = 20 * time.Millisecond

	// ErrorFlashDuration is how long an invalid prompt entry stays highlighted
	ErrorFlashDuration = 600 * time.Millisecond

	// StatusMessageTimeout is how long status messages are displayed
	StatusMessageTimeout = 2 * time.Second
)
